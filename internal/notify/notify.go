// Package notify carries outbound mail intents out of the domain layer.
// Domain operations only emit an intent; the composition layer decides how it
// is dispatched (AMQP queue in production, a recorder in tests), so a real
// mail provider can be substituted without touching the services.
package notify

import (
	"context"

	"github.com/frescolabs/storefront-api/internal/model"
)

type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindVerification  Kind = "verification"
	KindResend        Kind = "resend_verification"
	KindPasswordReset Kind = "password_reset"
	KindOrderReceipt  Kind = "order_receipt"
)

// Message is one mail intent: a kind, a recipient and the contextual payload
// the template for that kind needs.
type Message struct {
	Kind      Kind         `json:"kind"`
	Recipient string       `json:"recipient"`
	Name      string       `json:"name,omitempty"`
	Token     string       `json:"token,omitempty"`
	Order     *model.Order `json:"order,omitempty"`
}

// Notifier is the outbound-mail capability. Sends are fire-and-forget from
// the domain's point of view: failures are logged by the caller, never
// retried.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
