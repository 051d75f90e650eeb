package worker

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frescolabs/storefront-api/internal/notify"
)

const mailFrom = "no-reply@abarrotesfresco.com"

func (w *MailWorker) render(msg notify.Message) (string, error) {
	switch msg.Kind {
	case notify.KindWelcome:
		return renderWelcome(msg), nil
	case notify.KindVerification, notify.KindResend:
		if msg.Token == "" {
			return "", fmt.Errorf("verification mail without token")
		}
		return w.renderVerification(msg), nil
	case notify.KindPasswordReset:
		if msg.Token == "" {
			return "", fmt.Errorf("reset mail without token")
		}
		return renderPasswordReset(msg), nil
	case notify.KindOrderReceipt:
		if msg.Order == nil {
			return "", fmt.Errorf("receipt mail without order")
		}
		return renderOrderReceipt(msg), nil
	default:
		return "", fmt.Errorf("unknown mail kind %q", msg.Kind)
	}
}

func renderWelcome(msg notify.Message) string {
	return fmt.Sprintf(`To: %s
From: %s
Subject: ¡Bienvenido a Abarrotes Fresco!

Hola %s,

¡Gracias por registrarte en Abarrotes Fresco! Estamos muy contentos de tenerte con nosotros.
Explora nuestro catálogo y descubre la frescura y calidad que tenemos para ofrecerte.

¡Felices compras!

El equipo de Abarrotes Fresco`, msg.Recipient, mailFrom, msg.Name)
}

func (w *MailWorker) renderVerification(msg notify.Message) string {
	link := fmt.Sprintf("%s?token=%s&email=%s", w.verifyBaseURL, msg.Token, url.QueryEscape(msg.Recipient))
	return fmt.Sprintf(`To: %s
From: %s
Subject: Verifica tu cuenta en Abarrotes Fresco

Hola %s,

¡Gracias por registrarte en Abarrotes Fresco!
Para completar tu registro y asegurar tu cuenta, por favor verifica tu dirección de correo electrónico haciendo clic en el siguiente enlace:

%s

Si no te registraste en nuestro sitio, por favor ignora este correo.

¡Felices compras!

El equipo de Abarrotes Fresco`, msg.Recipient, mailFrom, msg.Name, link)
}

func renderPasswordReset(msg notify.Message) string {
	return fmt.Sprintf(`To: %s
From: %s
Subject: Restablece tu contraseña en Abarrotes Fresco

Hola %s,

Recibimos una solicitud para restablecer la contraseña de tu cuenta.
Usa el siguiente código para establecer una nueva contraseña:

%s

Si no solicitaste este cambio, puedes ignorar este correo.

El equipo de Abarrotes Fresco`, msg.Recipient, mailFrom, msg.Name, msg.Token)
}

func renderOrderReceipt(msg notify.Message) string {
	order := msg.Order

	var items strings.Builder
	for _, it := range order.Items {
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(&items, "    - %s (x%d): $%s\n", it.Name, it.Quantity, line.StringFixed(2))
	}

	cardType := string(order.PaymentMethod.CardType)
	if cardType != "" {
		cardType = strings.ToUpper(cardType[:1]) + cardType[1:]
	}

	return fmt.Sprintf(`To: %s
From: %s
Subject: Recibo de tu pedido #%s

Hola,

Gracias por tu compra. Aquí tienes el resumen de tu pedido:

Número de Pedido: %s
Fecha: %s
Total: $%s

Artículos:
%s
Dirección de Envío:
    %s
    %s, %s %s
    %s

Método de Pago:
    %s terminada en %s

Si tienes alguna pregunta, no dudes en contactarnos.

El equipo de Abarrotes Fresco`,
		msg.Recipient, mailFrom, order.ID,
		order.ID, order.Date, order.Total.StringFixed(2),
		strings.TrimRight(items.String(), "\n"),
		order.ShippingAddress.Street,
		order.ShippingAddress.City, order.ShippingAddress.State, order.ShippingAddress.PostalCode,
		order.ShippingAddress.Country,
		cardType, order.PaymentMethod.Last4,
	)
}
