package model

import (
	"crypto/rand"
	"regexp"
	"time"
)

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OrderIDPattern matches the wire format of order ids.
var OrderIDPattern = regexp.MustCompile(`^FRESCO-[A-Z0-9]{7}$`)

// NewOrderID returns a human-readable random order token of the form
// FRESCO-XXXXXXX.
func NewOrderID() string {
	b := make([]byte, 7)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = orderIDAlphabet[int(b[i])%len(orderIDAlphabet)]
	}
	return "FRESCO-" + string(b)
}

// NextEntityID returns a millisecond-timestamp id for addresses, payment
// methods and reviews, bumped past max so two mutations landing in the same
// millisecond stay unique within a collection.
func NextEntityID(max int64) int64 {
	id := time.Now().UnixMilli()
	if id <= max {
		id = max + 1
	}
	return id
}

// MaxAddressID returns the highest id in the collection, 0 when empty.
func MaxAddressID(addrs []Address) int64 {
	var max int64
	for _, a := range addrs {
		if a.ID > max {
			max = a.ID
		}
	}
	return max
}

func MaxPaymentMethodID(pms []PaymentMethod) int64 {
	var max int64
	for _, p := range pms {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func MaxReviewID(reviews []Review) int64 {
	var max int64
	for _, r := range reviews {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
