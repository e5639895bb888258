package payment

import (
	"github.com/google/uuid"

	"mediplus/internal/model"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomToken returns n upper-case base-36 characters drawn from random UUIDs.
func randomToken(n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		id := uuid.New()
		for i, b := range id {
			// bytes 6 and 8 carry the UUID version and variant bits
			if i == 6 || i == 8 {
				continue
			}
			if len(out) == n {
				break
			}
			if c, ok := base36Digit(b); ok {
				out = append(out, c)
			}
		}
	}
	return string(out)
}

// base36Digit maps b onto a base-36 digit. Bytes at or above the largest
// multiple of 36 are rejected so every digit is equally likely.
func base36Digit(b byte) (byte, bool) {
	const limit = 256 - 256%len(base36)
	if int(b) >= limit {
		return 0, false
	}
	return base36[int(b)%len(base36)], true
}

// NewBookingID returns a booking identifier such as CS7K2Q9ZX1B.
func NewBookingID() string {
	return "CS" + randomToken(9)
}

// NewTransactionID fabricates a transaction id prefixed by the payment method.
func NewTransactionID(method model.PaymentMethod) string {
	prefix := "UPI"
	if method == model.PaymentCard {
		prefix = "CARD"
	}
	return prefix + randomToken(8)
}
