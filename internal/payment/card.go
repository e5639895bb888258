package payment

import (
	"strconv"
	"strings"
	"time"

	"mediplus/internal/model"
)

// normaliseCardNumber strips the spaces and dashes users type between digit groups.
func normaliseCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// ValidCardNumber reports whether number is 13-19 digits passing the Luhn checksum.
func ValidCardNumber(number string) bool {
	digits := normaliseCardNumber(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// ValidExpiry reports whether expiry is MM/YY and the card is still valid at now.
// A card is valid through the last day of its expiry month.
func ValidExpiry(expiry string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 0 {
		return false
	}

	firstOfNextMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return now.Before(firstOfNextMonth)
}

// ValidCVV reports whether cvv is 3 or 4 digits.
func ValidCVV(cvv string) bool {
	return allDigits(cvv) && (len(cvv) == 3 || len(cvv) == 4)
}

// ValidOTP reports whether otp is exactly 6 digits.
func ValidOTP(otp string) bool {
	return len(otp) == 6 && allDigits(otp)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// validateCard checks a card form and returns the last four digits.
func validateCard(number, expiry, cvv string, now time.Time) (string, error) {
	if !ValidCardNumber(number) {
		return "", model.ErrInvalidCardNumber
	}
	if !ValidExpiry(expiry, now) {
		return "", model.ErrInvalidExpiry
	}
	if !ValidCVV(cvv) {
		return "", model.ErrInvalidCVV
	}

	digits := normaliseCardNumber(number)
	return digits[len(digits)-4:], nil
}
