package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const phoneDigits = 12

// NormalizePhone rewrites a Kenyan mobile number into the 2547XXXXXXXX form
// expected by M-Pesa. Non-digits are dropped.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)

	switch {
	case strings.HasPrefix(digits, "254"):
		return truncate(digits, phoneDigits)
	case strings.HasPrefix(digits, "0"):
		return "254" + truncate(digits[1:], 9)
	case strings.HasPrefix(digits, "7"), strings.HasPrefix(digits, "1"):
		return "254" + truncate(digits, 9)
	default:
		return truncate(digits, phoneDigits)
	}
}

func ValidatePhone(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if len(phone) != phoneDigits {
		return "", fmt.Errorf("phone number[%s] is too short", raw)
	}

	return phone, nil
}

// CardLast4 checks that number looks like a payment card (12-19 digits,
// spaces and dashes allowed) and returns its last four digits.
func CardLast4(number string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)

	if len(digits) < 12 || len(digits) > 19 {
		return "", fmt.Errorf("card number must have 12 to 19 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("card number must contain only digits")
		}
	}

	return digits[len(digits)-4:], nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
