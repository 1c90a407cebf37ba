// Package isbn cleans up and checks the ISBN-13 numbers stored on books.
package isbn

import (
	"strings"
	"unicode"
)

// Length is the number of digits in an ISBN-13.
const Length = 13

// Normalize removes hyphens, spaces and an "ISBN" prefix from a value typed by
// a person, e.g. "ISBN 978-0-306-40615-7" becomes "9780306406157". ISBN-10
// values are converted to their ISBN-13 form.
func Normalize(value string) string {
	value = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(value)), "ISBN:")
	value = strings.TrimPrefix(value, "ISBN")

	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) || r == 'X' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if valid10(digits) {
		return from10(digits)
	}
	return digits
}

// Valid reports whether value is 13 digits with a correct check digit.
func Valid(value string) bool {
	if len(value) != Length {
		return false
	}
	var sum int
	for i, r := range value {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}
	return sum%10 == 0
}

// valid10 checks an ISBN-10 with the weights 10 down to 1, modulo 11. X is
// only allowed as the check digit.
func valid10(value string) bool {
	if len(value) != 10 {
		return false
	}
	var sum int
	for i, r := range value {
		var digit int
		switch {
		case r == 'X' && i == 9:
			digit = 10
		case r >= '0' && r <= '9':
			digit = int(r - '0')
		default:
			return false
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

func from10(value string) string {
	body := "978" + value[:9]
	var sum int
	for i, r := range body {
		digit := int(r - '0')
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}
	check := (10 - sum%10) % 10
	return body + string(rune('0'+check))
}
