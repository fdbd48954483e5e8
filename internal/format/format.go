package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Money renders an amount in the store currency: thousands separated by
// dots, no decimals, currency sign suffixed. 1500000 -> "1.500.000₫".
func Money(amount float64) string {
	n := int64(amount)
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "₫"
	if neg {
		out = "-" + out
	}
	return out
}

// Digits strips every non-digit rune. This is the stored form of a phone
// number; formatting is display-only.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone renders a 10-digit number as "0xxx xxx xxx". Anything else is
// returned digits-only, unformatted.
func Phone(s string) string {
	d := Digits(s)
	if len(d) != 10 {
		return d
	}
	return d[:4] + " " + d[4:7] + " " + d[7:]
}

// ValidPhone accepts domestic mobile numbers: leading 0, a valid carrier
// prefix, ten digits total.
func ValidPhone(s string) bool {
	d := Digits(s)
	if len(d) != 10 || d[0] != '0' {
		return false
	}
	switch d[1] {
	case '3', '5', '7', '8', '9':
		return true
	}
	return false
}

const addressSeparator = "//"

// JoinAddress concatenates the main and secondary parts of an address into
// the wire form. Empty parts keep the separator; SplitAddress handles the
// resulting empty segments.
func JoinAddress(main, secondary string) string {
	return main + addressSeparator + secondary
}

// SplitAddress recovers the main and secondary parts. Input without a
// separator comes back whole as the main part.
func SplitAddress(s string) (main, secondary string) {
	main, secondary, _ = strings.Cut(s, addressSeparator)
	return main, secondary
}

// Date renders a timestamp the way order history displays it.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateTime includes the clock, used on chat messages and order detail.
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
