package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone  = regexp.MustCompile(`^[0-9]{10,}$`)
	reZIP    = regexp.MustCompile(`^[0-9]{5,}$`)
	reQ      = regexp.MustCompile(`^[A-Za-z0-9 _'&.\\-]{1,50}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUserID = regexp.MustCompile(`^[0-9]{1,18}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Phone accepts 10 or more digits and nothing else.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// ZIP accepts 5 or more digits.
func ZIP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reZIP.MatchString(s)
}

// MinLen trims s and checks it has at least n characters.
func MinLen(s string, n int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len([]rune(s)) >= n
}

// Q validates a search query: trims, enforces allowed characters and max length.
// An empty query is valid and means "no keyword".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses a form quantity; garbage becomes 1 and large values are clamped.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// QtyFor parses a quantity and clamps it to the available stock.
func QtyFor(s string, stock int) int {
	n := Qty(s)
	if stock > 0 && n > stock {
		return stock
	}
	return n
}

// NewQty parses the quantity of an update form. Zero and negatives are kept
// because they mean "remove".
func NewQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n > 50 {
		n = 50
	}
	return n, true
}

// ID validates a simple resource identifier (product/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// UserID validates the numeric user ids of the career API.
func UserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUserID.MatchString(s)
}

// Week parses a positive week number.
func Week(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
