package models

import (
	"strings"
)

type Card struct {
	ID          int64
	AccountID   int64
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
}

type Client struct {
	ID       int64
	FullName string
}

// MaskNumber hides all but the last four digits: "**** **** **** 1234"
func MaskNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return "**** **** **** " + last4
}
