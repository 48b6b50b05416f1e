package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("required fields are empty")
	// ErrFieldTooLong is returned when a text field exceeds MaxTextLength.
	ErrFieldTooLong = errors.New("field exceeds maximum length")
	// ErrInvalidQuantity is returned when a quantity is outside 1..MaxQuantity.
	ErrInvalidQuantity = errors.New("quantity out of range")
	// ErrInvalidValue is returned when a unit value is negative.
	ErrInvalidValue = errors.New("value must not be negative")
)

// ValidateOrder checks the fields a client must fill before an order is sent.
func ValidateOrder(o Order) error {
	if blank(o.Description) || blank(o.ClientName) {
		return ErrMissingFields
	}
	if tooLong(o.Description) || tooLong(o.ClientName) {
		return ErrFieldTooLong
	}
	return nil
}

// ValidateItem checks the fields a client must fill before an item is sent.
func ValidateItem(i Item) error {
	if blank(i.ProductName) || i.Quantity == 0 {
		return ErrMissingFields
	}
	if tooLong(i.ProductName) {
		return ErrFieldTooLong
	}
	if i.Quantity < 0 || i.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if i.Value < 0 {
		return ErrInvalidValue
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > MaxTextLength
}
