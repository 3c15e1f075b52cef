// Package barcode generates and validates EAN-13 barcode values for
// in-house products. Rendering is left to the client.
package barcode

import (
	"errors"
	"fmt"
)

// InStorePrefix is the GS1 prefix reserved for in-store numbering.
const InStorePrefix = "200"

var (
	// ErrInvalidLength is returned when a code is not 13 digits.
	ErrInvalidLength = errors.New("barcode: code must be 13 digits")
	// ErrNotNumeric is returned when a code contains non-digit characters.
	ErrNotNumeric = errors.New("barcode: code must be numeric")
)

// CheckDigit computes the EAN-13 check digit for the first 12 digits.
func CheckDigit(digits string) (int, error) {
	if len(digits) != 12 {
		return 0, ErrInvalidLength
	}

	sum := 0
	for i, r := range digits {
		if r < '0' || r > '9' {
			return 0, ErrNotNumeric
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}

	return (10 - sum%10) % 10, nil
}

// Generate builds an in-store EAN-13 value from a numeric sequence. The
// sequence is zero-padded to 9 digits behind the in-store prefix.
func Generate(sequence uint64) (string, error) {
	if sequence > 999999999 {
		return "", fmt.Errorf("barcode: sequence %d exceeds 9 digits", sequence)
	}

	body := fmt.Sprintf("%s%09d", InStorePrefix, sequence)
	check, err := CheckDigit(body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", body, check), nil
}

// Validate reports whether code is a well-formed EAN-13 value.
func Validate(code string) error {
	if len(code) != 13 {
		return ErrInvalidLength
	}

	check, err := CheckDigit(code[:12])
	if err != nil {
		return err
	}

	last := code[12]
	if last < '0' || last > '9' {
		return ErrNotNumeric
	}
	if int(last-'0') != check {
		return fmt.Errorf("barcode: check digit mismatch, want %d", check)
	}
	return nil
}
