package barcode

import (
	"errors"
	"testing"
)

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		digits string
		want   int
	}{
		{"400638133393", 1}, // known-good EAN-13 body
		{"200000000001", 5},
		{"000000000000", 0},
		{"123456789012", 8},
	}

	for _, tt := range tests {
		got, err := CheckDigit(tt.digits)
		if err != nil {
			t.Fatalf("CheckDigit(%q) returned error: %v", tt.digits, err)
		}
		if got != tt.want {
			t.Errorf("CheckDigit(%q) = %d, want %d", tt.digits, got, tt.want)
		}
	}
}

func TestCheckDigitRejectsBadInput(t *testing.T) {
	if _, err := CheckDigit("12345"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("short input: got %v, want ErrInvalidLength", err)
	}
	if _, err := CheckDigit("12345678901a"); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("non-numeric input: got %v, want ErrNotNumeric", err)
	}
}

func TestGenerateProducesValidCodes(t *testing.T) {
	for _, seq := range []uint64{0, 1, 42, 999999999} {
		code, err := Generate(seq)
		if err != nil {
			t.Fatalf("Generate(%d) returned error: %v", seq, err)
		}
		if len(code) != 13 {
			t.Fatalf("Generate(%d) = %q, want 13 digits", seq, code)
		}
		if err := Validate(code); err != nil {
			t.Errorf("Generate(%d) = %q failed validation: %v", seq, code, err)
		}
	}
}

func TestGenerateRejectsOverflow(t *testing.T) {
	if _, err := Generate(1000000000); err == nil {
		t.Error("expected error for sequence wider than 9 digits")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("4006381333931"); err != nil {
		t.Errorf("valid code rejected: %v", err)
	}
	if err := Validate("4006381333932"); err == nil {
		t.Error("expected check digit mismatch")
	}
	if err := Validate("123"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("got %v, want ErrInvalidLength", err)
	}
}
