package receipt

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNumberFormat(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^R250115\d{3}$`)

	for i := 0; i < 50; i++ {
		n := Number(ts)
		if !pattern.MatchString(n) {
			t.Fatalf("receipt number %q does not match R250115###", n)
		}
	}
}

func TestNumberUsesDate(t *testing.T) {
	n := Number(time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC))
	if !strings.HasPrefix(n, "R241203") {
		t.Errorf("expected prefix R241203, got %q", n)
	}
}

func TestRenderLineWidths(t *testing.T) {
	r := &Receipt{
		StoreName:     "Duka Corner Shop",
		ReceiptNumber: "R250115042",
		Date:          time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		PaymentMethod: "cash",
		Lines: []Line{
			{Name: "Sugar 1kg", Quantity: 2, Total: "240.00"},
			{Name: "A very long product name that overflows", Quantity: 1, Total: "99.00"},
		},
		Subtotal: "339.00",
		Tax:      "54.24",
		Total:    "393.24",
	}

	out := r.Render()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) > Width {
			t.Errorf("line exceeds %d columns: %q", Width, line)
		}
	}

	if !strings.Contains(out, "R250115042") {
		t.Error("rendered receipt missing receipt number")
	}
	if !strings.Contains(out, "TOTAL") {
		t.Error("rendered receipt missing total line")
	}
}

func TestRenderOmitsEmptyOptionalFields(t *testing.T) {
	r := &Receipt{
		StoreName:     "Duka",
		ReceiptNumber: "R250101001",
		Date:          time.Now(),
		Subtotal:      "100.00",
		Tax:           "16.00",
		Total:         "116.00",
	}

	out := r.Render()
	for _, absent := range []string{"Discount", "Cashier", "Customer", "Service fee"} {
		if strings.Contains(out, absent) {
			t.Errorf("rendered receipt should omit %q when unset", absent)
		}
	}
}
