package receipt

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Width is the character width of a standard 58mm thermal ticket.
const Width = 32

// Number generates a receipt number from a date plus a random suffix,
// e.g. R250115042. Terminals use it as a fallback when no server-issued
// number exists yet.
func Number(t time.Time) string {
	var buf [2]byte
	_, _ = rand.Read(buf[:])
	suffix := binary.BigEndian.Uint16(buf[:]) % 1000
	return fmt.Sprintf("R%s%03d", t.Format("060102"), suffix)
}

// Line represents a single item line on a receipt.
type Line struct {
	Name     string
	Quantity int
	Total    string
}

// Receipt is a value object representing a printable receipt. It is not a
// database entity; it is composed from transaction data at render time.
type Receipt struct {
	StoreName     string
	LocationName  string
	ReceiptNumber string
	Date          time.Time
	Cashier       string
	Customer      string
	PaymentMethod string
	Lines         []Line
	Subtotal      string
	Tax           string
	Discount      string
	ServiceFee    string
	DeliveryFee   string
	Total         string
}

// Render produces a plain-text ticket Width columns wide.
func (r *Receipt) Render() string {
	var b strings.Builder

	center(&b, r.StoreName)
	if r.LocationName != "" {
		center(&b, r.LocationName)
	}
	separator(&b)
	keyValue(&b, "Receipt", r.ReceiptNumber)
	keyValue(&b, "Date", r.Date.Format("2006-01-02 15:04"))
	if r.Cashier != "" {
		keyValue(&b, "Cashier", r.Cashier)
	}
	if r.Customer != "" {
		keyValue(&b, "Customer", r.Customer)
	}
	separator(&b)

	for _, line := range r.Lines {
		itemLine(&b, line.Quantity, line.Name, line.Total)
	}

	separator(&b)
	keyValue(&b, "Subtotal", r.Subtotal)
	if r.Discount != "" {
		keyValue(&b, "Discount", "-"+r.Discount)
	}
	if r.ServiceFee != "" {
		keyValue(&b, "Service fee", r.ServiceFee)
	}
	if r.DeliveryFee != "" {
		keyValue(&b, "Delivery fee", r.DeliveryFee)
	}
	keyValue(&b, "Tax", r.Tax)
	keyValue(&b, "TOTAL", r.Total)
	if r.PaymentMethod != "" {
		keyValue(&b, "Paid by", r.PaymentMethod)
	}
	separator(&b)
	center(&b, "Thank you!")

	return b.String()
}

func center(b *strings.Builder, s string) {
	if len(s) >= Width {
		b.WriteString(s[:Width])
	} else {
		pad := (Width - len(s)) / 2
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(s)
	}
	b.WriteByte('\n')
}

func separator(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", Width))
	b.WriteByte('\n')
}

func keyValue(b *strings.Builder, key, value string) {
	gap := Width - len(key) - len(value)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(key)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(value)
	b.WriteByte('\n')
}

func itemLine(b *strings.Builder, qty int, name, total string) {
	prefix := fmt.Sprintf("%dx ", qty)
	avail := Width - len(prefix) - len(total) - 1
	if avail < 1 {
		avail = 1
	}
	if len(name) > avail {
		name = name[:avail]
	}
	b.WriteString(prefix)
	b.WriteString(name)
	b.WriteString(strings.Repeat(" ", Width-len(prefix)-len(name)-len(total)))
	b.WriteString(total)
	b.WriteByte('\n')
}
