package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func line(id string, price string, qty int) CartLine {
	return CartLine{
		ID:          id,
		Merchandise: Merchandise{Price: Money{Amount: decimal.RequireFromString(price), CurrencyCode: "EUR"}},
		Quantity:    qty,
	}
}

func TestCartTotals(t *testing.T) {
	c := Cart{ID: "c1", Lines: []CartLine{line("a", "2.50", 2), line("b", "0.10", 3)}}

	if got := c.TotalQuantity(); got != 5 {
		t.Fatalf("expected 5 items, got %d", got)
	}
	sub := c.Subtotal()
	if !sub.Amount.Equal(decimal.RequireFromString("5.30")) || sub.CurrencyCode != "EUR" {
		t.Fatalf("unexpected subtotal %s", sub)
	}
	if got := sub.String(); got != "5.30 EUR" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestCartLineAndClone(t *testing.T) {
	c := Cart{ID: "c1", Lines: []CartLine{line("a", "1", 1)}}
	if _, ok := c.Line("a"); !ok {
		t.Fatalf("expected line a")
	}
	if _, ok := c.Line("z"); ok {
		t.Fatalf("unexpected line z")
	}

	cp := c.Clone()
	cp.Lines[0].Quantity = 9
	if c.Lines[0].Quantity != 1 {
		t.Fatalf("clone should not share lines")
	}
	if (Cart{}).Exists() {
		t.Fatalf("cart without id should not exist")
	}
}

func TestMoneyJSONKeepsStringAmount(t *testing.T) {
	m, err := ParseMoney("19.90", "USD")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"amount":"19.9","currencyCode":"USD"}` {
		t.Fatalf("unexpected json %s", b)
	}
	if _, err := ParseMoney("abc", "USD"); err == nil {
		t.Fatalf("expected bad amount to fail")
	}
}
