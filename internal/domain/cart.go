package domain

import "github.com/shopspring/decimal"

// Cart is the shopper's current selection as last returned by the commerce backend.
type Cart struct {
	ID          string     `json:"id,omitempty"`
	CheckoutURL string     `json:"checkoutUrl,omitempty"`
	Lines       []CartLine `json:"lines"`
}

type CartLine struct {
	ID          string      `json:"id"`
	Merchandise Merchandise `json:"merchandise"`
	Quantity    int         `json:"quantity"`
}

// Merchandise is a read-only snapshot of the variant a line points at.
type Merchandise struct {
	ID      string       `json:"id,omitempty"`
	Title   string       `json:"title"`
	Price   Money        `json:"price"`
	Product ProductTitle `json:"product"`
}

type ProductTitle struct {
	Title string `json:"title"`
}

// Exists reports whether the backend has issued an id for the cart.
func (c Cart) Exists() bool {
	return c.ID != ""
}

// Line returns the line with the given id.
func (c Cart) Line(id string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Total is the unit price times quantity.
func (l CartLine) Total() Money {
	return Money{
		Amount:       l.Merchandise.Price.Amount.Mul(decimal.NewFromInt(int64(l.Quantity))),
		CurrencyCode: l.Merchandise.Price.CurrencyCode,
	}
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums unit price times quantity over all lines. Lines are assumed to
// share one currency; the first line's currency code is reported.
func (c Cart) Subtotal() Money {
	sum := Money{Amount: decimal.Zero}
	for i, l := range c.Lines {
		if i == 0 {
			sum.CurrencyCode = l.Merchandise.Price.CurrencyCode
		}
		sum.Amount = sum.Amount.Add(l.Total().Amount)
	}
	return sum
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
