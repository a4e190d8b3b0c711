package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as listed by the commerce backend.
type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	MinVariantPrice Money    `json:"minVariantPrice"`
	Image           *Image   `json:"image,omitempty"`
	FirstVariant    *Variant `json:"firstVariant,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type Variant struct {
	ID               string `json:"id"`
	Price            Money  `json:"price"`
	AvailableForSale bool   `json:"availableForSale"`
}

// Money is a decimal amount in a single currency.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// ParseMoney builds Money from the backend's string amount.
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return Money{Amount: d, CurrencyCode: currency}, nil
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.CurrencyCode
}

// MarshalJSON keeps the backend's string-encoded amount on the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	}{Amount: m.Amount.String(), CurrencyCode: m.CurrencyCode})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount       decimal.Decimal `json:"amount"`
		CurrencyCode string          `json:"currencyCode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Amount = raw.Amount
	m.CurrencyCode = raw.CurrencyCode
	return nil
}
