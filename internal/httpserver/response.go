package httpserver

import (
	"storefront/internal/domain"
	"storefront/internal/service/cart"
)

type cartView struct {
	ID            string         `json:"id,omitempty"`
	CheckoutURL   string         `json:"checkoutUrl,omitempty"`
	Lines         []cartLineView `json:"lines"`
	TotalQuantity int            `json:"totalQuantity"`
	Subtotal      *domain.Money  `json:"subtotal,omitempty"`
}

type cartLineView struct {
	ID          string             `json:"id"`
	Merchandise domain.Merchandise `json:"merchandise"`
	Quantity    int                `json:"quantity"`
	LineTotal   domain.Money       `json:"lineTotal"`
}

type snapshotView struct {
	Cart    cartView `json:"cart"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error,omitempty"`
}

type productView struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	MinVariantPrice  domain.Money    `json:"minVariantPrice"`
	Image            *domain.Image   `json:"image,omitempty"`
	FirstVariant     *domain.Variant `json:"firstVariant,omitempty"`
	AvailableForSale bool            `json:"availableForSale"`
}

func toCartView(c domain.Cart) cartView {
	lines := make([]cartLineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineView{
			ID:          l.ID,
			Merchandise: l.Merchandise,
			Quantity:    l.Quantity,
			LineTotal:   l.Total(),
		})
	}
	view := cartView{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		Lines:         lines,
		TotalQuantity: c.TotalQuantity(),
	}
	if len(c.Lines) > 0 {
		sub := c.Subtotal()
		view.Subtotal = &sub
	}
	return view
}

func toSnapshotView(s cart.Snapshot) snapshotView {
	return snapshotView{
		Cart:    toCartView(s.Cart),
		Loading: s.Loading,
		Error:   s.Error,
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		MinVariantPrice:  p.MinVariantPrice,
		Image:            p.Image,
		FirstVariant:     p.FirstVariant,
		AvailableForSale: p.FirstVariant != nil && p.FirstVariant.AvailableForSale,
	}
}
