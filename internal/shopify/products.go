package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"
)

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceRange  *struct {
		MinVariantPrice *moneyV2 `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images struct {
		Edges []struct {
			Node struct {
				URL     string `json:"url"`
				AltText string `json:"altText"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string   `json:"id"`
				Price            *moneyV2 `json:"price"`
				AvailableForSale bool     `json:"availableForSale"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// FetchProducts lists the first page of catalog products. An empty catalog
// yields an empty, non-nil slice.
func (c *Client) FetchProducts(ctx context.Context) (products []domain.Product, err error) {
	const op = "products"
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())

	raw, err := c.run(ctx, op, productsQuery, map[string]any{"first": productsPageSize})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Products *struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.Error{Kind: domain.KindParse, Op: op, Message: "decode response", Err: err}
	}
	if resp.Products == nil {
		return nil, domain.NewParseError(op, "response has no products")
	}

	out := make([]domain.Product, 0, len(resp.Products.Edges))
	for _, edge := range resp.Products.Edges {
		p, err := normalizeProduct(op, edge.Node)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func normalizeProduct(op string, n productNode) (domain.Product, error) {
	if n.ID == "" {
		return domain.Product{}, domain.NewParseError(op, "product has no id")
	}
	if n.PriceRange == nil || n.PriceRange.MinVariantPrice == nil {
		return domain.Product{}, domain.NewParseError(op, fmt.Sprintf("product %q has no price range", n.ID))
	}
	minPrice, err := domain.ParseMoney(n.PriceRange.MinVariantPrice.Amount, n.PriceRange.MinVariantPrice.CurrencyCode)
	if err != nil {
		return domain.Product{}, &domain.Error{Kind: domain.KindParse, Op: op, Message: fmt.Sprintf("product %q price", n.ID), Err: err}
	}
	p := domain.Product{
		ID:              n.ID,
		Title:           n.Title,
		Description:     n.Description,
		MinVariantPrice: minPrice,
	}
	if len(n.Images.Edges) > 0 {
		img := n.Images.Edges[0].Node
		p.Image = &domain.Image{URL: img.URL, AltText: img.AltText}
	}
	if len(n.Variants.Edges) > 0 {
		v := n.Variants.Edges[0].Node
		variant := &domain.Variant{ID: v.ID, AvailableForSale: v.AvailableForSale}
		if v.Price != nil {
			price, err := domain.ParseMoney(v.Price.Amount, v.Price.CurrencyCode)
			if err != nil {
				return domain.Product{}, &domain.Error{Kind: domain.KindParse, Op: op, Message: fmt.Sprintf("variant %q price", v.ID), Err: err}
			}
			variant.Price = price
		}
		p.FirstVariant = variant
	}
	return p, nil
}
