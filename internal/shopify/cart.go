package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
)

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type cartNode struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node cartLineNode `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type cartLineNode struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise *struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Price   *moneyV2 `json:"price"`
		Product struct {
			Title string `json:"title"`
		} `json:"product"`
	} `json:"merchandise"`
}

type cartMutationPayload struct {
	Cart       *cartNode          `json:"cart"`
	UserErrors []domain.UserError `json:"userErrors"`
}

type createCartInput struct {
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type lineInput struct {
	CartID    string `json:"cartId" validate:"required"`
	LineID    string `json:"lineId"`
	VariantID string `json:"variantId" validate:"required_without=LineID"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type removeLineInput struct {
	CartID string `json:"cartId" validate:"required"`
	LineID string `json:"lineId" validate:"required"`
}

type cartRef struct {
	CartID string `json:"cartId" validate:"required"`
}

// CreateCart creates a new cart holding one line for the variant.
func (c *Client) CreateCart(ctx context.Context, variantID string, quantity int) (cart *domain.Cart, err error) {
	const op = "cartCreate"
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())

	in := createCartInput{VariantID: strings.TrimSpace(variantID), Quantity: quantity}
	if err := c.check(op, in); err != nil {
		return nil, err
	}
	vars := map[string]any{
		"input": map[string]any{
			"lines": []map[string]any{{
				"merchandiseId": EnsureGID(TypeProductVariant, in.VariantID),
				"quantity":      in.Quantity,
			}},
		},
		"linesFirst": cartLinesPage,
	}
	return c.mutate(ctx, op, cartCreateMutation, vars, "")
}

// AddOrUpdateLine changes the quantity of lineID when it is set and appends a
// new line for variantID otherwise.
func (c *Client) AddOrUpdateLine(ctx context.Context, cartID, lineID, variantID string, quantity int) (cart *domain.Cart, err error) {
	op := "cartLinesAdd"
	if strings.TrimSpace(lineID) != "" {
		op = "cartLinesUpdate"
	}
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())

	in := lineInput{
		CartID:    strings.TrimSpace(cartID),
		LineID:    strings.TrimSpace(lineID),
		VariantID: strings.TrimSpace(variantID),
		Quantity:  quantity,
	}
	if err := c.check(op, in); err != nil {
		return nil, err
	}

	if in.LineID != "" {
		vars := map[string]any{
			"cartId": EnsureGID(TypeCart, in.CartID),
			"lines": []map[string]any{{
				"id":       EnsureGID(TypeCartLine, in.LineID),
				"quantity": in.Quantity,
			}},
			"linesFirst": cartLinesPage,
		}
		return c.mutate(ctx, op, cartLinesUpdateMutation, vars, "lines")
	}

	vars := map[string]any{
		"cartId": EnsureGID(TypeCart, in.CartID),
		"lines": []map[string]any{{
			"merchandiseId": EnsureGID(TypeProductVariant, in.VariantID),
			"quantity":      in.Quantity,
		}},
		"linesFirst": cartLinesPage,
	}
	return c.mutate(ctx, op, cartLinesAddMutation, vars, "")
}

// RemoveLine removes exactly one line from the cart.
func (c *Client) RemoveLine(ctx context.Context, cartID, lineID string) (cart *domain.Cart, err error) {
	const op = "cartLinesRemove"
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())

	in := removeLineInput{CartID: strings.TrimSpace(cartID), LineID: strings.TrimSpace(lineID)}
	if err := c.check(op, in); err != nil {
		return nil, err
	}
	vars := map[string]any{
		"cartId":     EnsureGID(TypeCart, in.CartID),
		"lineIds":    []string{EnsureGID(TypeCartLine, in.LineID)},
		"linesFirst": cartLinesPage,
	}
	return c.mutate(ctx, op, cartLinesRemoveMutation, vars, "lineIds")
}

// FetchCart resolves a cart by id. A cart the backend does not know is
// reported as a backend error wrapping domain.ErrNotFound.
func (c *Client) FetchCart(ctx context.Context, cartID string) (cart *domain.Cart, err error) {
	const op = "cart"
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())

	raw, err := c.fetchCartData(ctx, op, cartID)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Cart *cartNode `json:"cart"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.Error{Kind: domain.KindParse, Op: op, Message: "decode response", Err: err}
	}
	if resp.Cart == nil {
		return nil, &domain.Error{Kind: domain.KindBackend, Op: op, Message: "cart does not exist", Err: domain.ErrNotFound}
	}
	return normalizeCart(op, resp.Cart)
}

// FetchCartRaw returns the backend's data object for the cart query as-is.
func (c *Client) FetchCartRaw(ctx context.Context, cartID string) (raw json.RawMessage, err error) {
	const op = "cart"
	defer func(start time.Time) { c.finish(op, start, err) }(time.Now())
	return c.fetchCartData(ctx, op, cartID)
}

func (c *Client) fetchCartData(ctx context.Context, op, cartID string) (json.RawMessage, error) {
	in := cartRef{CartID: strings.TrimSpace(cartID)}
	if err := c.check(op, in); err != nil {
		return nil, err
	}
	return c.run(ctx, op, cartQuery, map[string]any{
		"id":         EnsureGID(TypeCart, in.CartID),
		"linesFirst": cartLinesPage,
	})
}

// mutate runs a cart mutation whose payload sits under the field named by op.
// User errors pointing at notFoundField are marked as domain.ErrNotFound.
func (c *Client) mutate(ctx context.Context, op, document string, vars map[string]any, notFoundField string) (*domain.Cart, error) {
	raw, err := c.run(ctx, op, document, vars)
	if err != nil {
		return nil, err
	}
	var envelope map[string]*cartMutationPayload
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &domain.Error{Kind: domain.KindParse, Op: op, Message: "decode response", Err: err}
	}
	payload := envelope[op]
	if payload == nil {
		return nil, domain.NewParseError(op, "response has no "+op+" payload")
	}
	if len(payload.UserErrors) > 0 {
		e := domain.NewUserErrors(op, payload.UserErrors)
		if notFoundField != "" && pointsAt(payload.UserErrors, notFoundField) {
			e.Err = domain.ErrNotFound
		}
		return nil, e
	}
	if payload.Cart == nil {
		return nil, domain.NewParseError(op, "no cart data returned")
	}
	return normalizeCart(op, payload.Cart)
}

func pointsAt(userErrs []domain.UserError, field string) bool {
	for _, ue := range userErrs {
		if len(ue.Field) > 0 && ue.Field[0] == field {
			return true
		}
	}
	return false
}

func normalizeCart(op string, node *cartNode) (*domain.Cart, error) {
	if strings.TrimSpace(node.ID) == "" {
		return nil, domain.NewParseError(op, "cart has no id")
	}
	cart := &domain.Cart{
		ID:          node.ID,
		CheckoutURL: node.CheckoutURL,
		Lines:       make([]domain.CartLine, 0, len(node.Lines.Edges)),
	}
	seen := make(map[string]struct{}, len(node.Lines.Edges))
	for i, edge := range node.Lines.Edges {
		n := edge.Node
		if n.ID == "" {
			return nil, domain.NewParseError(op, fmt.Sprintf("line %d has no id", i))
		}
		if _, dup := seen[n.ID]; dup {
			return nil, domain.NewParseError(op, fmt.Sprintf("duplicate line id %q", n.ID))
		}
		seen[n.ID] = struct{}{}
		if n.Quantity < 1 {
			return nil, domain.NewParseError(op, fmt.Sprintf("line %q has quantity %d", n.ID, n.Quantity))
		}
		if n.Merchandise == nil || n.Merchandise.Price == nil {
			return nil, domain.NewParseError(op, fmt.Sprintf("line %q has no merchandise price", n.ID))
		}
		price, err := domain.ParseMoney(n.Merchandise.Price.Amount, n.Merchandise.Price.CurrencyCode)
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindParse, Op: op, Message: fmt.Sprintf("line %q price", n.ID), Err: err}
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID: n.ID,
			Merchandise: domain.Merchandise{
				ID:      n.Merchandise.ID,
				Title:   n.Merchandise.Title,
				Price:   price,
				Product: domain.ProductTitle{Title: n.Merchandise.Product.Title},
			},
			Quantity: n.Quantity,
		})
	}
	return cart, nil
}
