package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func TestCheckout_Success(t *testing.T) {
	gw := &stubGateway{cart: sampleCart()}
	router := newTestRouter(t, gw, Deps{})

	rec := doRequest(router, http.MethodPost, "/api/shopify/checkout", `{"variantId":"42"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gw.lastVar != "42" || gw.lastQty != 1 {
		t.Fatalf("expected default quantity 1 for variant 42, got %q x %d", gw.lastVar, gw.lastQty)
	}

	var body struct {
		Success bool     `json:"success"`
		Cart    cartView `json:"cart"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Cart.CheckoutURL != "https://shop.example/checkout/c1" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Cart.TotalQuantity != 2 || body.Cart.Subtotal == nil || !body.Cart.Subtotal.Amount.Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("unexpected totals %+v", body.Cart)
	}
}

func TestCheckout_ExplicitQuantity(t *testing.T) {
	gw := &stubGateway{cart: sampleCart()}
	router := newTestRouter(t, gw, Deps{})

	rec := doRequest(router, http.MethodPost, "/api/shopify/checkout", `{"variantId":"42","quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gw.lastQty != 3 {
		t.Fatalf("expected quantity 3, got %d", gw.lastQty)
	}
}

func TestCheckout_BadInput(t *testing.T) {
	cases := map[string]string{
		"missing variant": `{"quantity":1}`,
		"zero quantity":   `{"variantId":"42","quantity":0}`,
		"not json":        `nope`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			gw := &stubGateway{cart: sampleCart()}
			router := newTestRouter(t, gw, Deps{})
			rec := doRequest(router, http.MethodPost, "/api/shopify/checkout", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if gw.lastVar != "" {
				t.Fatalf("gateway should not be called")
			}
			if decodeBody(t, rec)["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestCheckout_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantDetail bool
	}{
		{
			name:       "user errors",
			err:        domain.NewUserErrors("cartCreate", []domain.UserError{{Field: []string{"input", "lines"}, Message: "Variant is sold out"}}),
			wantStatus: http.StatusBadRequest,
			wantError:  "Variant is sold out",
			wantDetail: true,
		},
		{
			name:       "validation",
			err:        domain.NewValidationError("cartCreate", "variantId is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "variantId is required",
		},
		{
			name:       "parse",
			err:        domain.NewParseError("cartCreate", "no cart data returned"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "No cart data returned",
		},
		{
			name:       "transport",
			err:        domain.NewBackendError("cartCreate", errors.New("connection reset")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create cart",
			wantDetail: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, &stubGateway{err: tc.err}, Deps{})
			rec := doRequest(router, http.MethodPost, "/api/shopify/checkout", `{"variantId":"42"}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error"] != tc.wantError {
				t.Fatalf("expected error %q, got %v", tc.wantError, body["error"])
			}
			if _, ok := body["details"]; ok != tc.wantDetail {
				t.Fatalf("details presence = %v, want %v", ok, tc.wantDetail)
			}
		})
	}
}

func TestRawCart(t *testing.T) {
	gw := &stubGateway{raw: json.RawMessage(`{"cart":{"id":"gid://shopify/Cart/c1"}}`)}
	router := newTestRouter(t, gw, Deps{})

	rec := doRequest(router, http.MethodGet, "/api/shopify/cart/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gw.lastCartID != "c1" {
		t.Fatalf("unexpected cart id %q", gw.lastCartID)
	}
	if rec.Body.String() != `{"cart":{"id":"gid://shopify/Cart/c1"}}` {
		t.Fatalf("raw data should pass through, got %s", rec.Body.String())
	}
}

func TestRawCart_Error(t *testing.T) {
	router := newTestRouter(t, &stubGateway{rawErr: errors.New("boom")}, Deps{})
	rec := doRequest(router, http.MethodGet, "/api/shopify/cart/c1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Failed to fetch cart data" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProducts(t *testing.T) {
	products := &stubProducts{products: []domain.Product{{
		ID:              "gid://shopify/Product/1",
		Title:           "Hoodie",
		MinVariantPrice: domain.Money{Amount: decimal.RequireFromString("19.99"), CurrencyCode: "USD"},
		FirstVariant:    &domain.Variant{ID: "gid://shopify/ProductVariant/42", AvailableForSale: true},
	}}}
	router := newTestRouter(t, &stubGateway{}, Deps{Products: products})

	rec := doRequest(router, http.MethodGet, "/api/shopify/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Products []productView `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Products) != 1 || !body.Products[0].AvailableForSale {
		t.Fatalf("unexpected products %+v", body.Products)
	}
}

func TestProducts_Empty(t *testing.T) {
	router := newTestRouter(t, &stubGateway{}, Deps{Products: &stubProducts{products: []domain.Product{}}})
	rec := doRequest(router, http.MethodGet, "/api/shopify/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"products":[]}` {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestProduct(t *testing.T) {
	products := &stubProducts{products: []domain.Product{{
		ID:           "p1",
		Title:        "Hoodie",
		FirstVariant: &domain.Variant{ID: "gid://shopify/ProductVariant/42", AvailableForSale: true},
	}}}
	router := newTestRouter(t, &stubGateway{}, Deps{Products: products})

	rec := doRequest(router, http.MethodGet, "/api/shopify/products/p1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if products.lastID != "p1" {
		t.Fatalf("expected lookup of p1, got %q", products.lastID)
	}
	var body struct {
		Product productView `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Product.Title != "Hoodie" || !body.Product.AvailableForSale {
		t.Fatalf("unexpected product %+v", body.Product)
	}
}

func TestProduct_NotFound(t *testing.T) {
	router := newTestRouter(t, &stubGateway{}, Deps{Products: &stubProducts{}})
	rec := doRequest(router, http.MethodGet, "/api/shopify/products/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Product not found" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProduct_BackendFailure(t *testing.T) {
	products := &stubProducts{err: domain.NewBackendError("products", errors.New("boom"))}
	router := newTestRouter(t, &stubGateway{}, Deps{Products: products})
	rec := doRequest(router, http.MethodGet, "/api/shopify/products/p1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
