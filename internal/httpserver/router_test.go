package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository/cartid"
	"storefront/internal/service/session"
)

type stubGateway struct {
	cart       *domain.Cart
	err        error
	raw        json.RawMessage
	rawErr     error
	lastVar    string
	lastQty    int
	lastCartID string
}

func (s *stubGateway) CreateCart(_ context.Context, variantID string, quantity int) (*domain.Cart, error) {
	s.lastVar = variantID
	s.lastQty = quantity
	return s.cart, s.err
}

func (s *stubGateway) AddOrUpdateLine(_ context.Context, _, _, _ string, _ int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubGateway) RemoveLine(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubGateway) FetchCart(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubGateway) FetchCartRaw(_ context.Context, cartID string) (json.RawMessage, error) {
	s.lastCartID = cartID
	return s.raw, s.rawErr
}

type stubProducts struct {
	products []domain.Product
	err      error
	lastID   string
}

func (s *stubProducts) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID:          "gid://shopify/Cart/c1",
		CheckoutURL: "https://shop.example/checkout/c1",
		Lines: []domain.CartLine{{
			ID: "gid://shopify/CartLine/l1",
			Merchandise: domain.Merchandise{
				ID:      "gid://shopify/ProductVariant/42",
				Title:   "Large",
				Price:   domain.Money{Amount: decimal.RequireFromString("19.99"), CurrencyCode: "USD"},
				Product: domain.ProductTitle{Title: "Hoodie"},
			},
			Quantity: 2,
		}},
	}
}

func newTestRouter(t *testing.T, gw *stubGateway, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	deps.Gateway = gw
	if deps.Products == nil {
		deps.Products = &stubProducts{}
	}
	if deps.Sessions == nil {
		deps.Sessions = session.New(gw, cartid.NewMemory(), session.Options{Logger: zerolog.Nop()})
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}
	router, err := buildRouter(zerolog.Nop(), deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestBuildRouter_RequiresDeps(t *testing.T) {
	if _, err := buildRouter(zerolog.Nop(), Deps{}); err == nil {
		t.Fatalf("expected missing deps to fail")
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &stubGateway{}, Deps{})
	rec := doRequest(router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t, &stubGateway{}, Deps{Checks: map[string]Pinger{"redis": stubPinger{}}})
	if rec := doRequest(router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	router = newTestRouter(t, &stubGateway{}, Deps{Checks: map[string]Pinger{"postgres": stubPinger{err: errors.New("down")}}})
	rec := doRequest(router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["reason"] != "postgres not reachable" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := newTestRouter(t, &stubGateway{}, Deps{Gatherer: reg})
	rec := doRequest(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storefront_test_total 1") {
		t.Fatalf("expected counter in metrics output")
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &stubGateway{}, Deps{CORSOrigins: []string{"https://shop.example"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/shopify/checkout", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
