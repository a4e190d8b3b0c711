package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/repository/cartid"
	"storefront/internal/shopify"
)

// Gateway is the subset of the storefront client the store drives.
type Gateway interface {
	CreateCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error)
	AddOrUpdateLine(ctx context.Context, cartID, lineID, variantID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
	FetchCart(ctx context.Context, cartID string) (*domain.Cart, error)
}

// Snapshot is a point-in-time copy of the store for rendering.
type Snapshot struct {
	Cart    domain.Cart `json:"cart"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
}

// Store owns the cart of one shopper. Every call is stamped with a sequence
// number and only the most recently issued call may commit its result; older
// responses are dropped. The persisted id is written before the in-memory cart
// is replaced.
type Store struct {
	gateway Gateway
	slot    cartid.Repository
	key     string
	logger  zerolog.Logger
	metrics *Metrics

	mu       sync.Mutex
	cart     domain.Cart
	seq      uint64
	inflight int
	errMsg   string
}

type Options struct {
	Logger  zerolog.Logger
	Metrics *Metrics
}

// New returns an empty store persisting its cart id in slot under key. Call
// Init to rehydrate a previously persisted cart.
func New(gateway Gateway, slot cartid.Repository, key string, opts Options) *Store {
	return &Store{
		gateway: gateway,
		slot:    slot,
		key:     key,
		logger:  opts.Logger.With().Str("component", "cart_store").Str("session", key).Logger(),
		metrics: opts.Metrics,
	}
}

// Init loads the persisted cart id and re-fetches the cart. A cart the backend
// no longer knows is forgotten and the store starts empty; any other failure
// keeps the id so a later Init can retry.
func (s *Store) Init(ctx context.Context) error {
	const op = "init"
	id, err := s.slot.Load(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		err = fmt.Errorf("load cart id: %w", err)
		s.fail(op, err)
		return err
	}

	seq := s.begin()
	defer s.end()

	cart, err := s.gateway.FetchCart(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return s.forget(ctx, seq, id)
	}
	return s.commit(ctx, op, seq, cart, err)
}

// AddProduct creates the cart on first use and otherwise appends a new line
// for the variant. Existing lines for the same variant are not merged.
func (s *Store) AddProduct(ctx context.Context, variantID string, quantity int) (domain.Cart, error) {
	const op = "add"
	if strings.TrimSpace(variantID) == "" {
		return s.reject(op, "variant id is required")
	}
	if quantity < 1 {
		return s.reject(op, "quantity must be at least 1")
	}

	seq := s.begin()
	defer s.end()
	cartID := s.currentID()

	var (
		cart *domain.Cart
		err  error
	)
	if cartID == "" {
		cart, err = s.gateway.CreateCart(ctx, variantID, quantity)
	} else {
		cart, err = s.gateway.AddOrUpdateLine(ctx, cartID, "", variantID, quantity)
	}
	if cerr := s.commit(ctx, op, seq, cart, err); cerr != nil {
		return domain.Cart{}, cerr
	}
	return cart.Clone(), nil
}

// UpdateQuantity sets the quantity of an existing line. The line must be
// present in the current cart; otherwise nothing is sent.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) (domain.Cart, error) {
	const op = "update"
	if quantity < 1 {
		return s.reject(op, "quantity must be at least 1")
	}
	cartID, line, ok := s.lookup(lineID)
	if !ok {
		return s.reject(op, "line not found")
	}

	seq := s.begin()
	defer s.end()

	cart, err := s.gateway.AddOrUpdateLine(ctx, cartID, line.ID, line.Merchandise.ID, quantity)
	if cerr := s.commit(ctx, op, seq, cart, err); cerr != nil {
		return domain.Cart{}, cerr
	}
	return cart.Clone(), nil
}

// RemoveProduct removes one line from the cart with the same local lookup as
// UpdateQuantity.
func (s *Store) RemoveProduct(ctx context.Context, lineID string) (domain.Cart, error) {
	const op = "remove"
	cartID, line, ok := s.lookup(lineID)
	if !ok {
		return s.reject(op, "line not found")
	}

	seq := s.begin()
	defer s.end()

	cart, err := s.gateway.RemoveLine(ctx, cartID, line.ID)
	if cerr := s.commit(ctx, op, seq, cart, err); cerr != nil {
		return domain.Cart{}, cerr
	}
	return cart.Clone(), nil
}

// Reset forgets the cart and its persisted id. Calls still in flight can no
// longer commit. Like commit, it holds the store lock across the slot write.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if err := s.slot.Clear(ctx, s.key); err != nil {
		s.errMsg = "failed to clear cart"
		return fmt.Errorf("clear cart id: %w", err)
	}
	s.cart = domain.Cart{}
	s.errMsg = ""
	s.metrics.operation("reset", outcomeOK)
	return nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Cart:    s.cart.Clone(),
		Loading: s.inflight > 0,
		Error:   s.errMsg,
	}
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	s.errMsg = ""
	return s.seq
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *Store) currentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ID
}

func (s *Store) lookup(lineID string) (cartID string, line domain.CartLine, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.Exists() || strings.TrimSpace(lineID) == "" {
		return "", domain.CartLine{}, false
	}
	line, ok = s.cart.Line(shopify.EnsureGID(shopify.TypeCartLine, lineID))
	return s.cart.ID, line, ok
}

// commit applies the outcome of the call stamped seq. Outcomes of superseded
// calls are dropped without touching state; the caller still gets its error.
// The slot write happens under s.mu so that no Reset or newer call can slip
// between the stale check and the save; a slow slot therefore also delays
// Snapshot for this store.
func (s *Store) commit(ctx context.Context, op string, seq uint64, cart *domain.Cart, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && (cart == nil || !cart.Exists()) {
		err = domain.NewParseError(op, "no cart data returned")
	}
	if seq != s.seq {
		s.metrics.stale(op)
		s.logger.Debug().Str("op", op).Uint64("seq", seq).Uint64("latest", s.seq).Msg("discarding stale cart response")
		return err
	}
	if err != nil {
		s.errMsg = domain.DisplayMessage(err)
		s.metrics.operation(op, outcomeOf(err))
		s.logger.Warn().Err(err).Str("op", op).Msg("cart operation failed")
		return err
	}

	if err := s.slot.Save(ctx, s.key, shopify.TrimGID(shopify.TypeCart, cart.ID)); err != nil {
		err = fmt.Errorf("persist cart id: %w", err)
		s.errMsg = "failed to save cart"
		s.metrics.operation(op, "persist_error")
		s.logger.Error().Err(err).Str("op", op).Msg("cart id not persisted")
		return err
	}
	s.cart = cart.Clone()
	s.metrics.operation(op, outcomeOK)
	return nil
}

// forget drops a persisted id the backend no longer recognizes.
func (s *Store) forget(ctx context.Context, seq uint64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.metrics.stale("init")
		return nil
	}
	if err := s.slot.Clear(ctx, s.key); err != nil {
		err = fmt.Errorf("clear stale cart id: %w", err)
		s.errMsg = "failed to clear cart"
		return err
	}
	s.cart = domain.Cart{}
	s.metrics.operation("init", "expired")
	s.logger.Info().Str("cart_id", id).Msg("persisted cart no longer exists, starting empty")
	return nil
}

func (s *Store) reject(op, msg string) (domain.Cart, error) {
	err := domain.NewValidationError(op, msg)
	s.fail(op, err)
	return domain.Cart{}, err
}

func (s *Store) fail(op string, err error) {
	s.mu.Lock()
	s.errMsg = domain.DisplayMessage(err)
	s.mu.Unlock()
	s.metrics.operation(op, outcomeOf(err))
}

const outcomeOK = "ok"

func outcomeOf(err error) string {
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
