package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"storefront/internal/repository/cartid"
	"storefront/internal/service/cart"
)

var ErrInvalidSession = errors.New("invalid session")

type Options struct {
	IdleTTL time.Duration
	Logger  zerolog.Logger
	Metrics *cart.Metrics
}

// Service hands out one cart store per shopper session. Stores are built on
// first use, rehydrated from the persisted cart id, and dropped after IdleTTL
// without requests. The persisted id outlives the in-memory store.
type Service struct {
	gateway  cart.Gateway
	slot     cartid.Repository
	registry *registry
	group    singleflight.Group
	idleTTL  time.Duration
	logger   zerolog.Logger
	metrics  *cart.Metrics
	now      func() time.Time
}

func New(gateway cart.Gateway, slot cartid.Repository, opts Options) *Service {
	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		gateway:  gateway,
		slot:     slot,
		registry: newRegistry(),
		idleTTL:  ttl,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// Issue returns a fresh session id.
func (s *Service) Issue() string {
	return uuid.NewString()
}

// Valid reports whether id looks like a session id issued by Issue.
func Valid(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.Version() == 4
}

// Store returns the cart store for the session, creating and initialising it
// on first use. A failed rehydration is logged and left on the store's error
// field; the store is still returned.
func (s *Service) Store(ctx context.Context, sessionID string) (*cart.Store, error) {
	if !Valid(sessionID) {
		return nil, ErrInvalidSession
	}
	if store, ok := s.registry.Get(sessionID, s.now()); ok {
		return store, nil
	}

	v, _, _ := s.group.Do(sessionID, func() (any, error) {
		if store, ok := s.registry.Get(sessionID, s.now()); ok {
			return store, nil
		}
		store := cart.New(s.gateway, s.slot, sessionID, cart.Options{Logger: s.logger, Metrics: s.metrics})
		if err := store.Init(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn().Err(err).Str("session", sessionID).Msg("cart rehydration failed")
		}
		return s.registry.Put(sessionID, store, s.now()), nil
	})
	return v.(*cart.Store), nil
}

// Evict drops stores idle for longer than the configured TTL.
func (s *Service) Evict() int {
	n := s.registry.EvictIdle(s.now().Add(-s.idleTTL))
	if n > 0 {
		s.logger.Debug().Int("evicted", n).Int("active", s.registry.Len()).Msg("evicted idle cart stores")
	}
	return n
}

// Run evicts idle stores every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}

func (s *Service) Active() int {
	return s.registry.Len()
}
