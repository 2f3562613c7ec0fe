// Package cartstore holds the shopping cart: its lines, the drawer flag and
// the pricing derived from them.
//
// A Store is constructed once per cart and hydrated from its key-value
// snapshot exactly once. Every mutation runs as a critical section, then
// writes the full snapshot before returning. Persistence failures are
// reported to the error handler and never fail the mutation.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"luxe-atelier/internal/domain"
	"luxe-atelier/internal/pricing"
)

// KV is the persistence collaborator. Get returns domain.ErrNotFound when no
// snapshot exists under key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Observer is notified with a copy of the state after every mutation. It runs
// inside the store's critical section and must not call back into the store.
type Observer func(state domain.CartState)

type Option func(*Store)

// WithLogger routes hydrate and persistence diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides how fresh line ids are minted.
func WithIDGenerator(fn func(domain.LineCandidate) string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithObserver(fn Observer) Option {
	return func(s *Store) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// WithErrorHandler receives persistence failures in addition to the log.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) {
		s.onError = fn
	}
}

// WithWriteTimeout bounds each snapshot write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

type Store struct {
	mu    sync.RWMutex
	key   string
	kv    KV
	state domain.CartState

	logger       *log.Logger
	newID        func(domain.LineCandidate) string
	observers    []Observer
	onError      func(error)
	writeTimeout time.Duration
}

// New builds a store for key and hydrates it from kv. A nil kv gives a
// memory-only store.
func New(ctx context.Context, key string, kv KV, opts ...Option) *Store {
	s := &Store{
		key:          key,
		kv:           kv,
		state:        domain.CartState{Items: []domain.LineItem{}},
		logger:       log.New(io.Discard, "", 0),
		newID:        defaultLineID,
		writeTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(ctx)
	return s
}

func defaultLineID(c domain.LineCandidate) string {
	return fmt.Sprintf("%s-%s-%s", c.ProductID, c.VariantID, uuid.NewString())
}

func (s *Store) hydrate(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.report(fmt.Errorf("load cart snapshot %q: %w", s.key, err))
		}
		return
	}
	state, err := DecodeSnapshot(raw)
	if err != nil {
		s.report(fmt.Errorf("decode cart snapshot %q: %w", s.key, err))
		return
	}
	s.state = state
}

// Key is the persistence key this store writes to.
func (s *Store) Key() string {
	return s.key
}

// AddItem merges the candidate into an existing line for the same
// product/variant, or appends a new line. The cart is always opened. The
// returned state is the cart as this mutation left it.
func (s *Store) AddItem(c domain.LineCandidate) domain.CartState {
	return s.mutate(func(st *domain.CartState) {
		if i := st.IndexOfVariant(c.ProductID, c.VariantID); i >= 0 {
			// first-seen snapshot wins; only the quantity moves
			qty := mergeQuantity(st.Items[i].Quantity, c.Quantity, st.Items[i].MaxQuantity)
			if qty < 1 {
				st.Items = removeAt(st.Items, i)
			} else {
				st.Items[i].Quantity = qty
			}
		} else if qty := clampQuantity(c.Quantity, c.MaxQuantity); qty >= 1 {
			line := c.Line(s.uniqueID(*st, c))
			line.Quantity = qty
			st.Items = append(st.Items, line)
		}
		st.IsOpen = true
	})
}

// RemoveItem drops the line with lineID. Unknown ids are a no-op.
func (s *Store) RemoveItem(lineID string) domain.CartState {
	return s.mutate(func(st *domain.CartState) {
		if i := st.IndexOf(lineID); i >= 0 {
			st.Items = removeAt(st.Items, i)
		}
	})
}

// UpdateQuantity sets a line's quantity, clamped to its cap. A quantity of
// zero or less removes the line.
func (s *Store) UpdateQuantity(lineID string, quantity int) domain.CartState {
	return s.mutate(func(st *domain.CartState) {
		i := st.IndexOf(lineID)
		if i < 0 {
			return
		}
		if quantity <= 0 {
			st.Items = removeAt(st.Items, i)
			return
		}
		st.Items[i].Quantity = clampQuantity(quantity, st.Items[i].MaxQuantity)
	})
}

// ClearCart empties the lines and leaves the drawer flag alone.
func (s *Store) ClearCart() domain.CartState {
	return s.mutate(func(st *domain.CartState) {
		st.Items = []domain.LineItem{}
	})
}

func (s *Store) OpenCart() domain.CartState {
	return s.mutate(func(st *domain.CartState) { st.IsOpen = true })
}

func (s *Store) CloseCart() domain.CartState {
	return s.mutate(func(st *domain.CartState) { st.IsOpen = false })
}

func (s *Store) ToggleCart() domain.CartState {
	return s.mutate(func(st *domain.CartState) { st.IsOpen = !st.IsOpen })
}

// State returns a copy of the current state.
func (s *Store) State() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Items() []domain.LineItem {
	return s.State().Items
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsOpen
}

// Totals derives the unrounded price breakdown from one consistent read.
func (s *Store) Totals() pricing.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.Compute(s.state.Items)
}

func (s *Store) TotalItems() int {
	return s.Totals().Items
}

func (s *Store) Subtotal() decimal.Decimal {
	return s.Totals().Subtotal
}

func (s *Store) Tax() decimal.Decimal {
	return s.Totals().Tax
}

func (s *Store) Shipping() decimal.Decimal {
	return s.Totals().Shipping
}

func (s *Store) TotalPrice() decimal.Decimal {
	return s.Totals().Total
}

// Snapshot returns the document that would be persisted for the current state.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return EncodeSnapshot(s.state)
}

// mutate applies fn, persists and notifies observers in one critical
// section and returns a copy of the resulting state.
func (s *Store) mutate(fn func(st *domain.CartState)) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.persistLocked()

	if len(s.observers) > 0 {
		snapshot := s.state.Clone()
		for _, obs := range s.observers {
			obs(snapshot)
		}
	}
	return s.state.Clone()
}

// persistLocked issues the snapshot write while the lock is held so writes
// reach the collaborator in mutation order.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}
	raw, err := EncodeSnapshot(s.state)
	if err != nil {
		s.report(fmt.Errorf("encode cart snapshot %q: %w", s.key, err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.report(fmt.Errorf("persist cart snapshot %q: %w", s.key, err))
	}
}

func (s *Store) report(err error) {
	s.logger.Printf("cart store: %v", err)
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Store) uniqueID(st domain.CartState, c domain.LineCandidate) string {
	base := s.newID(c)
	id := base
	for n := 2; st.IndexOf(id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// mergeQuantity is min(existing+added, limit) without overflowing int.
// existing is a stored quantity, so 1 <= existing <= limit.
func mergeQuantity(existing, added, limit int) int {
	if added >= limit-existing {
		return limit
	}
	return existing + added
}

func clampQuantity(quantity, limit int) int {
	if quantity > limit {
		return limit
	}
	return quantity
}

func removeAt(items []domain.LineItem, i int) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
