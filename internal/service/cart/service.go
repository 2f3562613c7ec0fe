package cart

import (
	"container/list"
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"luxe-atelier/internal/cartstore"
	"luxe-atelier/internal/domain"
	"luxe-atelier/internal/pricing"
)

// DefaultMaxResident is how many carts stay in memory when New is given no limit.
const DefaultMaxResident = 10000

// Service owns the CartStore of every cart key in use. A store is built and
// hydrated on first access and kept in a least-recently-used set of at most
// maxResident carts. Only stores no request is holding are evicted; an
// evicted cart is rebuilt from its snapshot on the next access.
type Service struct {
	kv          cartstore.KV
	prefix      string
	logger      *log.Logger
	storeOpts   []cartstore.Option
	hydrateTO   time.Duration
	maxResident int

	mu      sync.Mutex
	stores  map[string]*resident
	recency *list.List         // cart keys, most recently used first
	sfg     singleflight.Group // collapses concurrent first access to one hydrate
}

type resident struct {
	store *cartstore.Store
	refs  int
	elem  *list.Element
}

// Summary is one consistent read of a cart and its unrounded totals.
type Summary struct {
	Key    string
	State  domain.CartState
	Totals pricing.Totals
}

// New builds the registry. maxResident <= 0 uses DefaultMaxResident.
func New(kv cartstore.KV, logger *log.Logger, prefix string, maxResident int, storeOpts ...cartstore.Option) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if maxResident <= 0 {
		maxResident = DefaultMaxResident
	}
	opts := append([]cartstore.Option{cartstore.WithLogger(logger)}, storeOpts...)
	return &Service{
		kv:          kv,
		prefix:      prefix,
		logger:      logger,
		storeOpts:   opts,
		hydrateTO:   5 * time.Second,
		maxResident: maxResident,
		stores:      make(map[string]*resident),
		recency:     list.New(),
	}
}

// Resident reports how many carts are currently held in memory.
func (s *Service) Resident() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// acquire pins the store for cartKey, hydrating it if it is not resident.
// The store cannot be evicted until release is called.
func (s *Service) acquire(ctx context.Context, cartKey string) (*cartstore.Store, func(), error) {
	if err := domain.ValidateCartKey(cartKey); err != nil {
		return nil, nil, err
	}

	for {
		s.mu.Lock()
		if r, ok := s.stores[cartKey]; ok {
			s.pinLocked(r)
			s.mu.Unlock()
			return r.store, func() { s.release(r) }, nil
		}
		s.mu.Unlock()

		var admitted *resident
		v, _, _ := s.sfg.Do(cartKey, func() (interface{}, error) {
			s.mu.Lock()
			existing, ok := s.stores[cartKey]
			s.mu.Unlock()
			if ok {
				return existing, nil
			}

			// the store outlives the request, so hydration must not inherit its cancellation
			hydrateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.hydrateTO)
			defer cancel()
			created := cartstore.New(hydrateCtx, s.persistKey(cartKey), s.kv, s.storeOpts...)

			s.mu.Lock()
			admitted = s.admitLocked(cartKey, created)
			s.mu.Unlock()
			return admitted, nil
		})
		if admitted != nil {
			return admitted.store, func() { s.release(admitted) }, nil
		}

		// waiters pin the shared result only if it is still resident;
		// otherwise it was evicted unheld and is rebuilt on the next pass
		r := v.(*resident)
		s.mu.Lock()
		if s.stores[cartKey] == r {
			s.pinLocked(r)
			s.mu.Unlock()
			return r.store, func() { s.release(r) }, nil
		}
		s.mu.Unlock()
	}
}

func (s *Service) pinLocked(r *resident) {
	r.refs++
	s.recency.MoveToFront(r.elem)
}

func (s *Service) release(r *resident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.refs--
	s.evictLocked()
}

// admitLocked registers a freshly hydrated store already pinned once for
// the goroutine that built it.
func (s *Service) admitLocked(cartKey string, store *cartstore.Store) *resident {
	r := &resident{store: store, refs: 1}
	r.elem = s.recency.PushFront(cartKey)
	s.stores[cartKey] = r
	s.evictLocked()
	return r
}

func (s *Service) evictLocked() {
	for e := s.recency.Back(); e != nil && len(s.stores) > s.maxResident; {
		prev := e.Prev()
		key := e.Value.(string)
		if s.stores[key].refs == 0 {
			s.recency.Remove(e)
			delete(s.stores, key)
		}
		e = prev
	}
}

func (s *Service) Get(ctx context.Context, cartKey string) (*Summary, error) {
	return s.apply(ctx, cartKey, (*cartstore.Store).State)
}

// AddItem validates the candidate before handing it to the store, which
// itself accepts anything.
func (s *Service) AddItem(ctx context.Context, cartKey string, c domain.LineCandidate) (*Summary, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ProductID = strings.TrimSpace(c.ProductID)
	c.VariantID = strings.TrimSpace(c.VariantID)
	return s.apply(ctx, cartKey, func(st *cartstore.Store) domain.CartState { return st.AddItem(c) })
}

func (s *Service) RemoveItem(ctx context.Context, cartKey, lineID string) (*Summary, error) {
	return s.apply(ctx, cartKey, func(st *cartstore.Store) domain.CartState { return st.RemoveItem(lineID) })
}

func (s *Service) UpdateQuantity(ctx context.Context, cartKey, lineID string, quantity int) (*Summary, error) {
	return s.apply(ctx, cartKey, func(st *cartstore.Store) domain.CartState {
		return st.UpdateQuantity(lineID, quantity)
	})
}

func (s *Service) Clear(ctx context.Context, cartKey string) (*Summary, error) {
	return s.apply(ctx, cartKey, (*cartstore.Store).ClearCart)
}

func (s *Service) Open(ctx context.Context, cartKey string) (*Summary, error) {
	return s.apply(ctx, cartKey, (*cartstore.Store).OpenCart)
}

func (s *Service) Close(ctx context.Context, cartKey string) (*Summary, error) {
	return s.apply(ctx, cartKey, (*cartstore.Store).CloseCart)
}

func (s *Service) Toggle(ctx context.Context, cartKey string) (*Summary, error) {
	return s.apply(ctx, cartKey, (*cartstore.Store).ToggleCart)
}

// apply runs op against the pinned store. The summary is built from the
// state op returns, so it reflects exactly this request's operation.
func (s *Service) apply(ctx context.Context, cartKey string, op func(*cartstore.Store) domain.CartState) (*Summary, error) {
	store, release, err := s.acquire(ctx, cartKey)
	if err != nil {
		return nil, err
	}
	defer release()

	state := op(store)
	return &Summary{Key: cartKey, State: state, Totals: pricing.Compute(state.Items)}, nil
}

func (s *Service) persistKey(cartKey string) string {
	if s.prefix == "" {
		return cartKey
	}
	return s.prefix + ":" + cartKey
}
