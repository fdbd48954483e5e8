package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
)

// Store is the one source of truth the whole app renders from: the cart
// and buy-now lines plus the server-mirror caches. All mutation goes
// through its mutex, so operations apply in dispatch order. Every cart
// mutation persists the full snapshot before returning.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	cart   []domain.CartLine
	buyNow []domain.CartLine

	Products      *Cache[domain.Page[domain.Product]]
	Orders        *Cache[domain.Page[domain.OrderResponse]]
	Feedback      *Cache[domain.Page[domain.Feedback]]
	Conversations *Cache[[]domain.ConversationPreview]
	PaymentLink   *Cache[api.CheckoutLink]
}

// New rehydrates the cart from the persisted snapshot. A missing slot
// starts empty; a malformed one is logged and degrades to empty rather
// than failing startup.
func New(ctx context.Context, kv storage.KV) *Store {
	s := &Store{
		kv:            kv,
		Products:      NewCache[domain.Page[domain.Product]](),
		Orders:        NewCache[domain.Page[domain.OrderResponse]](),
		Feedback:      NewCache[domain.Page[domain.Feedback]](),
		Conversations: NewCache[[]domain.ConversationPreview](),
		PaymentLink:   NewCache[api.CheckoutLink](),
	}
	s.cart = loadSnapshot(ctx, kv)
	return s
}

func loadSnapshot(ctx context.Context, kv storage.KV) []domain.CartLine {
	data, err := kv.Load(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("cart snapshot load failed: %v", err)
		return nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("cart snapshot corrupt, starting empty: %v", err)
		return nil
	}
	return lines
}

func (s *Store) AddToCart(ctx context.Context, line domain.CartLine) error {
	if line.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", line.Quantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = addLine(s.cart, line)
	return s.persistLocked(ctx)
}

func (s *Store) DecrementFromCart(ctx context.Context, line domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = decrementLine(s.cart, line)
	return s.persistLocked(ctx)
}

func (s *Store) RemoveFromCart(ctx context.Context, line domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = removeLine(s.cart, line)
	return s.persistLocked(ctx)
}

// ClearCart empties the cart and removes the persisted slot entirely,
// which is what order completion does.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	if err := s.kv.Delete(ctx, storage.KeyCart); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}

// Lines is a copy of the current cart, safe for the caller to hold.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

// Count is the number of distinct lines, not the quantity sum.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countLines(s.cart)
}

func (s *Store) Amount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartAmount(s.cart)
}

// SetBuyNow replaces the buy-now selection. It never merges with the cart.
func (s *Store) SetBuyNow(lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyNow = lines
}

func (s *Store) BuyNow() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.buyNow))
	copy(out, s.buyNow)
	return out
}

func (s *Store) ClearBuyNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyNow = nil
}

// CheckoutLines is what a submission reads: the buy-now selection when one
// exists, the cart otherwise.
func (s *Store) CheckoutLines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.cart
	if len(s.buyNow) > 0 {
		src = s.buyNow
	}
	out := make([]domain.CartLine, len(src))
	copy(out, src)
	return out
}

// UsingBuyNow reports which list CheckoutLines would read.
func (s *Store) UsingBuyNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buyNow) > 0
}

// Watch reloads the cart snapshot whenever another tab or process writes
// it. Backends without change notification make this a no-op.
func (s *Store) Watch(ctx context.Context) {
	watcher, ok := s.kv.(storage.Watcher)
	if !ok {
		return
	}
	changes, err := watcher.Watch(ctx)
	if err != nil {
		log.Printf("kv watch unavailable: %v", err)
		return
	}
	go func() {
		for key := range changes {
			if key != storage.KeyCart {
				continue
			}
			lines := loadSnapshot(ctx, s.kv)
			s.mu.Lock()
			s.cart = lines
			s.mu.Unlock()
		}
	}()
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.cart)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	if err := s.kv.Save(ctx, storage.KeyCart, data); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	return nil
}
