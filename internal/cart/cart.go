// Package cart holds the shopping cart for one storefront and mirrors it to
// a persisted slot after every change.
//
// A Store is the only reader and writer of its slot key. It has no removal,
// decrement or clear operation: a cart only grows, and is emptied only when
// the slot is cleared from outside.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/shopcart/internal/model"
)

// Slot is the durable key/value location a Store mirrors itself to.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Listener receives the side effects of cart changes: the badge refresh and
// the transient "added" notification.
type Listener interface {
	CountChanged(total int)
	ItemAdded(item model.LineItem)
}

// Store is the authoritative, ordered list of line items for one slot key.
type Store struct {
	mu       sync.Mutex
	slot     Slot
	key      string
	items    []model.LineItem
	logger   *zap.Logger
	listener Listener
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithListener(l Listener) Option {
	return func(s *Store) { s.listener = l }
}

// New returns an empty store bound to key in slot. Call Load to restore a
// saved cart; AddItem works without it and starts from empty.
func New(slot Slot, key string, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    key,
		items:  []model.LineItem{},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.String("slot", key))
	return s
}

// Key is the slot key this store persists to.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory cart with the persisted one. A missing,
// unreadable or corrupt slot yields an empty cart; the cause is logged and
// never returned.
func (s *Store) Load(ctx context.Context) {
	items := s.read(ctx)

	s.mu.Lock()
	s.items = items
	total := countOf(s.items)
	s.mu.Unlock()

	s.logger.Debug("cart loaded", zap.Int("lines", len(items)), zap.Int("count", total))
	s.countChanged(total)
}

func (s *Store) read(ctx context.Context) []model.LineItem {
	raw, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("cart slot unreadable, starting empty", zap.Error(err))
		return []model.LineItem{}
	}
	if !ok {
		return []model.LineItem{}
	}
	items, merged, err := decode(raw)
	if err != nil {
		s.logger.Warn("cart slot corrupt, starting empty", zap.Error(err))
		return []model.LineItem{}
	}
	if merged > 0 {
		s.logger.Warn("merged duplicate cart lines", zap.Int("merged", merged))
	}
	return items
}

// AddItem bumps the quantity of the line named name, or appends a new line
// with quantity 1. An existing line keeps the price it was first added at.
// price is stored as given. The cart is saved afterwards; a save failure is
// returned but the in-memory change stays.
func (s *Store) AddItem(ctx context.Context, name string, price float64) error {
	s.mu.Lock()
	idx := s.indexOf(name)
	if idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, model.LineItem{Name: name, Price: price, Quantity: 1})
		idx = len(s.items) - 1
	}
	item := s.items[idx]
	total := countOf(s.items)
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.countChanged(total)
	if err != nil {
		s.logger.Error("cart save failed", zap.String("item", name), zap.Error(err))
		return err
	}
	s.logger.Info("item added", zap.String("item", name), zap.Int("quantity", item.Quantity))
	if s.listener != nil {
		s.listener.ItemAdded(item)
	}
	return nil
}

// Save overwrites the slot with the full ordered cart.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	raw, err := encode(s.items)
	if err != nil {
		return err
	}
	if err := s.slot.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save cart %q: %w", s.key, err)
	}
	return nil
}

// TotalItemCount is the sum of all quantities, recomputed on every call.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.items)
}

// Summary returns per-line totals and the grand total.
func (s *Store) Summary() model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := model.Summary{Lines: make([]model.SummaryLine, 0, len(s.items))}
	for _, it := range s.items {
		lt := it.Total()
		sum.Lines = append(sum.Lines, model.SummaryLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			LineTotal: lt,
		})
		sum.ItemCount += it.Quantity
		sum.GrandTotal += lt
	}
	return sum
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(name string) int {
	for i := range s.items {
		if s.items[i].Name == name {
			return i
		}
	}
	return -1
}

func (s *Store) countChanged(total int) {
	if s.listener != nil {
		s.listener.CountChanged(total)
	}
}

func countOf(items []model.LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
