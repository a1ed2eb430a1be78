package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/logging"
)

// CartStore owns the per-session carts. Lines are kept in insertion
// order and merged by (type, item, store) key. Every mutation is
// written through to the archive best-effort so a cart survives a
// restart; archive failures are logged, never surfaced as mutation
// failures.
type CartStore struct {
	mu     sync.Mutex
	carts  map[string][]domain.LineItem
	loaded map[string]bool

	guard   *InventoryGuard
	archive CartArchive
}

func NewCartStore(guard *InventoryGuard, archive CartArchive) *CartStore {
	return &CartStore{
		carts:   map[string][]domain.LineItem{},
		loaded:  map[string]bool{},
		guard:   guard,
		archive: archive,
	}
}

// load pulls the archived cart on first touch of a session.
// Caller holds s.mu.
func (s *CartStore) load(ctx context.Context, sessionID string) {
	if s.loaded[sessionID] {
		return
	}
	s.loaded[sessionID] = true

	lines, ok, err := s.archive.Load(ctx, sessionID)
	if err != nil {
		logging.FromCtx(ctx).Warn("cart archive load failed", "session", sessionID, "error", err)
		return
	}
	if ok {
		s.carts[sessionID] = lines
	}
}

// persist writes the current cart through to the archive. Caller holds s.mu.
func (s *CartStore) persist(ctx context.Context, sessionID string) {
	var err error
	if lines := s.carts[sessionID]; len(lines) == 0 {
		err = s.archive.Delete(ctx, sessionID)
	} else {
		err = s.archive.Save(ctx, sessionID, lines)
	}
	if err != nil {
		logging.FromCtx(ctx).Warn("cart archive write failed", "session", sessionID, "error", err)
	}
}

// Lines returns a copy of the session's cart in insertion order.
func (s *CartStore) Lines(ctx context.Context, sessionID string) []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx, sessionID)
	return slices.Clone(s.carts[sessionID])
}

// AddLine merges item into the cart, treating item.Quantity as the
// requested increment. The resulting quantity is clamped to the
// guard's cap; if the line is already at cap the cart is left
// untouched and applied=false is returned.
func (s *CartStore) AddLine(ctx context.Context, sessionID string, item domain.LineItem) (line domain.LineItem, applied bool, err error) {
	if err := item.Validate(); err != nil {
		return domain.LineItem{}, false, fmt.Errorf("validate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx, sessionID)

	lines := s.carts[sessionID]
	key := item.Key()
	idx := slices.IndexFunc(lines, func(li domain.LineItem) bool { return li.Key() == key })

	current := 0
	if idx >= 0 {
		current = lines[idx].Quantity
	}

	want := current + item.Quantity
	if max := s.guard.MaxQuantity(ctx, item); want > max {
		want = max
	}
	if want <= current {
		// already at cap, silently refuse the increment
		if idx >= 0 {
			return lines[idx], false, nil
		}
		return domain.LineItem{}, false, nil
	}

	if idx >= 0 {
		lines[idx].Quantity = want
	} else {
		item.Quantity = want
		lines = append(lines, item)
		idx = len(lines) - 1
	}
	s.carts[sessionID] = lines
	s.persist(ctx, sessionID)

	return lines[idx], true, nil
}

// RemoveLine decrements the line by one, or deletes it outright when
// all=true. A line reaching zero is deleted. Returns whether the cart
// changed.
func (s *CartStore) RemoveLine(ctx context.Context, sessionID string, key domain.LineKey, all bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx, sessionID)

	lines := s.carts[sessionID]
	idx := slices.IndexFunc(lines, func(li domain.LineItem) bool { return li.Key() == key })
	if idx < 0 {
		return false
	}

	if all || lines[idx].Quantity <= 1 {
		lines = slices.Delete(lines, idx, idx+1)
	} else {
		lines[idx].Quantity--
	}
	s.carts[sessionID] = lines
	s.persist(ctx, sessionID)
	return true
}

// RemoveKeys deletes every line whose key is in keys. Used after a
// partial checkout to drop the groups that were actually ordered.
func (s *CartStore) RemoveKeys(ctx context.Context, sessionID string, keys []domain.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx, sessionID)

	lines := slices.DeleteFunc(s.carts[sessionID], func(li domain.LineItem) bool {
		return slices.Contains(keys, li.Key())
	})
	s.carts[sessionID] = lines
	s.persist(ctx, sessionID)
}

// Clear empties the session's cart. Called only after a fully
// successful checkout (or an explicit user reset).
func (s *CartStore) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[sessionID] = true
	delete(s.carts, sessionID)
	s.persist(ctx, sessionID)
}
