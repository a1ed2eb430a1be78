package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeRide  ItemType = "ride"
	ItemTypeStore ItemType = "store"
)

// LineKey identifies a cart line. StoreID is zero for ride lines.
type LineKey struct {
	Type    ItemType
	ItemID  int64
	StoreID int64
}

// LineItem is one cart line: a ride ticket or a merchandise item
// scoped to a single store. Lines with the same key are merged,
// never duplicated.
type LineItem struct {
	Type      ItemType
	ItemID    int64
	StoreID   int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (li LineItem) Key() LineKey {
	k := LineKey{Type: li.Type, ItemID: li.ItemID}
	if li.Type == ItemTypeStore {
		k.StoreID = li.StoreID
	}
	return k
}

func (li LineItem) Validate() error {
	switch li.Type {
	case ItemTypeRide:
		if li.StoreID != 0 {
			return fmt.Errorf("%w: ride line carries store id %d", ErrInvalidLine, li.StoreID)
		}
	case ItemTypeStore:
		if li.StoreID <= 0 {
			return fmt.Errorf("%w: store line requires a store id", ErrInvalidLine)
		}
	default:
		return fmt.Errorf("%w: unknown item type %q", ErrInvalidLine, li.Type)
	}
	if li.ItemID <= 0 {
		return fmt.Errorf("%w: item id must be positive", ErrInvalidLine)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price is negative", ErrInvalidLine)
	}
	if li.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
	}
	return nil
}

// Cart is an ordered collection of lines owned by one session.
type Cart struct {
	SessionID string
	Lines     []LineItem
}

// RideLines returns the ride-ticket subset in cart order.
func (c Cart) RideLines() []LineItem {
	var out []LineItem
	for _, li := range c.Lines {
		if li.Type == ItemTypeRide {
			out = append(out, li)
		}
	}
	return out
}

// StoreLines returns the merchandise subset for one store in cart order.
func (c Cart) StoreLines(storeID int64) []LineItem {
	var out []LineItem
	for _, li := range c.Lines {
		if li.Type == ItemTypeStore && li.StoreID == storeID {
			out = append(out, li)
		}
	}
	return out
}

// StoreIDs returns the distinct store ids present in the cart, unordered.
func (c Cart) StoreIDs() []int64 {
	seen := map[int64]struct{}{}
	var out []int64
	for _, li := range c.Lines {
		if li.Type != ItemTypeStore {
			continue
		}
		if _, ok := seen[li.StoreID]; ok {
			continue
		}
		seen[li.StoreID] = struct{}{}
		out = append(out, li.StoreID)
	}
	return out
}
