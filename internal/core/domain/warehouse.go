package domain

import (
	"fmt"
	"sort"
)

// Inventory maps item id to held quantity. Quantities are always
// positive; an item that drops to zero is removed from the map.
type Inventory map[string]int

// Warehouse maps location id to its inventory. Operations never
// mutate the receiver: they return a fresh Warehouse on success, so a
// failed operation leaves the caller's value untouched.
type Warehouse map[string]Inventory

func (w Warehouse) clone() Warehouse {
	next := make(Warehouse, len(w))
	for loc, inv := range w {
		cp := make(Inventory, len(inv))
		for item, qty := range inv {
			cp[item] = qty
		}
		next[loc] = cp
	}
	return next
}

// Quantity reports how much of item is held at loc, zero if either is
// absent.
func (w Warehouse) Quantity(loc, item string) int {
	return w[loc][item]
}

// RegisterLocation adds a new empty location.
func (w Warehouse) RegisterLocation(loc string) (Warehouse, error) {
	if _, ok := w[loc]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLocation, loc)
	}
	next := w.clone()
	next[loc] = Inventory{}
	return next, nil
}

// UnregisterLocation removes a location that holds no inventory.
func (w Warehouse) UnregisterLocation(loc string) (Warehouse, error) {
	inv, ok := w[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}
	if len(inv) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotEmpty, loc)
	}
	next := w.clone()
	delete(next, loc)
	return next, nil
}

// Increment adds qty of item to loc.
func (w Warehouse) Increment(loc, item string, qty int) (Warehouse, error) {
	if _, ok := w[loc]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidQuantity, qty)
	}
	next := w.clone()
	next[loc][item] += qty
	return next, nil
}

// Decrement removes qty of item from loc. It fails without touching
// the state when loc holds fewer than qty, reporting the held amount.
func (w Warehouse) Decrement(loc, item string, qty int) (Warehouse, error) {
	inv, ok := w[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidQuantity, qty)
	}
	held := inv[item]
	if held < qty {
		return nil, fmt.Errorf("%w of %s in %s (has %d)", ErrInsufficientQuantity, item, loc, held)
	}
	next := w.clone()
	if held == qty {
		delete(next[loc], item)
	} else {
		next[loc][item] = held - qty
	}
	return next, nil
}

// Transfer moves qty of item from one location to another. Both
// locations are checked before anything moves; the result holds either
// both sides updated or, on error, nothing at all.
func (w Warehouse) Transfer(from, to, item string, qty int) (Warehouse, error) {
	if _, ok := w[from]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, from)
	}
	if _, ok := w[to]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, to)
	}
	next, err := w.Decrement(from, item, qty)
	if err != nil {
		return nil, err
	}
	return next.Increment(to, item, qty)
}

// Observe lists the inventory held at loc sorted by item id. An empty
// location yields an empty, non-nil slice.
func (w Warehouse) Observe(loc string) ([]ItemQuantity, error) {
	inv, ok := w[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}
	items := make([]ItemQuantity, 0, len(inv))
	for item, qty := range inv {
		items = append(items, ItemQuantity{Item: item, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Item < items[j].Item })
	return items, nil
}
