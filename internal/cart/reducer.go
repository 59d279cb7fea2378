// Package cart holds the cart state and the pure functions that transform it.
//
// None of the functions here mutate their input: every call returns a fresh State
// backed by its own array, so callers can keep earlier values around (undo, diffing).
package cart

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

// AddToCart returns s with one more unit of item. An existing line item is incremented
// where it stands; a new one is appended with Amount 1.
func AddToCart(s State, item catalog.Item) State {
	out := make(State, 0, len(s)+1)

	found := false
	for _, it := range s {
		if it.ID == item.ID {
			it.Amount++
			found = true
		}
		out = append(out, it)
	}
	if !found {
		out = append(out, LineItem{Item: item, Amount: 1})
	}

	return out
}

// RemoveFromCart returns s with one unit of the item identified by id taken away.
// A line item at Amount 1 is dropped. An id that is not in the cart leaves it unchanged.
func RemoveFromCart(s State, id int) State {
	out := make(State, 0, len(s))

	for _, it := range s {
		if it.ID != id {
			out = append(out, it)
			continue
		}
		if it.Amount <= 1 {
			continue
		}
		it.Amount--
		out = append(out, it)
	}

	return out
}

// TotalItems is the badge count: the sum of all amounts.
func TotalItems(s State) int {
	total := 0
	for _, it := range s {
		total += it.Amount
	}
	return total
}
