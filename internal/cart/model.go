package cart

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

// LineItem is a catalog item held in the cart with its quantity.
// Amount is always >= 1 for items present in a State.
type LineItem struct {
	catalog.Item
	Amount int `json:"amount"`
}

// State is the ordered cart content, unique by item ID. Order is first-add order.
type State []LineItem

func (s State) Len() int { return len(s) }

// Find returns the line item with the given id.
func (s State) Find(id int) (LineItem, bool) {
	for _, it := range s {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}
