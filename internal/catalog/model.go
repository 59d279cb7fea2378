package catalog

// Item is a product record as served by the catalog source.
type Item struct {
	ID          int     `json:"id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Title       string  `json:"title"`
}
