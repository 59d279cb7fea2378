package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const maxItemBodyBytes = 1 << 20

type CartResponse struct {
	Items      cart.State `json:"items"`
	TotalItems int        `json:"totalItems"`
}

type BadgeResponse struct {
	TotalItems int `json:"totalItems"`
}

func newCartResponse(s cart.State) CartResponse {
	if s == nil {
		s = cart.State{}
	}
	return CartResponse{Items: s, TotalItems: cart.TotalItems(s)}
}

type CartHandler struct {
	store   *session.Store
	catalog Catalog
}

func NewCartHandler(store *session.Store, c Catalog) *CartHandler {
	return &CartHandler{store: store, catalog: c}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(h.store.Items()))
}

func (h *CartHandler) Badge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BadgeResponse{TotalItems: h.store.TotalItems()})
}

// AddItem adds the catalog item carried in the request body.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item catalog.Item
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBodyBytes)).Decode(&item); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if item.ID <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be positive")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(h.store.Add(r.Context(), item)))
}

// AddByID adds a product from the loaded catalog.
func (h *CartHandler) AddByID(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if h.catalog.State().Phase() != catalog.PhaseReady {
		writeError(w, r, http.StatusServiceUnavailable, "catalog not ready")
		return
	}
	item, found := h.catalog.Lookup(id)
	if !found {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(h.store.Add(r.Context(), item)))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(h.store.Remove(r.Context(), id)))
}

func (h *CartHandler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store.Undo(r.Context())
	if !ok {
		writeError(w, r, http.StatusConflict, "nothing to undo")
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(s))
}

func itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}
