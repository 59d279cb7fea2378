package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// Catalog is the read side of a catalog.Loader.
type Catalog interface {
	State() catalog.State
	Lookup(id int) (catalog.Item, bool)
}

type ProductsHandler struct {
	catalog Catalog
	logger  *zap.Logger
}

func NewProductsHandler(c Catalog, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{catalog: c, logger: logger}
}

// List renders whichever of the three catalog states is current.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.State()

	switch st.Phase() {
	case catalog.PhaseReady:
		writeJSON(w, http.StatusOK, st.Items())
	case catalog.PhaseFailed:
		h.logger.Debug("catalog unavailable",
			zap.Error(st.Err()),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())))
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": st.Phase().String(),
			"error":  catalog.UserMessage,
		})
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": st.Phase().String(),
		})
	}
}
