package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type fixedCatalog struct {
	state catalog.State
}

func (f *fixedCatalog) State() catalog.State { return f.state }

func (f *fixedCatalog) Lookup(id int) (catalog.Item, bool) {
	for _, it := range f.state.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return catalog.Item{}, false
}

var products = []catalog.Item{
	{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Category: "men's clothing"},
	{ID: 2, Title: "Mens Casual T-Shirt", Price: 22.3, Category: "men's clothing"},
}

type testServer struct {
	router  http.Handler
	store   *session.Store
	catalog *fixedCatalog
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, st catalog.State) *testServer {
	t.Helper()
	m := metrics.New()
	ts := &testServer{
		store:   session.NewStore(session.WithListener(m)),
		catalog: &fixedCatalog{state: st},
		metrics: m,
	}
	ts.router = NewRouter(Deps{
		Logger:  zap.NewNop(),
		Cfg:     config.Config{CORSAllowOrigins: []string{"*"}},
		Catalog: ts.catalog,
		Session: ts.store,
		Metrics: m.Handler(),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decodeCart(t *testing.T, rr *httptest.ResponseRecorder) handlers.CartResponse {
	t.Helper()
	var resp handlers.CartResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthRoute(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())

	rr := ts.do(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "ok", "service": "storefront"}, body)
}

func TestProductsRouteStates(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		rr := newTestServer(t, catalog.Pending()).do(t, http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.JSONEq(t, `{"status":"loading"}`, rr.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		st := catalog.Failed(&catalog.FetchError{Op: "request", StatusCode: 500})
		rr := newTestServer(t, st).do(t, http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.JSONEq(t, `{"status":"error","error":"Something went wrong ..."}`, rr.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		rr := newTestServer(t, catalog.Ready(products)).do(t, http.MethodGet, "/api/products", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var got []catalog.Item
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, products, got)
	})

	t.Run("ready but empty", func(t *testing.T) {
		rr := newTestServer(t, catalog.Ready(nil)).do(t, http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestEmptyCart(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())

	rr := ts.do(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[],"totalItems":0}`, rr.Body.String())

	rr = ts.do(t, http.MethodGet, "/api/cart/badge", "")
	assert.JSONEq(t, `{"totalItems":0}`, rr.Body.String())
}

func TestAddItemFromBody(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())
	body := `{"id":7,"title":"Ring","price":9.99,"category":"jewelery","description":"gold","image":"i.png"}`

	rr := ts.do(t, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.do(t, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeCart(t, rr)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Amount)
	assert.Equal(t, "Ring", resp.Items[0].Title)
	assert.Equal(t, 2, resp.TotalItems)

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.EqualValues(t, 7, raw["items"][0]["id"])
	assert.EqualValues(t, 2, raw["items"][0]["amount"])
}

func TestAddItemRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())

	for _, body := range []string{`{"id":`, `{"id":0}`, `{"id":-3,"title":"x"}`} {
		rr := ts.do(t, http.MethodPost, "/api/cart/items", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)

		var e middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
		assert.NotEmpty(t, e.Error)
		assert.NotEmpty(t, e.CorrelationID)
	}
	assert.Equal(t, 0, ts.store.TotalItems())
}

func TestAddByID(t *testing.T) {
	t.Run("catalog not ready", func(t *testing.T) {
		rr := newTestServer(t, catalog.Pending()).do(t, http.MethodPost, "/api/cart/items/1", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		rr := newTestServer(t, catalog.Ready(products)).do(t, http.MethodPost, "/api/cart/items/99", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := newTestServer(t, catalog.Ready(products)).do(t, http.MethodPost, "/api/cart/items/abc", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("adds catalog item", func(t *testing.T) {
		ts := newTestServer(t, catalog.Ready(products))

		ts.do(t, http.MethodPost, "/api/cart/items/2", "")
		rr := ts.do(t, http.MethodPost, "/api/cart/items/1", "")

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeCart(t, rr)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, 2, resp.Items[0].ID)
		assert.Equal(t, products[0], resp.Items[1].Item)
	})
}

func TestRemoveAndUndo(t *testing.T) {
	ts := newTestServer(t, catalog.Ready(products))
	ts.do(t, http.MethodPost, "/api/cart/items/1", "")
	ts.do(t, http.MethodPost, "/api/cart/items/1", "")
	ts.do(t, http.MethodPost, "/api/cart/items/2", "")

	rr := ts.do(t, http.MethodDelete, "/api/cart/items/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decodeCart(t, rr).TotalItems)

	rr = ts.do(t, http.MethodDelete, "/api/cart/items/42", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decodeCart(t, rr).TotalItems)

	rr = ts.do(t, http.MethodPost, "/api/cart/undo", "")
	require.Equal(t, http.StatusOK, rr.Code)
	it, ok := decodeCart(t, rr).Items.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, it.Amount)

	for i := 0; i < 3; i++ {
		ts.do(t, http.MethodPost, "/api/cart/undo", "")
	}
	rr = ts.do(t, http.MethodPost, "/api/cart/undo", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, cart.State{}, ts.store.Items())
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, catalog.Ready(products))
	ts.do(t, http.MethodPost, "/api/cart/items/1", "")

	rr := ts.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `storefront_cart_mutations_total{action="add"} 1`)
	assert.Contains(t, rr.Body.String(), "storefront_cart_items 1")
}

func TestCorrelationIDEchoAndGeneration(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.HeaderCorrelationID, "abc")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(middleware.HeaderCorrelationID))

	rr = ts.do(t, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rr.Header().Get(middleware.HeaderCorrelationID))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, catalog.Pending())

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/items/1", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogCarriesClientAddress(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := NewRouter(Deps{
		Logger:  zap.New(core),
		Cfg:     config.Config{CORSAllowOrigins: []string{"*"}},
		Catalog: &fixedCatalog{state: catalog.Pending()},
		Session: session.NewStore(),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "203.0.113.9", entries[0].ContextMap()["remote_addr"])
}

func TestUnknownRoute(t *testing.T) {
	rr := newTestServer(t, catalog.Pending()).do(t, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListenersSeeRequestContext(t *testing.T) {
	var cid string
	store := session.NewStore(session.WithListener(session.ListenerFunc(func(ctx context.Context, c session.Change) {
		cid = middleware.GetCorrelationID(ctx)
	})))
	router := NewRouter(Deps{
		Cfg:     config.Config{CORSAllowOrigins: []string{"*"}},
		Catalog: &fixedCatalog{state: catalog.Ready(products)},
		Session: store,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items/1", nil)
	req.Header.Set(middleware.HeaderCorrelationID, "cid-77")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "cid-77", cid)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
