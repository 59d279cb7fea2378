package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const DefaultProductsPath = "/products"

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

type ProductsClient struct {
	c    *Client
	path string
}

func NewProductsClient(c *Client, path string) *ProductsClient {
	if path == "" {
		path = DefaultProductsPath
	}
	return &ProductsClient{c: c, path: path}
}

// ListProducts fetches the full product list. Any failure is a *FetchError.
func (pc *ProductsClient) ListProducts(ctx context.Context) ([]Item, error) {
	u := pc.c.resolve(pc.path, "").String()

	headers := http.Header{}
	headers.Set("Accept", "application/json")

	resp, err := pc.c.Do(ctx, http.MethodGet, pc.path, "", nil, headers)
	if err != nil {
		return nil, &FetchError{Op: "request", URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{Op: "request", URL: u, StatusCode: resp.StatusCode}
	}

	items, err := decodeItems(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Op: "decode", URL: u, StatusCode: resp.StatusCode, Err: err}
	}
	return items, nil
}

func decodeItems(r io.Reader) ([]Item, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	// a JSON null would decode into a nil slice without complaint
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("expected a JSON array of products")
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
