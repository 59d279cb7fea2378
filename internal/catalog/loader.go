package catalog

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Fetcher yields the product list. *ProductsClient implements it.
type Fetcher interface {
	ListProducts(ctx context.Context) ([]Item, error)
}

// FetchObserver is told how each fetch went. err is nil on success.
type FetchObserver func(d time.Duration, err error)

// Loader fetches the catalog once in the background and holds the result.
// A failed fetch is not retried.
type Loader struct {
	fetcher  Fetcher
	observer FetchObserver

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	state State
	index map[int]Item
}

func NewLoader(fetcher Fetcher, observer FetchObserver) *Loader {
	return &Loader{
		fetcher:  fetcher,
		observer: observer,
		done:     make(chan struct{}),
		state:    Pending(),
	}
}

// Start launches the fetch. Calls after the first are ignored.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	start := time.Now()
	items, err := l.fetcher.ListProducts(ctx)
	if l.observer != nil {
		l.observer(time.Since(start), err)
	}

	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			fe = &FetchError{Op: "request", Err: err}
		}
		l.set(Failed(fe), nil)
		return
	}

	index := make(map[int]Item, len(items))
	for _, it := range items {
		index[it.ID] = it
	}
	l.set(Ready(items), index)
}

func (l *Loader) set(s State, index map[int]Item) {
	l.mu.Lock()
	l.state = s
	l.index = index
	l.mu.Unlock()
}

func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Done is closed once the fetch has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Lookup finds a product in a ready catalog.
func (l *Loader) Lookup(id int) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	it, ok := l.index[id]
	return it, ok
}
