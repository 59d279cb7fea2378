// Package session owns the current cart of a storefront session.
//
// The Store is the only place that holds a cart.State. Every mutation runs the cart
// reducer against the current value and swaps the result in whole; the value it
// replaced is pushed onto a bounded undo stack.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUndo   Action = "undo"
)

const DefaultUndoDepth = 50

// Change describes one accepted mutation. ItemID is zero for undo.
// Version counts accepted mutations of the store, starting at 1.
type Change struct {
	SessionID string
	Action    Action
	ItemID    int
	Version   int64
	Before    cart.State
	After     cart.State
}

// Listener observes cart changes. It runs after the state lock is released, receives
// changes in the order they were applied, and must not mutate the store synchronously.
type Listener interface {
	CartChanged(ctx context.Context, c Change)
}

type ListenerFunc func(ctx context.Context, c Change)

func (f ListenerFunc) CartChanged(ctx context.Context, c Change) { f(ctx, c) }

type Store struct {
	id        string
	undoDepth int
	listeners []Listener

	mu      sync.Mutex
	current cart.State
	history []cart.State
	version int64

	// notifyMu is taken before mu is released so listeners see commit order.
	notifyMu sync.Mutex
}

type Option func(*Store)

// WithUndoDepth bounds the undo stack. Zero disables undo.
func WithUndoDepth(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.undoDepth = n
		}
	}
}

func WithListener(l Listener) Option {
	return func(s *Store) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

func WithID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.id = id
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		id:        uuid.NewString(),
		undoDepth: DefaultUndoDepth,
		current:   cart.State{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ID() string { return s.id }

// Items returns the current cart. The returned value is never modified by the store.
func (s *Store) Items() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) TotalItems() int {
	return cart.TotalItems(s.Items())
}

func (s *Store) Add(ctx context.Context, item catalog.Item) cart.State {
	return s.apply(ctx, ActionAdd, item.ID, func(cur cart.State) cart.State {
		return cart.AddToCart(cur, item)
	})
}

// Remove takes one unit of id out of the cart. An id not in the cart changes nothing
// and is not recorded.
func (s *Store) Remove(ctx context.Context, id int) cart.State {
	return s.apply(ctx, ActionRemove, id, func(cur cart.State) cart.State {
		if _, ok := cur.Find(id); !ok {
			return nil
		}
		return cart.RemoveFromCart(cur, id)
	})
}

// Undo restores the cart as it was before the last accepted mutation.
func (s *Store) Undo(ctx context.Context) (cart.State, bool) {
	s.mu.Lock()
	if len(s.history) == 0 {
		cur := s.current
		s.mu.Unlock()
		return cur, false
	}

	before := s.current
	s.current = s.history[len(s.history)-1]
	s.history[len(s.history)-1] = nil
	s.history = s.history[:len(s.history)-1]
	after := s.current
	s.commit(ctx, Change{SessionID: s.id, Action: ActionUndo, Before: before, After: after})
	return after, true
}

// apply runs reduce against the current cart. reduce returns nil to reject the change.
func (s *Store) apply(ctx context.Context, action Action, itemID int, reduce func(cart.State) cart.State) cart.State {
	s.mu.Lock()
	before := s.current
	next := reduce(before)
	if next == nil {
		s.mu.Unlock()
		return before
	}
	s.current = next
	s.pushHistory(before)
	s.commit(ctx, Change{SessionID: s.id, Action: action, ItemID: itemID, Before: before, After: next})
	return next
}

// commit stamps c with the next version and hands it to the listeners.
// It must be called with mu held and releases it.
func (s *Store) commit(ctx context.Context, c Change) {
	s.version++
	c.Version = s.version

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(ctx, c)
}

func (s *Store) pushHistory(prev cart.State) {
	if s.undoDepth == 0 {
		return
	}
	if len(s.history) == s.undoDepth {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, prev)
}

func (s *Store) notify(ctx context.Context, c Change) {
	for _, l := range s.listeners {
		l.CartChanged(ctx, c)
	}
}
