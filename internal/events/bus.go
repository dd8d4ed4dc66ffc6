package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Collection names a watched document collection
type Collection string

const (
	Dates       Collection = "dates"
	Invitations Collection = "invitations"
	Wishlist    Collection = "wishlist"
	Places      Collection = "places"
)

// Kind is the type of change applied to a document
type Kind string

const (
	Added    Kind = "added"
	Modified Kind = "modified"
	Removed  Kind = "removed"
)

// Change describes one document mutation. Before is nil for Added and After
// is nil for Removed.
type Change struct {
	Collection Collection `json:"collection"`
	Kind       Kind       `json:"kind"`
	DocumentID string     `json:"document_id"`
	Before     any        `json:"before,omitempty"`
	After      any        `json:"after,omitempty"`
	At         time.Time  `json:"at"`
}

// Handler reacts to a change. It receives the bus context, not the context of
// the request that produced the change.
type Handler func(ctx context.Context, change Change)

type subscription struct {
	name        string
	collections map[Collection]bool
	handle      Handler
}

func (s subscription) wants(c Collection) bool {
	return len(s.collections) == 0 || s.collections[c]
}

// Bus fans changes out to subscribers. Every subscriber gets its own goroutine
// per change, so there is no ordering across documents.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBus creates a new change bus
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{ctx: ctx, cancel: cancel}
}

// Subscribe registers fn for the given collections, or for all collections
// when none are given
func (b *Bus) Subscribe(name string, fn Handler, collections ...Collection) {
	sub := subscription{name: name, handle: fn, collections: map[Collection]bool{}}
	for _, c := range collections {
		sub.collections[c] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, sub)
}

// Publish delivers change to every interested subscriber without blocking
func (b *Bus) Publish(change Change) {
	if change.At.IsZero() {
		change.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		log.Warn().
			Str("collection", string(change.Collection)).
			Str("document_id", change.DocumentID).
			Msg("Change dropped, bus is closed")
		return
	}

	for _, sub := range b.subs {
		if !sub.wants(change.Collection) {
			continue
		}
		b.wg.Add(1)
		go b.deliver(sub, change)
	}
}

func (b *Bus) deliver(sub subscription, change Change) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("subscriber", sub.name).
				Str("collection", string(change.Collection)).
				Str("document_id", change.DocumentID).
				Msg("Change handler panicked")
		}
	}()
	sub.handle(b.ctx, change)
}

// Wait blocks until every delivered change has been handled
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Close stops accepting changes, waits for in-flight handlers and then
// cancels the handler context
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	b.cancel()
}
