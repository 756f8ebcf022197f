// Package batch keeps the ordered list of submitted entries.
package batch

import (
	"github.com/google/uuid"

	"github.com/jask/toshlbatch/internal/entry"
)

// Key identifies an item independent of its position.
type Key string

// Item is a stored entry and its key.
type Item struct {
	Key   Key
	Entry entry.Entry
}

// Batch is an append-ordered collection of valid entries. The zero value is
// ready to use.
type Batch struct {
	items  []Item
	newKey func() string
}

// New returns an empty batch. Options are for tests.
func New(opts ...Option) *Batch {
	b := &Batch{}
	for _, o := range opts {
		o(b)
	}
	return b
}

type Option func(*Batch)

// WithKeyFunc replaces the UUID key generator.
func WithKeyFunc(fn func() string) Option {
	return func(b *Batch) { b.newKey = fn }
}

// Append stores a copy of e. Invalid entries are ignored.
func (b *Batch) Append(e entry.Entry) (Key, bool) {
	if !e.IsValid() {
		return "", false
	}
	gen := b.newKey
	if gen == nil {
		gen = uuid.NewString
	}
	k := Key(gen())
	b.items = append(b.items, Item{Key: k, Entry: e.Clone()})
	return k, true
}

// RemoveAt drops the item at position i. Out of range is a no-op.
func (b *Batch) RemoveAt(i int) bool {
	if i < 0 || i >= len(b.items) {
		return false
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	return true
}

// Remove drops the item with key k. Unknown keys are a no-op.
func (b *Batch) Remove(k Key) bool {
	return b.RemoveAt(b.Index(k))
}

// Index returns the position of k, or -1.
func (b *Batch) Index(k Key) int {
	for i, it := range b.items {
		if it.Key == k {
			return i
		}
	}
	return -1
}

func (b *Batch) Len() int { return len(b.items) }

// Entries returns copies of the stored entries in append order.
func (b *Batch) Entries() []entry.Entry {
	out := make([]entry.Entry, len(b.items))
	for i, it := range b.items {
		out[i] = it.Entry.Clone()
	}
	return out
}

// Items returns copies of the stored items in append order.
func (b *Batch) Items() []Item {
	out := make([]Item, len(b.items))
	for i, it := range b.items {
		out[i] = Item{Key: it.Key, Entry: it.Entry.Clone()}
	}
	return out
}

// Reset removes every item.
func (b *Batch) Reset() {
	b.items = nil
}
