// Package lexicon maps human-readable labels to the opaque identifiers the
// budgeting provider uses for categories and tags.
package lexicon

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Item is one label/id pair. Ids stay strings everywhere; they only look numeric.
type Item struct {
	Label string
	ID    string
}

// Lexicon is an immutable bijection between labels and ids.
type Lexicon struct {
	items   []Item
	byID    map[string]string
	byLabel map[string]string
	folded  map[string]string // lower(label) -> id
}

// New builds a lexicon from items in display order. Labels and ids must each be
// unique and non-empty.
func New(items []Item) (*Lexicon, error) {
	l := &Lexicon{
		items:   make([]Item, 0, len(items)),
		byID:    make(map[string]string, len(items)),
		byLabel: make(map[string]string, len(items)),
		folded:  make(map[string]string, len(items)),
	}
	for _, it := range items {
		if it.Label == "" || it.ID == "" {
			return nil, fmt.Errorf("lexicon item %q/%q: label and id are required", it.Label, it.ID)
		}
		if _, dup := l.byLabel[it.Label]; dup {
			return nil, fmt.Errorf("duplicate label %q", it.Label)
		}
		if _, dup := l.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q", it.ID)
		}
		l.items = append(l.items, it)
		l.byID[it.ID] = it.Label
		l.byLabel[it.Label] = it.ID
		l.folded[strings.ToLower(it.Label)] = it.ID
	}
	return l, nil
}

// MustNew is New for static tables.
func MustNew(items []Item) *Lexicon {
	l, err := New(items)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Lexicon) LabelOf(id string) (string, bool) {
	label, ok := l.byID[id]
	return label, ok
}

func (l *Lexicon) IDOf(label string) (string, bool) {
	id, ok := l.byLabel[label]
	return id, ok
}

// Items returns the pairs in declaration order.
func (l *Lexicon) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Lexicon) Len() int { return len(l.items) }

// At returns the item at display position i.
func (l *Lexicon) At(i int) (Item, bool) {
	if i < 0 || i >= len(l.items) {
		return Item{}, false
	}
	return l.items[i], true
}

// IndexOf returns the display position of id, or -1.
func (l *Lexicon) IndexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Labels renders ids for display. Unknown ids are skipped.
func (l *Lexicon) Labels(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := l.byID[id]; ok {
			out = append(out, label)
		}
	}
	return out
}

// Resolve accepts either an exact id or a label (case-insensitive).
func (l *Lexicon) Resolve(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if _, ok := l.byID[token]; ok {
		return token, true
	}
	if id, ok := l.byLabel[token]; ok {
		return id, true
	}
	id, ok := l.folded[strings.ToLower(token)]
	return id, ok
}

// Suggest returns the label closest to token by edit distance. It reports
// false for an empty lexicon or when nothing is within half the token length.
func (l *Lexicon) Suggest(token string) (string, bool) {
	query := strings.ToLower(strings.TrimSpace(token))
	if query == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, it := range l.items {
		d := levenshtein.ComputeDistance(query, strings.ToLower(it.Label))
		if bestDist < 0 || d < bestDist {
			best, bestDist = it.Label, d
		}
	}
	if bestDist < 0 || bestDist > max(len(query)/2, 1) {
		return "", false
	}
	return best, true
}

// UnknownError describes a label that did not resolve.
type UnknownError struct {
	Kind       string
	Token      string
	Suggestion string
}

func (e *UnknownError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q, did you mean %q?", e.Kind, e.Token, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Token)
}

// Lookup resolves token or returns an *UnknownError carrying a suggestion.
func (l *Lexicon) Lookup(kind, token string) (string, error) {
	if id, ok := l.Resolve(token); ok {
		return id, nil
	}
	suggestion, _ := l.Suggest(token)
	return "", &UnknownError{Kind: kind, Token: token, Suggestion: suggestion}
}
