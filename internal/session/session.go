// Package session owns the draft entry and the batch for one run of the tool.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jask/toshlbatch/internal/batch"
	"github.com/jask/toshlbatch/internal/entry"
	"github.com/jask/toshlbatch/internal/lexicon"
	"github.com/jask/toshlbatch/internal/synth"
)

// Stager is the clipboard side channel.
type Stager interface {
	Stage(ctx context.Context, text string) error
}

// Session is single-owner state: one draft and one batch. It is not safe for
// concurrent use.
type Session struct {
	Catalog *lexicon.Catalog

	draft   entry.Entry
	batch   *batch.Batch
	synth   *synth.Synthesizer
	stager  Stager
	account string
	log     zerolog.Logger
}

// Result is the outcome of Generate.
type Result struct {
	Text   string
	Staged bool
}

func New(cat *lexicon.Catalog, s *synth.Synthesizer, stager Stager, account string, log zerolog.Logger) *Session {
	if cat == nil {
		cat = lexicon.Default()
	}
	if s == nil {
		s = synth.New()
	}
	return &Session{
		Catalog: cat,
		batch:   batch.New(),
		synth:   s,
		stager:  stager,
		account: account,
		log:     log,
	}
}

func (s *Session) Draft() entry.Entry  { return s.draft }
func (s *Session) Batch() *batch.Batch { return s.batch }
func (s *Session) Account() string     { return s.account }

// Edit replaces the draft with fn applied to it.
func (s *Session) Edit(fn func(entry.Entry) entry.Entry) entry.Entry {
	s.draft = fn(s.draft)
	return s.draft
}

func (s *Session) SetField(f entry.Field, raw string) entry.Entry {
	return s.Edit(func(e entry.Entry) entry.Entry { return e.Set(f, raw) })
}

func (s *Session) ToggleTag(id string) entry.Entry {
	return s.Edit(func(e entry.Entry) entry.Entry { return e.ToggleTag(id) })
}

// ApplyPreset applies the named preset. Unknown names leave the draft alone.
func (s *Session) ApplyPreset(name string) (entry.Entry, bool) {
	p, ok := s.Catalog.Preset(name)
	if !ok {
		return s.draft, false
	}
	return s.Edit(func(e entry.Entry) entry.Entry { return e.ApplyPreset(p.CategoryID, p.TagIDs) }), true
}

// ClearDraft resets the draft to blank.
func (s *Session) ClearDraft() { s.draft = entry.Entry{} }

// Submit appends the draft when valid and starts a blank one. An invalid draft
// is kept as is.
func (s *Session) Submit() (batch.Key, bool) {
	k, ok := s.batch.Append(s.draft)
	if !ok {
		s.log.Debug().Interface("missing", s.draft.Missing()).Msg("submit ignored: draft incomplete")
		return "", false
	}
	s.log.Debug().Str("key", string(k)).Int("batch", s.batch.Len()).Msg("entry added")
	s.draft = entry.Entry{}
	return k, true
}

func (s *Session) Remove(k batch.Key) bool { return s.batch.Remove(k) }
func (s *Session) RemoveAt(i int) bool     { return s.batch.RemoveAt(i) }

// Synthesize renders the whole batch.
func (s *Session) Synthesize() string {
	return s.synth.Synthesize(s.batch, s.account)
}

// Generate renders the batch and stages it. A staging failure only clears
// Result.Staged.
func (s *Session) Generate(ctx context.Context) Result {
	res := Result{Text: s.Synthesize()}
	if s.stager == nil {
		return res
	}
	if err := s.stager.Stage(ctx, res.Text); err != nil {
		return res
	}
	res.Staged = true
	return res
}
