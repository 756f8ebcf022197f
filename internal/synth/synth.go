// Package synth renders a batch as browser-console statements that create
// each entry through the Toshl REST API.
package synth

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/jask/toshlbatch/internal/entry"
)

const (
	DefaultEndpoint = "https://toshl.com/api/entries?immediate_update=true"
	DefaultCurrency = "MYR"

	// Reset runs once after every statement has been issued.
	Reset = " location.reload();"
)

// statement is the per-entry call. account, amount and tags are bare tokens;
// the remaining values arrive already quoted.
const statement = `
        await fetch(%[1]s, {
          method: "POST",
          headers: {
            "Content-Type": "application/json;charset=UTF-8",
          },
          body: JSON.stringify({
            account: %[2]s,
            amount: %[3]s,
            category: %[4]s,
            desc: %[5]s,
            currency: {
              code: %[6]s,
              fixed: false,
              main_rate: null,
              rate: null,
              ref: %[6]s,
            },
            date: %[7]s,
            reminders: [],
            tags: [%[8]s],
          }),
        }).then((response) => {
          console.log(response);
        });
      `

// Source is anything that yields entries in order.
type Source interface {
	Entries() []entry.Entry
}

// Synthesizer carries the values shared by every statement.
type Synthesizer struct {
	endpoint string
	currency string
}

type Option func(*Synthesizer)

func WithEndpoint(url string) Option {
	return func(s *Synthesizer) { s.endpoint = url }
}

// WithCurrency sets the code used for both code and ref in the currency literal.
func WithCurrency(code string) Option {
	return func(s *Synthesizer) { s.currency = code }
}

func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{endpoint: DefaultEndpoint, currency: DefaultCurrency}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize emits one statement per valid entry followed by Reset. The
// account is written as given.
func (s *Synthesizer) Synthesize(src Source, account string) string {
	var b strings.Builder
	for _, e := range src.Entries() {
		s.write(&b, e, account)
	}
	b.WriteString(Reset)
	return b.String()
}

// Statement renders a single entry without the trailing reset. It returns
// false for entries that are not valid.
func (s *Synthesizer) Statement(e entry.Entry, account string) (string, bool) {
	var b strings.Builder
	if !s.write(&b, e, account) {
		return "", false
	}
	return b.String(), true
}

func (s *Synthesizer) write(b *strings.Builder, e entry.Entry, account string) bool {
	if !e.IsValid() {
		return false
	}
	fmt.Fprintf(b, statement,
		quote(s.endpoint),
		account,
		e.Amount.Neg().String(),
		quote(e.CategoryID),
		quote(e.Description),
		quote(s.currency),
		quote(e.Date.String()),
		strings.Join(e.TagIDs, ","),
	)
	return true
}

// quote produces a double-quoted literal valid in both JSON and JavaScript.
func quote(s string) string {
	out, err := json.MarshalNoEscape(s)
	if err != nil {
		// strings always marshal
		return `""`
	}
	return string(out)
}

// Sources wraps a plain slice.
type Sources []entry.Entry

func (s Sources) Entries() []entry.Entry { return s }
