package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/toshlbatch/internal/entry"
	"github.com/jask/toshlbatch/internal/session"
	"github.com/jask/toshlbatch/internal/synth"
)

type stubStager struct {
	err   error
	calls int
}

func (s *stubStager) Stage(context.Context, string) error {
	s.calls++
	return s.err
}

func newApp(t *testing.T, st session.Stager) *App {
	t.Helper()
	sess := session.New(nil, nil, nil, "999", zerolog.Nop())
	noon := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(context.Background(), sess, NewTheme(true),
		WithClock(func() time.Time { return noon }),
		WithStager(st))
}

func runeKey(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	next, cmd := a.Update(msg)
	got, ok := next.(*App)
	require.True(t, ok, "Update returned %T", next)
	for i := 0; cmd != nil && i < 8; i++ {
		m := cmd()
		if m == nil {
			break
		}
		next, cmd = got.Update(m)
		got = next.(*App)
	}
	return got
}

func press(t *testing.T, a *App, keys ...tea.KeyType) *App {
	t.Helper()
	for _, k := range keys {
		a = apply(t, a, tea.KeyMsg{Type: k})
	}
	return a
}

func typeText(t *testing.T, a *App, s string) *App {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			a = apply(t, a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		a = apply(t, a, runeKey(string(r)))
	}
	return a
}

// fillLunch walks the form top to bottom with the Lunch preset.
func fillLunch(t *testing.T, a *App, amount, desc string) *App {
	t.Helper()
	a = press(t, a, tea.KeyF3)
	a = apply(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
	a = press(t, a, tea.KeyTab, tea.KeyTab)
	a = typeText(t, a, amount)
	a = press(t, a, tea.KeyTab)
	return typeText(t, a, desc)
}

func TestFormAddsEntryAndResets(t *testing.T) {
	a := newApp(t, nil)
	a = fillLunch(t, a, "12.50", "chicken rice")

	d := a.sess.Draft()
	require.True(t, d.IsValid())
	require.Equal(t, "2024-03-01", d.Date.String())
	require.Equal(t, "45288150", d.CategoryID)
	require.Equal(t, "chicken rice", d.Description)

	a = press(t, a, tea.KeyEnter)
	require.Equal(t, 1, a.sess.Batch().Len())
	require.Equal(t, entry.Entry{}, a.sess.Draft())
	require.Equal(t, focusDate, a.focus)
	require.Empty(t, a.amountBuf)
	require.Contains(t, a.View(), "chicken rice")
}

func TestIncompleteSubmitReportsMissingFields(t *testing.T) {
	a := newApp(t, nil)
	a = press(t, a, tea.KeyTab, tea.KeyTab)
	a = typeText(t, a, "5")
	a = press(t, a, tea.KeyEnter)

	require.Equal(t, 0, a.sess.Batch().Len())
	require.True(t, a.statusErr)
	require.Equal(t, "incomplete: date, category, tags, description", a.status)
}

func TestDateInputIgnoresLetters(t *testing.T) {
	a := newApp(t, nil)
	a = typeText(t, a, "2024-0x3-05")
	require.Equal(t, "2024-03-05", a.dateBuf)
	require.Equal(t, "2024-03-05", a.sess.Draft().Date.String())

	a = press(t, a, tea.KeyBackspace)
	require.Nil(t, a.sess.Draft().Date)
}

func TestDateStepKeys(t *testing.T) {
	a := newApp(t, nil)
	a = apply(t, a, runeKey("["))
	require.Equal(t, "2024-02-29", a.sess.Draft().Date.String())
	a = apply(t, a, runeKey("]"))
	a = apply(t, a, runeKey("]"))
	require.Equal(t, "2024-03-02", a.sess.Draft().Date.String())
}

func TestCategoryCycles(t *testing.T) {
	a := newApp(t, nil)
	a = press(t, a, tea.KeyTab)
	a = press(t, a, tea.KeyLeft)
	require.Equal(t, "unsorted", a.sess.Draft().CategoryID)
	a = press(t, a, tea.KeyRight)
	require.Equal(t, "45288150", a.sess.Draft().CategoryID)
	a = press(t, a, tea.KeyRight)
	require.Equal(t, "45288154", a.sess.Draft().CategoryID)
}

func TestTagToggleFromForm(t *testing.T) {
	a := newApp(t, nil)
	a = press(t, a, tea.KeyTab, tea.KeyTab, tea.KeyTab, tea.KeyTab)
	require.Equal(t, focusTags, a.focus)

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	a = apply(t, a, space)
	a = press(t, a, tea.KeyRight)
	a = apply(t, a, space)
	require.Equal(t, []string{"19800891", "72377168"}, a.sess.Draft().TagIDs)

	a = press(t, a, tea.KeyLeft)
	a = apply(t, a, space)
	require.Equal(t, []string{"72377168"}, a.sess.Draft().TagIDs)
	require.Contains(t, a.View(), "[x] Delivery")
}

func TestGenerateStagesAndKeepsOutputOnFailure(t *testing.T) {
	st := &stubStager{err: errors.New("no display")}
	a := newApp(t, st)
	a = fillLunch(t, a, "12.50", "lunch")
	a = press(t, a, tea.KeyEnter)

	a = press(t, a, tea.KeyCtrlG)
	require.Equal(t, 1, st.calls)
	require.True(t, a.statusErr)
	require.Equal(t, 1, strings.Count(a.output, "await fetch("))
	require.True(t, strings.HasSuffix(a.output, synth.Reset))
	require.Contains(t, a.View(), "amount: -12.5,")
}

func TestGenerateWithoutStager(t *testing.T) {
	a := newApp(t, nil)
	a = press(t, a, tea.KeyCtrlG)
	require.Equal(t, synth.Reset, a.output)
	require.False(t, a.statusErr)
}

func TestBatchRemoveSelected(t *testing.T) {
	a := newApp(t, nil)
	for _, d := range []string{"a", "b", "c"} {
		a = fillLunch(t, a, "1", d)
		a = press(t, a, tea.KeyEnter)
	}
	require.Equal(t, 3, a.sess.Batch().Len())

	a = press(t, a, tea.KeyShiftTab)
	require.Equal(t, focusBatch, a.focus)
	a = press(t, a, tea.KeyDown)
	a = apply(t, a, runeKey("d"))

	var got []string
	for _, e := range a.sess.Batch().Entries() {
		got = append(got, e.Description)
	}
	require.Equal(t, []string{"a", "c"}, got)

	a = press(t, a, tea.KeyDown, tea.KeyDown)
	a = apply(t, a, runeKey("d"))
	a = apply(t, a, runeKey("d"))
	require.Equal(t, 0, a.sess.Batch().Len())
	a = apply(t, a, runeKey("d"))
	require.Equal(t, 0, a.batchCursor)
}

func TestClearDraft(t *testing.T) {
	a := newApp(t, nil)
	a = fillLunch(t, a, "3", "x")
	a = press(t, a, tea.KeyCtrlN)
	require.Equal(t, entry.Entry{}, a.sess.Draft())
	require.Empty(t, a.descBuf)
	require.Equal(t, -1, a.catCursor)
}

func TestQuitKeys(t *testing.T) {
	a := newApp(t, nil)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}
