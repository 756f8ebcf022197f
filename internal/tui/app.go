package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/toshlbatch/internal/batch"
	"github.com/jask/toshlbatch/internal/entry"
	"github.com/jask/toshlbatch/internal/session"
)

// App is the entry form. It feeds field edits into the session and shows the
// draft, the batch and the last generated script.
type App struct {
	ctx    context.Context
	sess   *session.Session
	stager session.Stager
	theme  Theme
	now    func() time.Time

	focus       focusField
	dateBuf     string
	amountBuf   string
	descBuf     string
	catCursor   int
	tagCursor   int
	batchCursor int
	output      string
	status      string
	statusErr   bool
}

type focusField int

const (
	focusDate focusField = iota
	focusCategory
	focusAmount
	focusDescription
	focusTags
	focusBatch
	focusCount
)

func (f focusField) title() string {
	switch f {
	case focusDate:
		return "Date"
	case focusCategory:
		return "Category"
	case focusAmount:
		return "Amount"
	case focusDescription:
		return "Description"
	case focusTags:
		return "Tags"
	case focusBatch:
		return "Batch"
	}
	return ""
}

// Option configures the form.
type Option func(*App)

// WithClock fixes "today" for the date quick picks.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithStager copies generated scripts in the background.
func WithStager(s session.Stager) Option {
	return func(a *App) { a.stager = s }
}

func New(ctx context.Context, sess *session.Session, theme Theme, opts ...Option) *App {
	a := &App{
		ctx:       ctx,
		sess:      sess,
		theme:     theme,
		now:       time.Now,
		catCursor: -1,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case stagedMsg:
		if m.err != nil {
			a.setStatus("generated; copy failed (see log)", true)
		} else {
			a.setStatus("generated and copied to clipboard", false)
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit
	case "tab":
		a.focus = (a.focus + 1) % focusCount
		return a, nil
	case "shift+tab":
		a.focus = (a.focus + focusCount - 1) % focusCount
		return a, nil
	case "ctrl+g":
		return a, a.generate()
	case "ctrl+n":
		a.sess.ClearDraft()
		a.resetBuffers()
		a.setStatus("draft cleared", false)
		return a, nil
	case "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9":
		a.applyPreset(int(m.String()[1] - '1'))
		return a, nil
	}
	if a.focus == focusBatch {
		return a.handleBatchKey(m)
	}
	switch m.String() {
	case "enter":
		a.submit()
		return a, nil
	case "up":
		a.focus = (a.focus + focusCount - 1) % focusCount
		return a, nil
	case "down":
		a.focus = (a.focus + 1) % focusCount
		return a, nil
	}
	switch a.focus {
	case focusDate:
		a.handleDateKey(m)
	case focusCategory:
		a.handleCategoryKey(m)
	case focusAmount:
		a.amountBuf = editBuffer(a.amountBuf, m)
		a.sess.SetField(entry.FieldAmount, a.amountBuf)
	case focusDescription:
		a.descBuf = editBuffer(a.descBuf, m)
		a.sess.SetField(entry.FieldDescription, a.descBuf)
	case focusTags:
		a.handleTagKey(m)
	}
	return a, nil
}

func (a *App) handleDateKey(m tea.KeyMsg) {
	switch m.String() {
	case "ctrl+t":
		a.setDate(entry.RelativeDate(a.now(), 0).String())
		return
	case "ctrl+y":
		a.setDate(entry.RelativeDate(a.now(), -1).String())
		return
	case "[", "]":
		step := 1
		if m.String() == "[" {
			step = -1
		}
		// an empty date steps from today: [ gives yesterday, ] gives today
		d := entry.RelativeDate(a.now(), min(step, 0))
		if cur := a.sess.Draft().Date; cur != nil {
			d = cur.AddDays(step)
		}
		a.setDate(d.String())
		return
	}
	switch m.Type {
	case tea.KeyRunes:
		for _, r := range m.Runes {
			if (r < '0' || r > '9') && r != '-' {
				return
			}
		}
	case tea.KeySpace:
		return
	}
	a.dateBuf = editBuffer(a.dateBuf, m)
	a.sess.SetField(entry.FieldDate, a.dateBuf)
}

func (a *App) setDate(s string) {
	a.dateBuf = s
	a.sess.SetField(entry.FieldDate, s)
}

func (a *App) handleCategoryKey(m tea.KeyMsg) {
	cats := a.sess.Catalog.Categories
	if cats.Len() == 0 {
		return
	}
	switch m.String() {
	case "right", "l", " ", "space":
		a.catCursor = (a.catCursor + 1) % cats.Len()
	case "left", "h":
		if a.catCursor <= 0 {
			a.catCursor = cats.Len() - 1
		} else {
			a.catCursor--
		}
	case "backspace", "delete":
		a.catCursor = -1
		a.sess.Edit(func(e entry.Entry) entry.Entry { return e.Clear(entry.FieldCategory) })
		return
	default:
		return
	}
	it, _ := cats.At(a.catCursor)
	a.sess.SetField(entry.FieldCategory, it.ID)
}

func (a *App) handleTagKey(m tea.KeyMsg) {
	tags := a.sess.Catalog.Tags
	if tags.Len() == 0 {
		return
	}
	switch m.String() {
	case "right", "l":
		if a.tagCursor < tags.Len()-1 {
			a.tagCursor++
		}
	case "left", "h":
		if a.tagCursor > 0 {
			a.tagCursor--
		}
	case " ", "space", "x":
		it, _ := tags.At(a.tagCursor)
		a.sess.ToggleTag(it.ID)
	}
}

func (a *App) handleBatchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.sess.Batch().Items()
	switch m.String() {
	case "up", "k":
		if a.batchCursor > 0 {
			a.batchCursor--
		}
	case "down", "j":
		if a.batchCursor < len(items)-1 {
			a.batchCursor++
		}
	case "d", "x", "backspace", "delete":
		if a.batchCursor < len(items) {
			a.remove(items[a.batchCursor].Key)
		}
	}
	return a, nil
}

func (a *App) remove(k batch.Key) {
	if !a.sess.Remove(k) {
		return
	}
	if a.batchCursor >= a.sess.Batch().Len() && a.batchCursor > 0 {
		a.batchCursor--
	}
	a.setStatus("entry removed", false)
}

func (a *App) applyPreset(i int) {
	presets := a.sess.Catalog.Presets
	if i < 0 || i >= len(presets) {
		return
	}
	e, _ := a.sess.ApplyPreset(presets[i].Name)
	a.catCursor = a.sess.Catalog.Categories.IndexOf(e.CategoryID)
	a.setStatus("preset: "+presets[i].Name, false)
}

func (a *App) submit() {
	missing := a.sess.Draft().Missing()
	if _, ok := a.sess.Submit(); !ok {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		a.setStatus("incomplete: "+strings.Join(names, ", "), true)
		return
	}
	a.resetBuffers()
	a.focus = focusDate
	a.setStatus(fmt.Sprintf("added entry %d", a.sess.Batch().Len()), false)
}

func (a *App) resetBuffers() {
	a.dateBuf, a.amountBuf, a.descBuf = "", "", ""
	a.catCursor = -1
}

// generate commits the text to the view before staging starts.
func (a *App) generate() tea.Cmd {
	a.output = a.sess.Synthesize()
	if a.stager == nil {
		a.setStatus(fmt.Sprintf("generated %d statements", a.sess.Batch().Len()), false)
		return nil
	}
	a.setStatus("generated; copying...", false)
	ctx, text, stager := a.ctx, a.output, a.stager
	return func() tea.Msg {
		return stagedMsg{err: stager.Stage(ctx, text)}
	}
}

func (a *App) setStatus(s string, isErr bool) {
	a.status, a.statusErr = s, isErr
}

// editBuffer applies a typing key to a single-line buffer.
func editBuffer(buf string, m tea.KeyMsg) string {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if r := []rune(buf); len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		return ""
	case tea.KeySpace:
		return buf + " "
	case tea.KeyRunes:
		return buf + string(m.Runes)
	}
	return buf
}

// messages
type stagedMsg struct{ err error }

func (a *App) View() string {
	t := a.theme
	var b strings.Builder

	b.WriteString(t.Title.Render(fmt.Sprintf("Toshl batch - account %s", a.sess.Account())))
	b.WriteString("\n")
	b.WriteString(a.renderPresets())
	b.WriteString("\n\n")

	draft := a.sess.Draft()
	b.WriteString(a.fieldLine(focusDate, a.dateValue(draft), "[ctrl+t] today  [ctrl+y] yesterday  [ / ] day back/forward"))
	b.WriteString(a.fieldLine(focusCategory, a.categoryValue(draft), "[←/→] choose"))
	b.WriteString(a.fieldLine(focusAmount, a.amountBuf, ""))
	b.WriteString(a.fieldLine(focusDescription, a.descBuf, ""))
	b.WriteString(a.fieldLine(focusTags, "", "[←/→] move  [space] toggle"))
	b.WriteString(a.renderTags(draft))
	b.WriteString("\n")
	if missing := draft.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		b.WriteString(t.Warning.Render("missing: "+strings.Join(names, ", ")) + "\n")
	} else {
		b.WriteString(t.Success.Render("ready: [enter] add to batch") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderBatch())

	b.WriteString("\n" + t.Muted.Render("[tab] next field  [enter] add  [ctrl+g] generate  [ctrl+n] clear draft  [esc] quit"))
	if a.status != "" {
		style := t.Success
		if a.statusErr {
			style = t.Error
		}
		b.WriteString("\n" + style.Render(a.status))
	}
	if a.output != "" {
		b.WriteString("\n" + t.Output.Render(a.output))
	}
	return b.String()
}

func (a *App) fieldLine(f focusField, value, hint string) string {
	marker := " "
	label := a.theme.Label.Render(f.title())
	if a.focus == f {
		marker = "▶"
		label = a.theme.Focused.Inherit(a.theme.Label).Render(f.title())
		if f != focusTags && f != focusBatch {
			value += "_"
		}
	}
	line := fmt.Sprintf("%s %s %s", marker, label, value)
	if hint != "" && a.focus == f {
		line += "  " + a.theme.Muted.Render(hint)
	}
	return line + "\n"
}

func (a *App) dateValue(e entry.Entry) string {
	if a.dateBuf != "" && e.Date == nil {
		return a.dateBuf + a.theme.Muted.Render(" (YYYY-MM-DD)")
	}
	return a.dateBuf
}

func (a *App) categoryValue(e entry.Entry) string {
	label, _ := a.sess.Catalog.Categories.LabelOf(e.CategoryID)
	return label
}

func (a *App) renderPresets() string {
	var parts []string
	for i, p := range a.sess.Catalog.Presets {
		if i >= 9 {
			break
		}
		parts = append(parts, fmt.Sprintf("[f%d] %s", i+1, p.Name))
	}
	if len(parts) == 0 {
		return ""
	}
	return a.theme.Muted.Render("Presets: ") + strings.Join(parts, "  ")
}

func (a *App) renderTags(e entry.Entry) string {
	var parts []string
	for i, it := range a.sess.Catalog.Tags.Items() {
		box := "[ ]"
		style := a.theme.Off
		if e.HasTag(it.ID) {
			box = "[x]"
			style = a.theme.On
		}
		cell := style.Render(box + " " + it.Label)
		if a.focus == focusTags && i == a.tagCursor {
			cell = a.theme.Focused.Render("›") + cell
		} else {
			cell = " " + cell
		}
		parts = append(parts, cell)
	}
	return "  " + lipgloss.NewStyle().Width(100).Render(strings.Join(parts, " "))
}

func (a *App) renderBatch() string {
	items := a.sess.Batch().Items()
	out := a.fieldLine(focusBatch, fmt.Sprintf("%d entries", len(items)), "[↑/↓] select  [d] remove")
	cat := a.sess.Catalog
	for i, it := range items {
		e := it.Entry
		marker := "  "
		if a.focus == focusBatch && i == a.batchCursor {
			marker = a.theme.Focused.Render(" ›")
		}
		label, _ := cat.Categories.LabelOf(e.CategoryID)
		tagText := strings.Join(cat.Tags.Labels(e.TagIDs), ", ")
		out += fmt.Sprintf("%s %d. %s  %-18s %10s  %s [%s]\n", marker, i+1, e.Date, label, e.Amount.StringFixed(2), e.Description, tagText)
	}
	return out
}
