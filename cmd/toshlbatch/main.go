package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jask/toshlbatch/internal/batchfile"
	"github.com/jask/toshlbatch/internal/clipboard"
	"github.com/jask/toshlbatch/internal/config"
	"github.com/jask/toshlbatch/internal/lexicon"
	"github.com/jask/toshlbatch/internal/logger"
	"github.com/jask/toshlbatch/internal/session"
	"github.com/jask/toshlbatch/internal/synth"
	"github.com/jask/toshlbatch/internal/tui"
)

// globals holds options shared by every command.
type globals struct {
	Config   string `help:"Path to a TOML config file."`
	Account  string `help:"Toshl account id, overrides the config."`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)."`
}

var cli struct {
	Globals globals `embed:""`

	Form    formCmd    `cmd:"" help:"Fill in entries interactively."`
	Emit    emitCmd    `cmd:"" help:"Read a YAML batch and print the script."`
	Lexicon lexiconCmd `cmd:"" help:"List categories, tags and presets."`
}

// env is everything a command needs after config is read.
type env struct {
	cfg     config.Config
	catalog *lexicon.Catalog
	synth   *synth.Synthesizer
}

func (g *globals) load() (env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return env{}, err
	}
	if g.Account != "" {
		cfg.Account = g.Account
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	cat := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		if cat, err = lexicon.LoadFile(cfg.Lexicon.Path); err != nil {
			return env{}, err
		}
	}
	return env{
		cfg:     cfg,
		catalog: cat,
		synth:   synth.New(synth.WithEndpoint(cfg.Endpoint), synth.WithCurrency(cfg.Currency.Code)),
	}, nil
}

type formCmd struct{}

func (c *formCmd) Run(g *globals) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	log, closer, err := logger.NewFile(e.cfg.Log.Path, e.cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: logging disabled: %v\n", err)
	} else {
		defer closer.Close()
	}
	if e.cfg.Account == "" {
		log.Warn().Msg("no account configured; statements will carry an empty account")
	}

	w, err := clipboard.Open(e.cfg.Clipboard.Backend, os.Stderr)
	if err != nil {
		return err
	}
	stager := clipboard.NewStager(w, log)
	log.Info().Str("clipboard", stager.Backend()).Str("account", e.cfg.Account).Msg("form started")

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background(), log), os.Interrupt)
	defer stop()

	sess := session.New(e.catalog, e.synth, nil, e.cfg.Account, log)
	app := tui.New(ctx, sess, tui.ResolveTheme(e.cfg.UI.Theme), tui.WithStager(stager))
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	// leave the last script on screen after the alt screen closes
	if sess.Batch().Len() > 0 {
		fmt.Println(strings.TrimSpace(sess.Synthesize()))
	}
	return nil
}

type emitCmd struct {
	Input string `arg:"" optional:"" help:"Batch file, - or empty for stdin."`
	Copy  bool   `help:"Also copy the script to the clipboard."`
}

func (c *emitCmd) Run(g *globals) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, e.cfg.Log.Level)

	var r io.Reader = os.Stdin
	if c.Input != "" && c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return fmt.Errorf("open batch: %w", err)
		}
		defer f.Close()
		r = f
	}
	doc, err := batchfile.Decode(r)
	if err != nil {
		return err
	}

	account := e.cfg.Account
	if g.Account == "" && doc.Account != "" {
		account = doc.Account
	}

	var stager session.Stager
	if c.Copy {
		w, err := clipboard.Open(e.cfg.Clipboard.Backend, os.Stderr)
		if err != nil {
			return err
		}
		stager = clipboard.NewStager(w, log)
	}

	sess := session.New(e.catalog, e.synth, stager, account, log)
	n, warnings := batchfile.Load(sess, doc)
	for _, w := range warnings {
		log.Warn().Int("entry", w.Index+1).Err(w.Err).Msg("batch input")
	}
	log.Info().Int("entries", n).Int("skipped", len(doc.Entries)-n).Msg("batch loaded")

	res := sess.Generate(logger.WithContext(context.Background(), log))
	fmt.Println(res.Text)
	if c.Copy && res.Staged {
		log.Info().Msg("copied to clipboard")
	}
	return nil
}

type lexiconCmd struct{}

func (c *lexiconCmd) Run(g *globals) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	fmt.Println(renderLexicon(e.catalog))
	return nil
}

func renderLexicon(cat *lexicon.Catalog) string {
	header := lipgloss.NewStyle().Bold(true)
	items := func(title string, l *lexicon.Lexicon) string {
		t := table.New().Border(lipgloss.NormalBorder()).Headers("Label", "ID")
		for _, it := range l.Items() {
			t.Row(it.Label, it.ID)
		}
		return header.Render(title) + "\n" + t.String()
	}

	presets := table.New().Border(lipgloss.NormalBorder()).Headers("Name", "Category", "Tags")
	for _, p := range cat.Presets {
		label, _ := cat.Categories.LabelOf(p.CategoryID)
		presets.Row(p.Name, label, strings.Join(cat.Tags.Labels(p.TagIDs), ", "))
	}

	return strings.Join([]string{
		items("Categories", cat.Categories),
		items("Tags", cat.Tags),
		header.Render("Presets") + "\n" + presets.String(),
	}, "\n\n")
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("toshlbatch"),
		kong.Description("Build a batch of Toshl expense entries and turn it into a browser console script."),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
