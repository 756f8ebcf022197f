// Package clipboard copies generated scripts to the system clipboard on a
// best-effort basis.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jask/toshlbatch/internal/synth"
)

// ErrUnavailable means no clipboard backend could be found.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer is a write-only text sink.
type Writer interface {
	WriteText(ctx context.Context, text string) error
	Name() string
}

// Func adapts a function to Writer.
type Func func(ctx context.Context, text string) error

func (f Func) WriteText(ctx context.Context, text string) error { return f(ctx, text) }

func (Func) Name() string { return "func" }

// Discard accepts and drops everything.
type Discard struct{}

func (Discard) WriteText(context.Context, string) error { return nil }

func (Discard) Name() string { return "none" }

// Command pipes text into a platform copy tool.
type Command struct {
	Path string
	Args []string
}

// candidates in preference order per platform.
func candidates() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"clip.exe"}}
	}
	list := [][]string{}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		list = append(list, []string{"wl-copy"})
	}
	list = append(list,
		[]string{"xclip", "-selection", "clipboard"},
		[]string{"xsel", "--clipboard", "--input"},
		[]string{"clip.exe"}, // WSL
	)
	return list
}

// FindCommand returns the first copy tool on PATH.
func FindCommand() (*Command, error) {
	for _, c := range candidates() {
		if p, err := exec.LookPath(c[0]); err == nil {
			return &Command{Path: p, Args: c[1:]}, nil
		}
	}
	return nil, ErrUnavailable
}

func (c *Command) WriteText(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.Name(), err, msg)
		}
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	return nil
}

func (c *Command) Name() string {
	return strings.TrimSuffix(filepath.Base(c.Path), ".exe")
}

// OSC52 asks the terminal emulator to set the clipboard. It works over SSH but
// the terminal gives no acknowledgement, so success only means the escape
// sequence was written.
type OSC52 struct {
	Out io.Writer
	// Tmux and Screen wrap the sequence for those multiplexers.
	Tmux, Screen bool
}

// NewOSC52 writes to out and detects multiplexers from the environment.
func NewOSC52(out io.Writer) *OSC52 {
	term := os.Getenv("TERM")
	return &OSC52{
		Out:    out,
		Tmux:   os.Getenv("TMUX") != "",
		Screen: strings.HasPrefix(term, "screen") && os.Getenv("TMUX") == "",
	}
}

func (o *OSC52) WriteText(_ context.Context, text string) error {
	if o.Out == nil {
		return ErrUnavailable
	}
	seq := osc52.New(text)
	switch {
	case o.Tmux:
		seq = seq.Tmux()
	case o.Screen:
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

func (o *OSC52) Name() string { return "osc52" }

// Open picks a backend by name: auto, command, osc52 or none. auto prefers a
// copy tool and falls back to OSC52 on tty.
func Open(name string, tty io.Writer) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if c, err := FindCommand(); err == nil {
			return c, nil
		}
		return NewOSC52(tty), nil
	case "command":
		c, err := FindCommand()
		if err != nil {
			return nil, err
		}
		return c, nil
	case "osc52":
		return NewOSC52(tty), nil
	case "none", "off":
		return Discard{}, nil
	}
	return nil, fmt.Errorf("unknown clipboard backend %q", name)
}

// Stager places generated text on the clipboard. Failures are logged and
// returned but never panic.
type Stager struct {
	w        Writer
	log      zerolog.Logger
	retries  uint64
	interval time.Duration
}

type StagerOption func(*Stager)

// WithRetries sets how many extra attempts follow a failed write.
func WithRetries(n uint64) StagerOption {
	return func(s *Stager) { s.retries = n }
}

func WithInterval(d time.Duration) StagerOption {
	return func(s *Stager) { s.interval = d }
}

func NewStager(w Writer, log zerolog.Logger, opts ...StagerOption) *Stager {
	if w == nil {
		w = Discard{}
	}
	s := &Stager{w: w, log: log, retries: 2, interval: 100 * time.Millisecond}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Backend names the underlying writer.
func (s *Stager) Backend() string { return s.w.Name() }

// Stage copies text, appending the reset statement when it is not already the
// suffix.
func (s *Stager) Stage(ctx context.Context, text string) error {
	if !strings.HasSuffix(text, synth.Reset) {
		text += synth.Reset
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.interval
	eb.MaxElapsedTime = 5 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, s.retries), ctx)

	err := backoff.Retry(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = backoff.Permanent(fmt.Errorf("%s: panic: %v", s.w.Name(), r))
			}
		}()
		err = s.w.WriteText(ctx, text)
		if errors.Is(err, ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		s.log.Warn().Err(err).Str("backend", s.w.Name()).Msg("failed to copy to clipboard")
		return err
	}
	s.log.Debug().Str("backend", s.w.Name()).Int("bytes", len(text)).Msg("copied to clipboard")
	return nil
}
