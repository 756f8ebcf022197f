package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/toshlbatch/internal/synth"
)

type recorder struct {
	calls int
	fail  int // fail this many calls first
	err   error
	got   []string
}

func (r *recorder) WriteText(_ context.Context, text string) error {
	r.calls++
	if r.calls <= r.fail {
		return r.err
	}
	r.got = append(r.got, text)
	return nil
}

func (r *recorder) Name() string { return "recorder" }

func fast() StagerOption { return WithInterval(time.Millisecond) }

func TestStageAppendsResetOnce(t *testing.T) {
	rec := &recorder{}
	s := NewStager(rec, zerolog.Nop(), fast())

	require.NoError(t, s.Stage(context.Background(), "stmt;"))
	require.NoError(t, s.Stage(context.Background(), "stmt;"+synth.Reset))
	require.Equal(t, []string{"stmt;" + synth.Reset, "stmt;" + synth.Reset}, rec.got)
}

func TestStageRetriesTransientFailures(t *testing.T) {
	rec := &recorder{fail: 2, err: errors.New("busy")}
	s := NewStager(rec, zerolog.Nop(), fast(), WithRetries(2))
	require.NoError(t, s.Stage(context.Background(), "x"))
	require.Equal(t, 3, rec.calls)
}

func TestStageLogsAndReturnsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	rec := &recorder{fail: 100, err: errors.New("permission denied")}
	s := NewStager(rec, log, fast(), WithRetries(1))

	err := s.Stage(context.Background(), "x")
	require.Error(t, err)
	require.Equal(t, 2, rec.calls)
	require.Contains(t, buf.String(), "failed to copy to clipboard")
	require.Contains(t, buf.String(), "permission denied")
	require.Contains(t, buf.String(), `"backend":"recorder"`)
}

func TestStageDoesNotRetryUnavailable(t *testing.T) {
	rec := &recorder{fail: 100, err: ErrUnavailable}
	s := NewStager(rec, zerolog.Nop(), fast(), WithRetries(5))
	require.ErrorIs(t, s.Stage(context.Background(), "x"), ErrUnavailable)
	require.Equal(t, 1, rec.calls)
}

func TestStageRecoversFromPanickingBackend(t *testing.T) {
	s := NewStager(Func(func(context.Context, string) error { panic("boom") }), zerolog.Nop(), fast())
	require.NotPanics(t, func() {
		require.Error(t, s.Stage(context.Background(), "x"))
	})
}

func TestNilWriterDiscards(t *testing.T) {
	s := NewStager(nil, zerolog.Nop())
	require.Equal(t, "none", s.Backend())
	require.NoError(t, s.Stage(context.Background(), "x"))
}

func TestOSC52WritesEscapeSequence(t *testing.T) {
	var tty bytes.Buffer
	o := &OSC52{Out: &tty}
	require.NoError(t, o.WriteText(context.Background(), "hello"))
	want := base64.StdEncoding.EncodeToString([]byte("hello"))
	require.True(t, strings.HasPrefix(tty.String(), "\x1b]52;c;"))
	require.Contains(t, tty.String(), want)

	require.ErrorIs(t, (&OSC52{}).WriteText(context.Background(), "x"), ErrUnavailable)
}

func TestOpen(t *testing.T) {
	w, err := Open("none", nil)
	require.NoError(t, err)
	require.Equal(t, "none", w.Name())

	w, err = Open("osc52", &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "osc52", w.Name())

	_, err = Open("carrier-pigeon", nil)
	require.Error(t, err)

	t.Setenv("PATH", t.TempDir())
	_, err = Open("command", nil)
	require.ErrorIs(t, err, ErrUnavailable)
	w, err = Open("auto", &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "osc52", w.Name())
}
