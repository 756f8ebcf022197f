package batch

import (
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/toshlbatch/internal/entry"
)

func valid(desc string) entry.Entry {
	return entry.Entry{}.
		SetDate(civil.Date{Year: 2024, Month: time.March, Day: 1}).
		SetCategory("45288150").
		ToggleTag("18323682").
		SetAmount(decimal.NewFromInt(5)).
		SetDescription(desc)
}

func counterKeys() Option {
	n := 0
	return WithKeyFunc(func() string {
		n++
		return fmt.Sprintf("k%d", n)
	})
}

func descriptions(b *Batch) []string {
	var out []string
	for _, e := range b.Entries() {
		out = append(out, e.Description)
	}
	return out
}

func TestAppendGatesOnValidity(t *testing.T) {
	var b Batch
	_, ok := b.Append(entry.Entry{})
	require.False(t, ok)
	_, ok = b.Append(valid("x").Clear(entry.FieldTags))
	require.False(t, ok)
	require.Equal(t, 0, b.Len())

	k, ok := b.Append(valid("a"))
	require.True(t, ok)
	require.NotEmpty(t, k)
	require.Equal(t, 1, b.Len())
}

func TestRemoveAtOutOfRangeIsNoop(t *testing.T) {
	b := New(counterKeys())
	for _, d := range []string{"a", "b", "c"} {
		b.Append(valid(d))
	}
	for _, i := range []int{-1, 3, 100} {
		require.False(t, b.RemoveAt(i))
	}
	require.Equal(t, []string{"a", "b", "c"}, descriptions(b))

	require.True(t, b.RemoveAt(1))
	require.Equal(t, []string{"a", "c"}, descriptions(b))
	require.True(t, b.RemoveAt(1))
	require.True(t, b.RemoveAt(0))
	require.Equal(t, 0, b.Len())
	require.False(t, b.RemoveAt(0))
}

func TestRemoveByKeySurvivesShifts(t *testing.T) {
	b := New(counterKeys())
	var keys []Key
	for _, d := range []string{"a", "b", "c", "d"} {
		k, _ := b.Append(valid(d))
		keys = append(keys, k)
	}
	require.Equal(t, []Key{"k1", "k2", "k3", "k4"}, keys)

	// Two removals captured against the same render.
	require.True(t, b.Remove(keys[1]))
	require.True(t, b.Remove(keys[2]))
	require.Equal(t, []string{"a", "d"}, descriptions(b))
	require.False(t, b.Remove(keys[1]))
	require.Equal(t, 1, b.Index(keys[3]))
}

func TestUUIDKeysAreUnique(t *testing.T) {
	b := New()
	seen := map[Key]struct{}{}
	for i := 0; i < 50; i++ {
		k, ok := b.Append(valid("x"))
		require.True(t, ok)
		_, dup := seen[k]
		require.False(t, dup)
		seen[k] = struct{}{}
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	b := New()
	e := valid("a")
	b.Append(e)
	e.TagIDs[0] = "mutated"

	snap := b.Entries()
	require.Equal(t, []string{"18323682"}, snap[0].TagIDs)
	snap[0].TagIDs[0] = "mutated"
	require.Equal(t, []string{"18323682"}, b.Items()[0].Entry.TagIDs)
}

func TestReset(t *testing.T) {
	b := New()
	b.Append(valid("a"))
	b.Reset()
	require.Equal(t, 0, b.Len())
	require.Empty(t, b.Entries())
}
