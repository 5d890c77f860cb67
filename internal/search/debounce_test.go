package search_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travel-bridge/internal/search"
)

type firedQueries struct {
	mu      sync.Mutex
	queries []string
}

func (f *firedQueries) record(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
}

func (f *firedQueries) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestDebouncer_KeystrokesCollapseToOneSearch(t *testing.T) {
	fired := &firedQueries{}
	d := search.NewDebouncer(20*time.Millisecond, 3, fired.record)
	defer d.Stop()

	d.Update("N")
	d.Update("Ne")
	d.Update("New")
	d.Update("New ")
	d.Update("New Y")

	require.Eventually(t, func() bool {
		return len(fired.snapshot()) == 1
	}, time.Second, time.Millisecond)

	// the quiet period has elapsed; nothing further may fire
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"New Y"}, fired.snapshot())
}

func TestDebouncer_ShortQueryNeverFires(t *testing.T) {
	fired := &firedQueries{}
	d := search.NewDebouncer(20*time.Millisecond, 3, fired.record)
	defer d.Stop()

	d.Update("N")
	d.Update("Ne")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
}

func TestDebouncer_ShorteningInputCancelsPending(t *testing.T) {
	fired := &firedQueries{}
	d := search.NewDebouncer(20*time.Millisecond, 3, fired.record)
	defer d.Stop()

	d.Update("New")
	d.Update("Ne") // deleted a character before the quiet period elapsed

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	fired := &firedQueries{}
	d := search.NewDebouncer(20*time.Millisecond, 3, fired.record)

	d.Update("New")
	d.Stop()
	d.Update("York")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
}

func TestDebouncer_TrimsBeforeLengthGate(t *testing.T) {
	fired := &firedQueries{}
	d := search.NewDebouncer(20*time.Millisecond, 3, fired.record)
	defer d.Stop()

	d.Update("  NY  ") // two significant characters
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, fired.snapshot())

	d.Update("  NYC  ")
	require.Eventually(t, func() bool {
		got := fired.snapshot()
		return len(got) == 1 && got[0] == "NYC"
	}, time.Second, time.Millisecond)
}
