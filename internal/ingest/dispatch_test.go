package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/gasometer/backfill/internal/costevent"
)

// fakePoster records calls and fails the sessions listed in fail.
type fakePoster struct {
	mu       sync.Mutex
	calls    map[string]int
	fail     map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakePoster(fail ...string) *fakePoster {
	p := &fakePoster{calls: map[string]int{}, fail: map[string]bool{}}
	for _, id := range fail {
		p.fail[id] = true
	}
	return p
}

func (p *fakePoster) PostEvent(_ context.Context, ev costevent.Event) error {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	p.calls[ev.SessionID]++
	p.mu.Unlock()

	if p.fail[ev.SessionID] {
		return errors.New("rejected")
	}
	return nil
}

func makeEvents(n int) []costevent.Event {
	events := make([]costevent.Event, n)
	for i := range events {
		events[i] = sampleEvent(fmt.Sprintf("s-%03d", i))
	}
	return events
}

func TestDispatch_AllSucceed(t *testing.T) {
	p := newFakePoster()
	result := Dispatch(context.Background(), p, makeEvents(40), DispatchOptions{Concurrency: 5})

	assert.Equal(t, 40, result.OK)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.FailedSessions)
	assert.Len(t, p.calls, 40)
}

func TestDispatch_FailuresDoNotStopOthers(t *testing.T) {
	p := newFakePoster("s-003", "s-007", "s-011")
	result := Dispatch(context.Background(), p, makeEvents(20), DispatchOptions{Concurrency: 4})

	assert.Equal(t, 17, result.OK)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 20, result.Total())

	failed := append([]string(nil), result.FailedSessions...)
	sort.Strings(failed)
	assert.Equal(t, []string{"s-003", "s-007", "s-011"}, failed)

	for id, n := range p.calls {
		assert.Equal(t, 1, n, "%s attempted %d times", id, n)
	}
	assert.Len(t, p.calls, 20)
}

func TestDispatch_BoundsConcurrency(t *testing.T) {
	p := newFakePoster()
	p.delay = 10 * time.Millisecond

	Dispatch(context.Background(), p, makeEvents(30), DispatchOptions{Concurrency: 3})

	assert.LessOrEqual(t, p.peak.Load(), int32(3))
	assert.GreaterOrEqual(t, p.peak.Load(), int32(1))
}

func TestDispatch_Progress(t *testing.T) {
	var (
		mu    sync.Mutex
		marks []int
	)
	opts := DispatchOptions{
		Concurrency:   2,
		ProgressEvery: 5,
		OnProgress: func(done, total, ok, failed int) {
			mu.Lock()
			defer mu.Unlock()
			marks = append(marks, done)
			assert.Equal(t, 12, total)
			assert.Equal(t, done, ok+failed)
		},
	}
	Dispatch(context.Background(), newFakePoster("s-000"), makeEvents(12), opts)

	assert.Equal(t, []int{5, 10}, marks)
}

func TestDispatch_Empty(t *testing.T) {
	result := Dispatch(context.Background(), newFakePoster(), nil, DispatchOptions{})
	assert.Equal(t, 0, result.Total())
}

func TestDispatch_AgainstServer(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string]int{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		id := gjson.GetBytes(body, "session_id").String()
		mu.Lock()
		seen[id]++
		mu.Unlock()
		if id == "s-002" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	result := Dispatch(context.Background(), NewClient(srv.URL, "k"), makeEvents(10), DispatchOptions{Concurrency: 15})

	require.Equal(t, 9, result.OK)
	require.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"s-002"}, result.FailedSessions)
	assert.Len(t, seen, 10)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}
