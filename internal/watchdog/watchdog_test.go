package watchdog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	status RemoteStatus
	err    error
	calls  int32
	gate   chan struct{}
}

func (f *fakeSource) SessionStatus(ctx context.Context, _ string) (*RemoteStatus, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := f.status
	return &s, nil
}

func (f *fakeSource) set(s RemoteStatus) {
	f.mu.Lock()
	f.status = s
	f.mu.Unlock()
}

type logoutRecorder struct {
	mu      sync.Mutex
	reasons []Reason
	done    chan struct{}
}

func newRecorder() *logoutRecorder {
	return &logoutRecorder{done: make(chan struct{}, 8)}
}

func (r *logoutRecorder) OnLogout(reason Reason) {
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *logoutRecorder) all() []Reason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reason(nil), r.reasons...)
}

func runAsync(ctx context.Context, w *Watchdog) chan struct{} {
	finished := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(finished)
	}()
	return finished
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		name   string
		remote RemoteStatus
		valid  bool
		reason Reason
	}{
		{"same session", RemoteStatus{ActiveSessionID: "tok"}, true, ""},
		{"logged in elsewhere", RemoteStatus{ActiveSessionID: "other"}, false, ReasonLoggedInElsewhere},
		{"logged out", RemoteStatus{}, false, ReasonLoggedInElsewhere},
		{"blocked", RemoteStatus{ActiveSessionID: "tok", IsBlocked: true}, true, ReasonBlocked},
		{"blocked wins", RemoteStatus{ActiveSessionID: "other", IsBlocked: true}, false, ReasonBlocked},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := CheckStatus(&c.remote, "tok")
			assert.Equal(t, c.valid, s.StillValid)
			reason, dead := s.Reason()
			assert.Equal(t, c.reason != "", dead)
			assert.Equal(t, c.reason, reason)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{EmployeeID: "1", SessionToken: "t"})
	assert.Error(t, err)
	_, err = New(Options{Source: &fakeSource{}, SessionToken: "t"})
	assert.Error(t, err)

	w, err := New(Options{Source: &fakeSource{}, EmployeeID: "1", SessionToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, w.interval)
}

func TestRun_FailOpen(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	rec := newRecorder()
	w, err := New(Options{Source: src, EmployeeID: "1", SessionToken: "tok", Interval: 5 * time.Millisecond, OnLogout: rec.OnLogout})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	assert.Greater(t, atomic.LoadInt32(&src.calls), int32(3))
	assert.Empty(t, rec.all())
}

func TestRun_LogoutOnce(t *testing.T) {
	for _, c := range []struct {
		remote RemoteStatus
		want   Reason
	}{
		{RemoteStatus{ActiveSessionID: "newer"}, ReasonLoggedInElsewhere},
		{RemoteStatus{ActiveSessionID: "newer", IsBlocked: true}, ReasonBlocked},
	} {
		src := &fakeSource{status: RemoteStatus{ActiveSessionID: "tok"}}
		rec := newRecorder()
		w, err := New(Options{Source: src, EmployeeID: "1", SessionToken: "tok", Interval: 5 * time.Millisecond, OnLogout: rec.OnLogout})
		require.NoError(t, err)

		finished := runAsync(context.Background(), w)
		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, rec.all(), "valid session keeps running")

		src.set(c.remote)
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("watchdog did not stop after forced logout")
		}
		assert.Equal(t, []Reason{c.want}, rec.all())

		// a late Stop is harmless
		w.Stop()
		assert.Len(t, rec.all(), 1)
	}
}

func TestStop_IgnoresInFlightCheck(t *testing.T) {
	src := &fakeSource{status: RemoteStatus{ActiveSessionID: "other"}, gate: make(chan struct{})}
	rec := newRecorder()
	w, err := New(Options{Source: src, EmployeeID: "1", SessionToken: "tok", Interval: 5 * time.Millisecond, OnLogout: rec.OnLogout})
	require.NoError(t, err)

	finished := runAsync(context.Background(), w)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&src.calls) == 1 }, time.Second, time.Millisecond)

	w.Stop()
	close(src.gate)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop")
	}
	assert.Empty(t, rec.all())
}

func TestRun_ContextCancel(t *testing.T) {
	src := &fakeSource{status: RemoteStatus{ActiveSessionID: "tok"}}
	w, err := New(Options{Source: src, EmployeeID: "1", SessionToken: "tok", Interval: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	finished := runAsync(ctx, w)
	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("watchdog ignored cancellation")
	}
}

func TestRun_PushTriggersCheck(t *testing.T) {
	src := &fakeSource{status: RemoteStatus{ActiveSessionID: "newer"}}
	rec := newRecorder()
	events := make(chan *notifier.SessionEvent, 2)
	w, err := New(Options{
		Source: src, EmployeeID: "1", SessionToken: "tok",
		Interval: time.Hour, OnLogout: rec.OnLogout, Events: events,
	})
	require.NoError(t, err)

	finished := runAsync(context.Background(), w)

	events <- &notifier.SessionEvent{Kind: notifier.EventSessionEvicted, EmployeeID: "2"}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&src.calls), "events for other employees are ignored")

	events <- &notifier.SessionEvent{Kind: notifier.EventSessionEvicted, EmployeeID: "1"}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("push did not trigger a check")
	}
	assert.Equal(t, []Reason{ReasonLoggedInElsewhere}, rec.all())
}
