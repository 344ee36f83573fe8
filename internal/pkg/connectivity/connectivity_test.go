package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/moodnotes/core/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeScript returns a probe that replays the given errors, then nil.
type probeScript struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (p *probeScript) probe(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	p.calls++
	if i < len(p.errs) {
		return p.errs[i]
	}
	return nil
}

func (p *probeScript) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func alwaysUp() bool { return true }

func TestRunSucceedsFirstAttempt(t *testing.T) {
	p := &probeScript{}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp})

	g.Run(context.Background())

	assert.True(t, g.Allowed())
	assert.Equal(t, 1, p.callCount())
	assert.NoError(t, g.Reason())
}

func TestRunBacksOffThenPromptsDecision(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	rec := &sleepRecorder{}
	var decisionReason error
	g := New(Options{
		Probe:      p.probe,
		NetworkUp:  alwaysUp,
		Sleep:      rec.sleep,
		OnDecision: func(reason error) { decisionReason = reason },
	})

	g.Run(context.Background())

	assert.Equal(t, 3, p.callCount(), "exactly three probes before the prompt")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, rec.delays)
	assert.ErrorIs(t, decisionReason, apperr.ErrUnreachable)
	assert.False(t, g.Allowed())

	status := g.Status()
	assert.True(t, status.AwaitingDecision)
	assert.Equal(t, StateDisconnected, status.State)
}

func TestRunRecoversMidSequence(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrTimeout, apperr.ErrTimeout}}
	rec := &sleepRecorder{}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: rec.sleep})

	g.Run(context.Background())

	assert.True(t, g.Allowed())
	assert.Equal(t, 3, p.callCount())
	assert.Len(t, rec.delays, 2)
	assert.False(t, g.Status().AwaitingDecision)
}

func TestResolveProceedOfflineSkipsProbe(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	rec := &sleepRecorder{}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: rec.sleep})

	g.Run(context.Background())
	probesBefore := p.callCount()

	require.NoError(t, g.Resolve(context.Background(), ResolutionOffline))

	assert.Equal(t, probesBefore, p.callCount(), "proceed offline must not probe")
	assert.True(t, g.Allowed())
	status := g.Status()
	assert.True(t, status.ForcedOffline)
	assert.Equal(t, StateConnected, status.State)
}

func TestResolveRetryRunsAgain(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	rec := &sleepRecorder{}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: rec.sleep})

	g.Run(context.Background())
	require.False(t, g.Allowed())

	// The script is exhausted, so the retry's first probe succeeds.
	require.NoError(t, g.Resolve(context.Background(), ResolutionRetry))

	assert.True(t, g.Allowed())
	assert.Equal(t, 4, p.callCount())
	assert.False(t, g.Status().ForcedOffline)
}

func TestResolveCancelStaysDisconnected(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: (&sleepRecorder{}).sleep})

	g.Run(context.Background())
	require.NoError(t, g.Resolve(context.Background(), ResolutionCancel))

	assert.False(t, g.Allowed())
	assert.ErrorIs(t, g.Reason(), apperr.ErrUnreachable)
}

func TestResolveWithoutPromptFails(t *testing.T) {
	g := New(Options{Probe: (&probeScript{}).probe, NetworkUp: alwaysUp})
	assert.Error(t, g.Resolve(context.Background(), ResolutionRetry))
}

func TestResolveUnknownResolutionKeepsPrompt(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: (&sleepRecorder{}).sleep})

	g.Run(context.Background())
	require.Error(t, g.Resolve(context.Background(), Resolution("shrug")))

	assert.True(t, g.Status().AwaitingDecision)
	require.NoError(t, g.Resolve(context.Background(), ResolutionCancel))
}

func TestDeviceNetworkDownShortCircuits(t *testing.T) {
	p := &probeScript{}
	g := New(Options{Probe: p.probe, NetworkUp: func() bool { return false }})

	err := g.Check(context.Background())

	assert.ErrorIs(t, err, apperr.ErrNoNetwork)
	assert.Equal(t, 0, p.callCount(), "probe must not run when the device is offline")
	assert.ErrorIs(t, g.Reason(), apperr.ErrNoNetwork)
}

func TestSuccessfulCheckClearsForcedOffline(t *testing.T) {
	p := &probeScript{errs: []error{apperr.ErrUnreachable, apperr.ErrUnreachable, apperr.ErrUnreachable}}
	g := New(Options{Probe: p.probe, NetworkUp: alwaysUp, Sleep: (&sleepRecorder{}).sleep})

	g.Run(context.Background())
	require.NoError(t, g.Resolve(context.Background(), ResolutionOffline))
	require.True(t, g.Status().ForcedOffline)

	require.NoError(t, g.Check(context.Background()))
	assert.False(t, g.Status().ForcedOffline)
}

func TestHTTPProbeAnyStatusIsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	probe := HTTPProbe(srv.URL, time.Second, nil)
	assert.NoError(t, probe(context.Background()), "a 400 still proves the backend is up")
}

func TestHTTPProbeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	probe := HTTPProbe(url, time.Second, nil)
	assert.ErrorIs(t, probe(context.Background()), apperr.ErrUnreachable)
}

func TestHTTPProbeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	probe := HTTPProbe(srv.URL, 50*time.Millisecond, nil)
	assert.ErrorIs(t, probe(context.Background()), apperr.ErrTimeout)
}
