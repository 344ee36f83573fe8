// Package connectivity implements the pre-flight reachability guard for
// remote-dependent operations: one cheap device-level network test, then
// a single bounded round trip to the backend, retried with exponential
// backoff up to a ceiling, after which the caller is handed a
// retry / proceed-offline / cancel decision.
package connectivity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/moodnotes/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// State is the guard's position in Checking -> {Connected, Disconnected}.
type State string

const (
	StateChecking     State = "checking"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// Resolution is the caller's answer to the decision prompt.
type Resolution string

const (
	ResolutionRetry   Resolution = "retry"
	ResolutionOffline Resolution = "proceed_offline"
	ResolutionCancel  Resolution = "cancel"
)

// ProbeFunc performs one reachability round trip. It must return nil
// when the backend answered at all, apperr.ErrTimeout when the bounded
// request timed out, and apperr.ErrUnreachable otherwise.
type ProbeFunc func(ctx context.Context) error

// Options configures a Guard. Zero-value fields fall back to defaults.
type Options struct {
	Probe      ProbeFunc
	NetworkUp  func() bool // device-level check, runs before the probe
	MaxRetries int
	BaseDelay  time.Duration
	// Sleep waits between attempts; injectable for tests. Must honor ctx.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnDecision fires once the retry ceiling is reached, with the last
	// failure reason. The caller answers through Resolve.
	OnDecision func(reason error)
	Logger     *zap.Logger
}

// Guard is the connectivity state machine. Only one check sequence is
// in flight at a time; callers read Allowed before issuing remote calls.
type Guard struct {
	probe      ProbeFunc
	networkUp  func() bool
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	onDecision func(reason error)
	logger     *zap.Logger

	mu            sync.Mutex
	state         State
	retryCount    int
	lastErr       error
	forcedOffline bool
	awaiting      bool
	running       bool
}

// Snapshot is the externally visible guard state.
type Snapshot struct {
	State            State  `json:"state"`
	Checking         bool   `json:"checking"`
	Connected        bool   `json:"connected"`
	RetryCount       int    `json:"retry_count"`
	ForcedOffline    bool   `json:"forced_offline"`
	AwaitingDecision bool   `json:"awaiting_decision"`
	Reason           string `json:"reason,omitempty"`
}

func New(opts Options) *Guard {
	g := &Guard{
		probe:      opts.Probe,
		networkUp:  opts.NetworkUp,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		sleep:      opts.Sleep,
		onDecision: opts.OnDecision,
		logger:     opts.Logger,
		state:      StateDisconnected,
	}
	if g.networkUp == nil {
		g.networkUp = DeviceNetworkUp
	}
	if g.maxRetries == 0 {
		g.maxRetries = 3
	}
	if g.baseDelay == 0 {
		g.baseDelay = 2 * time.Second
	}
	if g.sleep == nil {
		g.sleep = sleepCtx
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Check performs a single reachability check and updates the guard state.
func (g *Guard) Check(ctx context.Context) error {
	g.mu.Lock()
	g.state = StateChecking
	g.mu.Unlock()

	err := g.checkOnce(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateDisconnected
		g.lastErr = err
		return err
	}
	g.state = StateConnected
	g.forcedOffline = false
	g.lastErr = nil
	g.retryCount = 0
	return nil
}

func (g *Guard) checkOnce(ctx context.Context) error {
	if !g.networkUp() {
		return apperr.ErrNoNetwork
	}
	if g.probe == nil {
		return apperr.ErrUnreachable
	}
	return g.probe(ctx)
}

// Run drives checks with exponential backoff until one succeeds or the
// retry ceiling is reached, then surfaces the decision prompt. A second
// Run while one is active is a no-op.
func (g *Guard) Run(ctx context.Context) {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return
	}
	g.running = true
	g.awaiting = false
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.running = false
		g.mu.Unlock()
	}()

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		g.mu.Lock()
		g.retryCount = attempt
		g.mu.Unlock()

		err := g.Check(ctx)
		if err == nil {
			g.logger.Info("backend reachable", zap.Int("attempt", attempt+1))
			return
		}
		g.logger.Warn("connectivity check failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max", g.maxRetries),
			zap.Error(err),
		)

		delay := g.baseDelay << attempt
		if sleepErr := g.sleep(ctx, delay); sleepErr != nil {
			return
		}
	}

	g.mu.Lock()
	g.awaiting = true
	reason := g.lastErr
	cb := g.onDecision
	g.mu.Unlock()
	if cb != nil {
		cb(reason)
	}
}

// Resolve answers a pending decision prompt.
func (g *Guard) Resolve(ctx context.Context, r Resolution) error {
	g.mu.Lock()
	if !g.awaiting {
		g.mu.Unlock()
		return fmt.Errorf("no pending connectivity decision")
	}
	g.awaiting = false

	switch r {
	case ResolutionRetry:
		g.retryCount = 0
		g.mu.Unlock()
		g.Run(ctx)
		return nil
	case ResolutionOffline:
		// Synthetic connected state: no probe is issued, downstream
		// calls may still fail on their own.
		g.state = StateConnected
		g.forcedOffline = true
		g.mu.Unlock()
		return nil
	case ResolutionCancel:
		g.state = StateDisconnected
		g.mu.Unlock()
		return nil
	default:
		g.awaiting = true
		g.mu.Unlock()
		return fmt.Errorf("unknown resolution %q", r)
	}
}

// Allowed reports whether remote-dependent operations may proceed.
func (g *Guard) Allowed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateConnected
}

// Reason returns the error remote operations should fail with while the
// guard is not in a connected state.
func (g *Guard) Reason() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateConnected {
		return nil
	}
	if g.lastErr != nil {
		return g.lastErr
	}
	return apperr.ErrOffline
}

// Status returns the externally visible guard state.
func (g *Guard) Status() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		State:            g.state,
		Checking:         g.state == StateChecking,
		Connected:        g.state == StateConnected,
		RetryCount:       g.retryCount,
		ForcedOffline:    g.forcedOffline,
		AwaitingDecision: g.awaiting,
	}
	if g.lastErr != nil && g.state != StateConnected {
		s.Reason = g.lastErr.Error()
	}
	return s
}

// HTTPProbe returns a ProbeFunc that issues one GET with the given
// timeout. Any structurally valid HTTP response proves reachability,
// independent of status code; a 400 from bad credentials still means
// the backend is up.
func HTTPProbe(url string, timeout time.Duration, logger *zap.Logger) ProbeFunc {
	client := &http.Client{Timeout: timeout}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%w: %s", apperr.ErrUnreachable, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			logger.Debug("probe failed", zap.String("url", url), zap.Error(err))
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return apperr.ErrTimeout
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return apperr.ErrTimeout
			}
			return fmt.Errorf("%w: %s", apperr.ErrUnreachable, err)
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
		_ = resp.Body.Close()
		return nil
	}
}

// DeviceNetworkUp reports whether any non-loopback interface carries an
// address. It is the cheap local test that runs before the probe.
func DeviceNetworkUp() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
