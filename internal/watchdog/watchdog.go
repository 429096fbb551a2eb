package watchdog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/pkg/metrics"
	"github.com/dharashakti/backoffice/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultInterval is how often the server is polled
const DefaultInterval = 30 * time.Second

// Reason explains a forced logout to the user
type Reason string

const (
	ReasonLoggedInElsewhere Reason = "logged in elsewhere"
	ReasonBlocked           Reason = "blocked by admin"
)

// RemoteStatus is the server side view of an employee's session
type RemoteStatus struct {
	ActiveSessionID string
	IsBlocked       bool
}

// StatusSource reads the server side session state of one employee
type StatusSource interface {
	SessionStatus(ctx context.Context, employeeID string) (*RemoteStatus, error)
}

// Status is the result of comparing the local session with the server
type Status struct {
	StillValid bool
	Blocked    bool
}

// Reason returns why the session must end. Blocked wins over a mismatch.
func (s Status) Reason() (Reason, bool) {
	switch {
	case s.Blocked:
		return ReasonBlocked, true
	case !s.StillValid:
		return ReasonLoggedInElsewhere, true
	}
	return "", false
}

// CheckStatus compares the local session token with the server's view
func CheckStatus(remote *RemoteStatus, localToken string) Status {
	return Status{
		StillValid: remote.ActiveSessionID != "" && remote.ActiveSessionID == localToken,
		Blocked:    remote.IsBlocked,
	}
}

// Options configures a Watchdog
type Options struct {
	EmployeeID   string
	SessionToken string
	Source       StatusSource
	// Interval defaults to DefaultInterval
	Interval time.Duration
	// OnLogout is invoked at most once, when the session is found dead
	OnLogout func(Reason)
	// Events optionally triggers an immediate check when a session event for
	// EmployeeID arrives. Polling stays authoritative.
	Events  <-chan *notifier.SessionEvent
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Watchdog polls the server and ends the local session when it has been
// evicted or the employee blocked. Errors never end the session.
type Watchdog struct {
	employeeID   string
	sessionToken string
	source       StatusSource
	interval     time.Duration
	onLogout     func(Reason)
	events       <-chan *notifier.SessionEvent
	metrics      *metrics.Metrics
	logger       *zap.Logger

	mu       sync.Mutex
	ended    bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(opts Options) (*Watchdog, error) {
	if opts.Source == nil {
		return nil, errors.New("watchdog: status source is required")
	}
	if opts.EmployeeID == "" || opts.SessionToken == "" {
		return nil, errors.New("watchdog: employee id and session token are required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	onLogout := opts.OnLogout
	if onLogout == nil {
		onLogout = func(Reason) {}
	}

	return &Watchdog{
		employeeID:   opts.EmployeeID,
		sessionToken: opts.SessionToken,
		source:       opts.Source,
		interval:     interval,
		onLogout:     onLogout,
		events:       opts.Events,
		metrics:      opts.Metrics,
		logger:       logger.Named("watchdog").With(zap.String("employee_id", opts.EmployeeID)),
		stopCh:       make(chan struct{}),
	}, nil
}

// Check reads the server state once
func (w *Watchdog) Check(ctx context.Context) (status Status, err error) {
	span := trace.Tracer("watchdog").Start(ctx, "Watchdog.Check").
		WithAttrs(attribute.String("employee.id", w.employeeID))
	defer func() {
		span.Fail(err)
		span.End()
	}()

	remote, err := w.source.SessionStatus(span.Ctx, w.employeeID)
	if err != nil {
		return Status{}, err
	}
	return CheckStatus(remote, w.sessionToken), nil
}

// Run polls until the session is found dead, Stop is called or ctx is done
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	events := w.events
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev == nil || ev.EmployeeID != w.employeeID {
				continue
			}
			w.logger.Debug("session event received", zap.String("kind", string(ev.Kind)))
		}

		if w.poll(ctx) {
			return
		}
	}
}

// Stop ends Run. A check already in flight completes and is ignored.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	w.ended = true
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// poll runs one check and reports whether the watchdog is finished
func (w *Watchdog) poll(ctx context.Context) bool {
	status, err := w.Check(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		w.metrics.WatchdogCheck("error")
		w.logger.Warn("session check failed", zap.Error(err))
		return false
	}

	reason, dead := status.Reason()
	if !dead {
		w.metrics.WatchdogCheck("valid")
		return false
	}
	w.metrics.WatchdogCheck(reasonLabel(reason))
	return w.end(reason)
}

func (w *Watchdog) end(reason Reason) bool {
	w.mu.Lock()
	if w.ended {
		w.mu.Unlock()
		return true
	}
	w.ended = true
	w.mu.Unlock()

	w.logger.Info("forced logout", zap.String("reason", string(reason)))
	w.onLogout(reason)
	w.stopOnce.Do(func() { close(w.stopCh) })
	return true
}

func reasonLabel(r Reason) string {
	if r == ReasonBlocked {
		return "blocked"
	}
	return "evicted"
}
