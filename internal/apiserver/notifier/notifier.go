package notifier

import (
	"context"
	"time"
)

// EventKind names a change to an employee's session or account
type EventKind string

const (
	EventSessionEvicted   EventKind = "session.evicted"
	EventSessionLogout    EventKind = "session.logout"
	EventAccountBlocked   EventKind = "account.blocked"
	EventAccountUnblocked EventKind = "account.unblocked"
	EventPasswordReset    EventKind = "password.reset"
)

// SessionEvent is published after the change is committed
type SessionEvent struct {
	Kind       EventKind `json:"kind"`
	EmployeeID string    `json:"employeeId"`
	SessionID  string    `json:"sessionId,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

// ForcesLogout reports whether a watcher of the employee should re-check
// its session right away.
func (e *SessionEvent) ForcesLogout() bool {
	switch e.Kind {
	case EventSessionEvicted, EventAccountBlocked, EventPasswordReset:
		return true
	default:
		return false
	}
}

// Notifier defines the interface for session event notification
type Notifier interface {
	// Watch returns a channel that receives events until ctx is done
	Watch(ctx context.Context) (<-chan *SessionEvent, error)

	// Publish sends an event to every watcher
	Publish(ctx context.Context, event *SessionEvent) error

	// CanReceive returns true if the notifier can receive events
	CanReceive() bool

	// CanSend returns true if the notifier can send events
	CanSend() bool
}
