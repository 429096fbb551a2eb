package notifier

import (
	"context"
	"sync"

	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"

	"go.uber.org/zap"
)

// MemoryNotifier fans events out to watchers inside one process
type MemoryNotifier struct {
	logger   *zap.Logger
	role     config.NotifierRole
	mu       sync.RWMutex
	watchers map[chan *SessionEvent]struct{}
}

// NewMemoryNotifier creates an in-process notifier
func NewMemoryNotifier(logger *zap.Logger, role config.NotifierRole) *MemoryNotifier {
	return &MemoryNotifier{
		logger:   logger.Named("notifier.memory"),
		role:     role,
		watchers: make(map[chan *SessionEvent]struct{}),
	}
}

// Watch implements Notifier.Watch
func (m *MemoryNotifier) Watch(ctx context.Context) (<-chan *SessionEvent, error) {
	if !m.CanReceive() {
		return nil, cnst.ErrNotReceiver
	}

	ch := make(chan *SessionEvent, 16)
	m.mu.Lock()
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, ch)
		close(ch)
	}()

	return ch, nil
}

// Publish implements Notifier.Publish. A full watcher drops the event.
func (m *MemoryNotifier) Publish(_ context.Context, event *SessionEvent) error {
	if !m.CanSend() {
		return cnst.ErrNotSender
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.watchers {
		select {
		case ch <- event:
		default:
			m.logger.Warn("watcher channel is full, dropping event",
				zap.String("kind", string(event.Kind)),
				zap.String("employee_id", event.EmployeeID))
		}
	}
	return nil
}

// CanReceive returns true if the notifier can receive events
func (m *MemoryNotifier) CanReceive() bool {
	return m.role == config.RoleReceiver || m.role == config.RoleBoth
}

// CanSend returns true if the notifier can send events
func (m *MemoryNotifier) CanSend() bool {
	return m.role == config.RoleSender || m.role == config.RoleBoth
}
