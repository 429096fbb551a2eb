package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"go.uber.org/zap"
)

// CompositeNotifier implements Notifier by combining multiple notifiers.
// A watcher may see the same event once per underlying receiver.
type CompositeNotifier struct {
	logger    *zap.Logger
	notifiers []Notifier
	mu        sync.RWMutex
	watchers  map[chan *SessionEvent]struct{}
}

// NewCompositeNotifier creates a new composite notifier. Forwarding from the
// underlying notifiers stops when ctx is done.
func NewCompositeNotifier(ctx context.Context, logger *zap.Logger, notifiers ...Notifier) *CompositeNotifier {
	n := &CompositeNotifier{
		logger:    logger.Named("notifier.composite"),
		notifiers: notifiers,
		watchers:  make(map[chan *SessionEvent]struct{}),
	}

	if n.CanReceive() {
		n.forward(ctx)
	}

	return n
}

func (n *CompositeNotifier) forward(ctx context.Context) {
	for _, notifier := range n.notifiers {
		if !notifier.CanReceive() {
			continue
		}

		ch, err := notifier.Watch(ctx)
		if err != nil {
			n.logger.Error("failed to watch underlying notifier", zap.Error(err))
			continue
		}

		go func(ch <-chan *SessionEvent) {
			for event := range ch {
				n.notifyWatchers(event)
			}
		}(ch)
	}
}

func (n *CompositeNotifier) notifyWatchers(event *SessionEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for watcher := range n.watchers {
		select {
		case watcher <- event:
		default:
			n.logger.Warn("watcher channel is full, dropping event",
				zap.String("kind", string(event.Kind)),
				zap.String("employee_id", event.EmployeeID))
		}
	}
}

// Watch implements Notifier.Watch
func (n *CompositeNotifier) Watch(ctx context.Context) (<-chan *SessionEvent, error) {
	if !n.CanReceive() {
		return nil, cnst.ErrNotReceiver
	}

	ch := make(chan *SessionEvent, 16)
	n.mu.Lock()
	n.watchers[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.watchers, ch)
		close(ch)
	}()

	return ch, nil
}

// Publish implements Notifier.Publish
func (n *CompositeNotifier) Publish(ctx context.Context, event *SessionEvent) error {
	var errs []error
	for _, notifier := range n.notifiers {
		if !notifier.CanSend() {
			continue
		}
		if err := notifier.Publish(ctx, event); err != nil {
			n.logger.Error("failed to publish event", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CanReceive returns true if any underlying notifier can receive events
func (n *CompositeNotifier) CanReceive() bool {
	for _, notifier := range n.notifiers {
		if notifier.CanReceive() {
			return true
		}
	}
	return false
}

// CanSend returns true if any underlying notifier can send events
func (n *CompositeNotifier) CanSend() bool {
	for _, notifier := range n.notifiers {
		if notifier.CanSend() {
			return true
		}
	}
	return false
}
