package cnst

import "errors"

var (
	// ErrNotReceiver is returned when Watch is called on a send-only notifier
	ErrNotReceiver = errors.New("notifier cannot receive events")
	// ErrNotSender is returned when Publish is called on a receive-only notifier
	ErrNotSender = errors.New("notifier cannot send events")
)
