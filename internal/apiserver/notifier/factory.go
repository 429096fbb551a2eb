package notifier

import (
	"context"
	"fmt"

	"github.com/dharashakti/backoffice/internal/common/config"

	"go.uber.org/zap"
)

// Type represents the type of notifier
type Type string

const (
	// TypeMemory keeps events inside the process
	TypeMemory Type = "memory"
	// TypeRedis represents Redis-based notifier
	TypeRedis Type = "redis"
	// TypeComposite combines memory and, when configured, Redis
	TypeComposite Type = "composite"
)

// NewNotifier creates a new notifier based on the configuration
func NewNotifier(ctx context.Context, logger *zap.Logger, cfg *config.NotifierConfig) (Notifier, error) {
	role := config.NotifierRole(cfg.Role)
	if role == "" {
		role = config.RoleBoth
	}

	switch Type(cfg.Type) {
	case TypeMemory, "":
		return NewMemoryNotifier(logger, role), nil
	case TypeRedis:
		return NewRedisNotifier(logger, &cfg.Redis, role)
	case TypeComposite:
		notifiers := []Notifier{NewMemoryNotifier(logger, role)}
		if cfg.Redis.Addr != "" {
			redisNotifier, err := NewRedisNotifier(logger, &cfg.Redis, role)
			if err != nil {
				return nil, err
			}
			notifiers = append(notifiers, redisNotifier)
		}
		return NewCompositeNotifier(ctx, logger, notifiers...), nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
