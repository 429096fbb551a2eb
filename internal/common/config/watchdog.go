package config

import (
	"time"

	"github.com/dharashakti/backoffice/pkg/trace"
)

// WatchdogConfig configures the sessionwatch client
type WatchdogConfig struct {
	ServerURL  string         `yaml:"server_url"`
	EmployeeID string         `yaml:"employee_id"`
	Password   string         `yaml:"password"`
	Interval   time.Duration  `yaml:"interval"`
	Timeout    time.Duration  `yaml:"timeout"`
	Logger     LoggerConfig   `yaml:"logger"`
	Notifier   NotifierConfig `yaml:"notifier"`
	Tracing    trace.Config   `yaml:"tracing"`
}

func (c *WatchdogConfig) setDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:5000"
	}
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Notifier.Role == "" {
		c.Notifier.Role = string(RoleReceiver)
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "backoffice-sessionwatch"
	}
}
