package config

type (
	// NotifierConfig represents the configuration for the session event notifier
	NotifierConfig struct {
		Role  string      `yaml:"role"` // receiver, sender, or both
		Type  string      `yaml:"type"` // memory, redis, composite
		Redis RedisConfig `yaml:"redis"`
	}

	// RedisConfig represents the configuration for Redis-based notifier
	RedisConfig struct {
		ClusterType string `yaml:"cluster_type"` // single, sentinel, cluster
		Addr        string `yaml:"addr"`         // separated by , or ;
		MasterName  string `yaml:"master_name"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		Topic       string `yaml:"topic"`
	}
)

// NotifierRole represents the role of a notifier
type NotifierRole string

const (
	// RoleReceiver represents a notifier that can only receive events
	RoleReceiver NotifierRole = "receiver"
	// RoleSender represents a notifier that can only send events
	RoleSender NotifierRole = "sender"
	// RoleBoth represents a notifier that can both send and receive events
	RoleBoth NotifierRole = "both"
)
