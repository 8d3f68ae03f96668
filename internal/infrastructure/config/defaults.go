package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCacheTTL        = 5 * time.Minute
	DefaultRefreshInterval = 15 * time.Minute
	DefaultTaskQueueSize   = 64
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
)
