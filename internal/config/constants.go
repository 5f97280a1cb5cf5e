package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 1 * time.Hour

// Login session lifetime
const SessionTTL = 30 * 24 * time.Hour

// Login throttling
const (
	LoginMaxAttempts        = 5
	LoginAttemptWindow      = time.Minute
	LoginLimiterSweepPeriod = 5 * time.Minute
)

// Request body cap
const MaxRequestBodyBytes = int64(1 << 20) // 1MB
