package constants

import "time"

const (
	MaxBoardNameLength    = 128
	MaxChatEntryLength    = 4000
	DefaultMaxRequestSize = 1 << 20

	WebSocketWriteWait   = 10 * time.Second
	WebSocketPongWait    = 60 * time.Second
	WebSocketPingPeriod  = 54 * time.Second
	WebSocketMaxMsgSize  = 4 << 20
	WebSocketSendBufSize = 256
	WebSocketAuthTimeout = 10 * time.Second

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second
)

type ContextKey string

const TraceIDKey ContextKey = "trace_id"
