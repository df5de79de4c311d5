package types

import "time"

// Size constants
const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30

	// BytesPerMB is the divisor used for every MB/s figure reported to sinks.
	BytesPerMB = float64(MB)
)

// Transfer defaults
const (
	DefaultChunkSize           = 8 * KB
	MinChunkSize               = 1 * KB
	MaxChunkSize               = 4 * MB
	DefaultResolveTimeout      = 30 * time.Second
	DefaultSpeedSampleInterval = 500 * time.Millisecond
	DefaultIdleTimeout         = 60 * time.Second
	DefaultButtonID            = "downloadButton"
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// Concurrency limits
const (
	DefaultMaxConcurrent = 2
	MaxConcurrentLimit   = 20
)

// HTTP client tuning
const (
	DefaultMaxIdleConns          = 100
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DialTimeout                  = 10 * time.Second
	KeepAliveDuration            = 30 * time.Second
)

// Channel buffer sizes
const (
	ProgressChannelBuffer = 100
)

// RuntimeConfig carries the user-tunable transfer settings into the engine.
// Zero fields fall back to the package defaults.
type RuntimeConfig struct {
	ResolveTimeout      time.Duration
	ChunkSize           int
	SpeedSampleInterval time.Duration
	IdleTimeout         time.Duration
	UserAgent           string
	ButtonID            string
}

func (r *RuntimeConfig) GetResolveTimeout() time.Duration {
	if r == nil || r.ResolveTimeout <= 0 {
		return DefaultResolveTimeout
	}
	return r.ResolveTimeout
}

// GetChunkSize returns the streaming chunk size clamped to [MinChunkSize, MaxChunkSize].
func (r *RuntimeConfig) GetChunkSize() int {
	if r == nil || r.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	if r.ChunkSize < MinChunkSize {
		return MinChunkSize
	}
	if r.ChunkSize > MaxChunkSize {
		return MaxChunkSize
	}
	return r.ChunkSize
}

func (r *RuntimeConfig) GetSpeedSampleInterval() time.Duration {
	if r == nil || r.SpeedSampleInterval <= 0 {
		return DefaultSpeedSampleInterval
	}
	return r.SpeedSampleInterval
}

func (r *RuntimeConfig) GetIdleTimeout() time.Duration {
	if r == nil || r.IdleTimeout <= 0 {
		return DefaultIdleTimeout
	}
	return r.IdleTimeout
}

func (r *RuntimeConfig) GetUserAgent() string {
	if r == nil || r.UserAgent == "" {
		return DefaultUserAgent
	}
	return r.UserAgent
}

func (r *RuntimeConfig) GetButtonID() string {
	if r == nil || r.ButtonID == "" {
		return DefaultButtonID
	}
	return r.ButtonID
}
