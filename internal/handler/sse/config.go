// Package sse writes Server-Sent Events streams.
package sse

import "time"

// Config holds configuration for SSE connections
type Config struct {
	// KeepAliveInterval is how often a comment line is sent on an idle stream
	// so proxies do not close it.
	KeepAliveInterval time.Duration

	// Retry is the reconnection delay advertised to EventSource clients
	Retry time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
		Retry:             3 * time.Second,
	}
}
