package gateway

import "time"

const (
	// DefaultUpstreamURL is the Joey chat-completion endpoint.
	DefaultUpstreamURL = "https://api.joeyllm.ai/v1/chat/completions"

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps how much of an upstream body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// Config is the gateway configuration.
type Config struct {
	// UpstreamURL is the chat-completion endpoint every conversation is POSTed to.
	UpstreamURL string

	// Timeout is the hard deadline for one upstream call, measured from issuance.
	// Zero means DefaultTimeout.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.UpstreamURL == "" {
		c.UpstreamURL = DefaultUpstreamURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
