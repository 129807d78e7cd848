package pool

import (
	"net/http"

	"go.uber.org/zap"
)

type settings struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures the pool client.
type Option func(*settings)

// WithHTTPClient sets a custom HTTP client for the pool client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithLogger sets a custom logger for the pool client.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func applyOptions(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
