package extract

import (
	"context"
	"time"

	"github.com/thucvanminh/mywallet/internal/service"
)

// Client defines the interface for extraction providers. One call is one
// blocking round trip; there is no retry, streaming, or cancellation once the
// request has been sent beyond what the context enforces.
type Client interface {
	Extract(ctx context.Context, req service.ExtractionRequest) ([]service.Candidate, error)
}

// Config holds configuration for an extraction client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Endpoint    string // overrides the provider default; required for relay
	Timeout     time.Duration
	Temperature float64
}

// DefaultTimeout bounds the extraction round trip. The upstream service
// offers no cancellation once a request is accepted, so the deadline is
// enforced on our side.
const DefaultTimeout = 45 * time.Second

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
