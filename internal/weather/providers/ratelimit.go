package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// RateLimitedProvider wraps a weather.Provider with client-side rate limiting.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider allows rps requests per second with the given burst.
func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// Fetch waits for the limiter, then forwards to the wrapped provider.
func (r *RateLimitedProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		// Wait fails only when ctx is done or its deadline comes before the next token.
		if ctx.Err() == nil {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return weather.Snapshot{}, &weather.TransportError{
			Provider: r.provider.Name(),
			Err:      fmt.Errorf("rate limit wait: %w", err),
		}
	}
	return r.provider.Fetch(ctx, loc)
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ weather.Provider = (*RateLimitedProvider)(nil)
