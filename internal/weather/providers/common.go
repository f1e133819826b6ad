package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// statusError keeps the HTTP status next to its classification.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return fmt.Sprintf("%v: %d", e.err, e.code) }
func (e *statusError) Unwrap() error { return e.err }

func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return &statusError{code: code, err: errRateLimited}
	case code >= 500:
		return &statusError{code: code, err: errServerError}
	case code < 200 || code >= 300:
		return &statusError{code: code, err: errUnexpected}
	}
	return nil
}

// retryable reports whether another attempt can help. Client errors other than
// 429 and an open circuit are final.
func retryable(err error) bool {
	if errors.Is(err, errCircuitOpen) || errors.Is(err, errUnexpected) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func newCircuitBreaker(name string, logger *zap.SugaredLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// doRequestWithResilience executes the HTTP request with retries, exponential
// backoff and a circuit breaker. Failures are returned as *weather.TransportError.
func doRequestWithResilience(
	ctx context.Context,
	provider string,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	logger *zap.SugaredLogger,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	attempt := func() (*http.Response, error) {
		req, err := buildRequest(ctx)
		if err != nil {
			return nil, retry.Unrecoverable(err)
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if statusErr := classifyStatus(resp.StatusCode); statusErr != nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil, statusErr
			}
			return resp, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
			}
			return nil, err
		}

		resp, ok := result.(*http.Response)
		if !ok {
			return nil, retry.Unrecoverable(fmt.Errorf("unexpected result type from circuit breaker"))
		}
		return resp, nil
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(cfg.Backoff.MaxRetries) + 1),
		retry.Delay(cfg.Backoff.InitialInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debugw("retrying provider request", "provider", provider, "attempt", n+1, "error", err)
		}),
	}
	if cfg.Backoff.MaxInterval > 0 {
		opts = append(opts, retry.MaxDelay(cfg.Backoff.MaxInterval))
	}

	resp, err := retry.DoWithData(attempt, opts...)
	if err != nil {
		te := &weather.TransportError{Provider: provider, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			te.StatusCode = se.code
		}
		return nil, te
	}
	return resp, nil
}
