package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries is returned when the provider sends zero hourly entries.
	ErrEmptySeries = errors.New("provider returned no hourly entries")

	// ErrMisalignedSeries is returned when a parameter series and the
	// timestamps differ in length.
	ErrMisalignedSeries = errors.New("hourly series are not index-aligned")

	// ErrUnknownLocation is returned for a key outside the preset table.
	ErrUnknownLocation = errors.New("unknown location")
)

// TransportError reports an unreachable provider or a non-success status.
type TransportError struct {
	Provider   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
