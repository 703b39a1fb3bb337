package diagram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrDisabled is returned when diagram rendering is switched off.
var ErrDisabled = errors.New("diagram: rendering disabled")

// StatusError represents a non-2xx response from the rasterizer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("diagram: rasterizer returned %d %s", e.StatusCode, e.Message)
}

// Outcome labels used when counting renders.
const (
	OutcomeOK          = "ok"
	OutcomeDisabled    = "disabled"
	OutcomeTimeout     = "timeout"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

// Classify maps a Rasterize error onto a short outcome label.
func Classify(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if errors.Is(err, ErrDisabled) {
		return OutcomeDisabled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return OutcomeTimeout
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500:
			return OutcomeUnavailable
		case se.StatusCode >= 400:
			return OutcomeRejected
		}
	}
	return OutcomeUnavailable
}
