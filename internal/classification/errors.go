package classification

import (
	"errors"
	"fmt"
)

// Reasons a strategy gives up on a request. Any of these lets the dispatcher
// move on to the next strategy.
var (
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNoDetections      = errors.New("no detections")
	ErrNoCandidates      = errors.New("no candidate labels")
	ErrDecode            = errors.New("image decode failed")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrInference         = errors.New("inference failed")
)

var (
	// ErrClassificationFailed is returned when the terminal fallback fails
	ErrClassificationFailed = errors.New("classification failed")
	// ErrEmptyResult is returned when the terminal fallback produces no labels
	ErrEmptyResult = errors.New("classifier returned no labels")
)

// StrategyError is a recoverable failure inside one strategy
type StrategyError struct {
	Strategy string
	Reason   error
	Err      error
}

func (e *StrategyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Strategy, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %v", e.Strategy, e.Reason, e.Err)
}

// Unwrap exposes both the reason sentinel and the underlying cause
func (e *StrategyError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func newStrategyError(strategy string, reason, err error) *StrategyError {
	return &StrategyError{Strategy: strategy, Reason: reason, Err: err}
}

// reasonLabel is the metric label for a failure reason
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNoDetections):
		return "no_detections"
	case errors.Is(err, ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInference):
		return "inference"
	default:
		return "other"
	}
}
