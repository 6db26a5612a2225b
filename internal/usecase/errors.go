package usecase

import "errors"

// Error definitions shared by the agri usecases
var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUpstream       = errors.New("upstream provider error")
	ErrStorage        = errors.New("failed to store upload")
	ErrClassification = errors.New("classification failed")
)

// ListOutput represents a paginated list
type ListOutput[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

const timeLayout = "2006-01-02T15:04:05Z"
