package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
)

// ErrDuplicateEntry is returned when an entry with the same kind and name exists
var ErrDuplicateEntry = errors.New("catalog entry already exists")

// CatalogRepository defines the interface for catalog entry data operations
type CatalogRepository interface {
	// Create creates a new entry together with any attached methods
	Create(ctx context.Context, entry *entity.CatalogEntry) error

	// GetByID retrieves an entry with its methods. Returns nil when missing.
	GetByID(ctx context.Context, kind entity.CatalogKind, id uuid.UUID) (*entity.CatalogEntry, error)

	// FindByName matches the name case-insensitively. Returns nil when missing.
	FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.CatalogEntry, error)
}

// MethodRepository defines the interface for control method data operations
type MethodRepository interface {
	// Create creates a new method
	Create(ctx context.Context, method *entity.ControlMethod) error

	// ListByEntry retrieves all methods for an entry
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*entity.ControlMethod, error)
}

// DetectionRepository defines the interface for detection data operations
type DetectionRepository interface {
	// Create creates a new detection
	Create(ctx context.Context, detection *entity.Detection) error

	// List retrieves detections of a kind with pagination, newest first
	List(ctx context.Context, kind entity.CatalogKind, limit, offset int) ([]*entity.Detection, int64, error)
}

// ClimateRepository defines the interface for climate record data operations
type ClimateRepository interface {
	// Create creates a new record
	Create(ctx context.Context, record *entity.ClimateRecord) error

	// Latest retrieves the most recent record for a region. Returns nil when missing.
	Latest(ctx context.Context, region string) (*entity.ClimateRecord, error)
}
