package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, entry *entity.CatalogEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicateEntry
	}
	return err
}

func (r *catalogRepository) GetByID(ctx context.Context, kind entity.CatalogKind, id uuid.UUID) (*entity.CatalogEntry, error) {
	var entry entity.CatalogEntry
	err := r.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&entry, "id = ? AND kind = ?", id, kind).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *catalogRepository) FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.CatalogEntry, error) {
	var entry entity.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("kind = ? AND name_key = ?", kind, entity.NameKey(name)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

type methodRepository struct {
	db *gorm.DB
}

// NewMethodRepository creates a new control method repository
func NewMethodRepository(db *gorm.DB) repository.MethodRepository {
	return &methodRepository{db: db}
}

func (r *methodRepository) Create(ctx context.Context, method *entity.ControlMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *methodRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*entity.ControlMethod, error) {
	var methods []*entity.ControlMethod
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}
