package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
)

type detectionRepository struct {
	db *gorm.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *gorm.DB) repository.DetectionRepository {
	return &detectionRepository{db: db}
}

func (r *detectionRepository) Create(ctx context.Context, detection *entity.Detection) error {
	return r.db.WithContext(ctx).Create(detection).Error
}

func (r *detectionRepository) List(ctx context.Context, kind entity.CatalogKind, limit, offset int) ([]*entity.Detection, int64, error) {
	var detections []*entity.Detection
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Detection{}).Where("kind = ?", kind).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&detections).Error
	if err != nil {
		return nil, 0, err
	}

	return detections, total, nil
}

type climateRepository struct {
	db *gorm.DB
}

// NewClimateRepository creates a new climate record repository
func NewClimateRepository(db *gorm.DB) repository.ClimateRepository {
	return &climateRepository{db: db}
}

func (r *climateRepository) Create(ctx context.Context, record *entity.ClimateRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *climateRepository) Latest(ctx context.Context, region string) (*entity.ClimateRecord, error) {
	var record entity.ClimateRecord
	err := r.db.WithContext(ctx).
		Where("region = ?", region).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
