package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClimateRecord caches upstream weather data for a region
type ClimateRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Region       string    `json:"region" gorm:"type:varchar(255);not null;index"`
	ForecastJSON string    `json:"forecast_json" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (ClimateRecord) TableName() string {
	return "climate_records"
}

// NewClimateRecord creates a new ClimateRecord
func NewClimateRecord(region, forecast string) *ClimateRecord {
	return &ClimateRecord{
		ID:           uuid.New(),
		Region:       region,
		ForecastJSON: forecast,
	}
}
