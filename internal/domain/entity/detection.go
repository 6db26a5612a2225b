package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Detection records one classified upload and the catalog entry it resolved to
type Detection struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	Kind       CatalogKind `json:"kind" gorm:"type:varchar(20);not null;index"`
	EntryID    uuid.UUID   `json:"entry_id" gorm:"type:uuid;not null;index"`
	Label      string      `json:"label" gorm:"type:varchar(255);not null"`
	Confidence float64     `json:"confidence" gorm:"type:decimal(7,6)"`
	ImageURL   string      `json:"image_url" gorm:"type:text;not null"`
	RawResult  string      `json:"raw_result" gorm:"type:text"`
	Strategy   string      `json:"strategy" gorm:"type:varchar(50)"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (Detection) TableName() string {
	return "detections"
}

// NewDetection creates a new Detection. raw is stored as JSON text.
func NewDetection(kind CatalogKind, entryID uuid.UUID, label string, confidence float64, imageURL, strategy string, raw any) (*Detection, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return &Detection{
		ID:         uuid.New(),
		Kind:       kind,
		EntryID:    entryID,
		Label:      label,
		Confidence: confidence,
		ImageURL:   imageURL,
		RawResult:  string(encoded),
		Strategy:   strategy,
	}, nil
}
