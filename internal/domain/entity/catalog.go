package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CatalogKind separates pest and disease catalog entries
type CatalogKind string

const (
	CatalogKindPest    CatalogKind = "pest"
	CatalogKindDisease CatalogKind = "disease"
)

// CatalogEntry is a known pest or disease with its generated description
type CatalogEntry struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	Kind        CatalogKind `json:"kind" gorm:"type:varchar(20);not null;uniqueIndex:idx_catalog_kind_name"`
	Name        string      `json:"name" gorm:"type:varchar(255);not null"`
	NameKey     string      `json:"-" gorm:"type:varchar(255);not null;uniqueIndex:idx_catalog_kind_name"`
	Description string      `json:"description" gorm:"type:text"`
	ImageURL    string      `json:"image_url" gorm:"type:text"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	Methods []ControlMethod `json:"methods,omitempty" gorm:"foreignKey:EntryID"`
}

// TableName returns the table name for GORM
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// NameKey normalizes a label for case-insensitive exact matching
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewCatalogEntry creates a new CatalogEntry
func NewCatalogEntry(kind CatalogKind, name, description, imageURL string) *CatalogEntry {
	return &CatalogEntry{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        strings.TrimSpace(name),
		NameKey:     NameKey(name),
		Description: description,
		ImageURL:    imageURL,
	}
}

// MethodTypeGeneral is the method type used for generated control advice
const MethodTypeGeneral = "general"

// ControlMethod is a preventive or corrective method attached to a catalog entry
type ControlMethod struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	EntryID     uuid.UUID `json:"entry_id" gorm:"type:uuid;not null;index"`
	MethodType  string    `json:"type" gorm:"type:varchar(50);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (ControlMethod) TableName() string {
	return "control_methods"
}

// NewControlMethod creates a new ControlMethod
func NewControlMethod(entryID uuid.UUID, methodType, description string) *ControlMethod {
	return &ControlMethod{
		ID:          uuid.New(),
		EntryID:     entryID,
		MethodType:  methodType,
		Description: description,
	}
}
