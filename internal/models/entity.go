package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity is an admin-defined record type: a named, sluggable collection of
// field definitions. The slug is immutable after creation.
type Entity struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Icon      string    `gorm:"size:64" json:"icon"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Fields  []FieldDefinition `gorm:"foreignKey:EntityID" json:"fields,omitempty"`
	Records []DynamicRecord   `gorm:"foreignKey:EntityID" json:"-"`
}

// FieldDefinition is one admin-defined attribute of an entity. Name is the
// machine key used inside record data documents and never changes after
// creation.
type FieldDefinition struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	EntityID    string         `gorm:"type:char(36);not null;index:idx_entity_field_name,unique" json:"entityId"`
	Name        string         `gorm:"size:255;not null;index:idx_entity_field_name,unique" json:"name"`
	Label       string         `gorm:"size:255;not null" json:"label"`
	Type        string         `gorm:"size:32;not null;default:text" json:"type"`
	Options     datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
	Required    bool           `gorm:"not null;default:false" json:"required"`
	Placeholder string         `gorm:"size:255" json:"placeholder,omitempty"`
	Section     string         `gorm:"size:255" json:"section,omitempty"`
	Order       int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for Entity
func (Entity) TableName() string {
	return "entities"
}

// TableName overrides the table name for FieldDefinition
func (FieldDefinition) TableName() string {
	return "field_definitions"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none is set.
func (f *FieldDefinition) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
