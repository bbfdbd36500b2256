package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DynamicRecord is one instance of an entity. Data is an open key/value
// document; keys are expected to be a subset of the owning entity's field
// names but the store does not enforce that at write time. Keys left behind
// by deleted fields stay in the document.
type DynamicRecord struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	EntityID    string    `gorm:"type:char(36);not null;index" json:"entityId"`
	Data        JSON      `gorm:"type:json" json:"data"`
	CreatedByID *string   `gorm:"type:char(36)" json:"createdById,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Tasks []RecordTask `gorm:"foreignKey:RecordID" json:"tasks,omitempty"`
	Calls []CallLog    `gorm:"foreignKey:RecordID" json:"calls,omitempty"`
}

// RecordTask is a checklist item attached to a dynamic record. Order is an
// insertion-order integer assigned as max+1 on create.
type RecordTask struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	RecordID    string    `gorm:"type:char(36);not null;index" json:"recordId"`
	Title       string    `gorm:"size:512;not null" json:"title"`
	Done        bool      `gorm:"not null;default:false" json:"done"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedByID *string   `gorm:"type:char(36)" json:"createdById,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CallLog is an append-only call entry. RecordID is nil for entries pushed by
// a dialer before anyone attached them to a record. Entries are only created,
// linked and deleted, never edited.
type CallLog struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	RecordID    *string   `gorm:"type:char(36);index" json:"recordId,omitempty"`
	PhoneNumber string    `gorm:"size:64;not null" json:"phoneNumber"`
	Direction   string    `gorm:"size:16;not null;default:outgoing" json:"direction"`
	Duration    *int      `json:"duration,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID *string   `gorm:"type:char(36)" json:"createdById,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName overrides the table name for DynamicRecord
func (DynamicRecord) TableName() string {
	return "dynamic_records"
}

// TableName overrides the table name for RecordTask
func (RecordTask) TableName() string {
	return "record_tasks"
}

// TableName overrides the table name for CallLog
func (CallLog) TableName() string {
	return "call_logs"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (r *DynamicRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *RecordTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none is set.
func (cl *CallLog) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	return nil
}
