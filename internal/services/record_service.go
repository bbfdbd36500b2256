package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordList bundles an entity descriptor with its records so clients can
// render rows without a second round trip.
type RecordList struct {
	Entity  *models.Entity         `json:"entity"`
	Records []models.DynamicRecord `json:"records"`
}

// RecordDetail bundles an entity descriptor with one record.
type RecordDetail struct {
	Entity *models.Entity        `json:"entity"`
	Record *models.DynamicRecord `json:"record"`
}

// RecordInput is the payload for creating or replacing a record document.
type RecordInput struct {
	Data map[string]interface{} `json:"data"`
}

// ListRecords returns the entity descriptor plus its records, most recently
// updated first.
// When search is non-empty, records are kept only if the serialized data
// document contains the term, case-insensitively. The scan is linear over
// the entity's records; fine at console scale, revisit if an entity grows
// past tens of thousands of rows.
func ListRecords(db *gorm.DB, slug, search string) (*RecordList, error) {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	var records []models.DynamicRecord
	err = db.Where("entity_id = ?", entity.ID).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		filtered := records[:0]
		for _, r := range records {
			if strings.Contains(strings.ToLower(string(r.Data.JSON)), term) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if records == nil {
		records = []models.DynamicRecord{}
	}
	return &RecordList{Entity: entity, Records: records}, nil
}

// GetRecord returns one record of an entity, with its tasks in display order
// and its call log newest first.
func GetRecord(db *gorm.DB, slug, recordID string) (*RecordDetail, error) {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	var record models.DynamicRecord
	err = db.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Preload("Calls", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC")
	}).Where("id = ? AND entity_id = ?", recordID, entity.ID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("רשומה לא נמצאה")
		}
		return nil, err
	}

	return &RecordDetail{Entity: entity, Record: &record}, nil
}

// CreateRecord stores a new record document under an entity. The data map is
// stored as sent; the store does not reject keys that have no matching field
// definition.
func CreateRecord(db *gorm.DB, slug string, in RecordInput, createdByID *string) (*models.DynamicRecord, error) {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, types.Validation("מסמך הנתונים אינו תקין")
	}

	record := models.DynamicRecord{
		EntityID:    entity.ID,
		Data:        models.JSON{JSON: datatypes.JSON(raw)},
		CreatedByID: createdByID,
	}
	if err := db.Create(&record).Error; err != nil {
		logging.Log.Error("record create failed", zap.String("entity", slug), zap.Error(err))
		return nil, err
	}
	return &record, nil
}

// UpdateRecord replaces a record's data document wholesale. There is no merge
// and no version check; the last writer wins.
func UpdateRecord(db *gorm.DB, slug, recordID string, in RecordInput) (*models.DynamicRecord, error) {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	var record models.DynamicRecord
	err = db.Where("id = ? AND entity_id = ?", recordID, entity.ID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("רשומה לא נמצאה")
		}
		return nil, err
	}

	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, types.Validation("מסמך הנתונים אינו תקין")
	}

	doc := models.JSON{JSON: datatypes.JSON(raw)}
	if err := db.Model(&record).Update("data", doc).Error; err != nil {
		return nil, err
	}
	record.Data = doc
	return &record, nil
}

// DeleteRecord removes a record together with its tasks and call log entries.
func DeleteRecord(db *gorm.DB, slug, recordID string) error {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var record models.DynamicRecord
		err := tx.Where("id = ? AND entity_id = ?", recordID, entity.ID).First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("רשומה לא נמצאה")
			}
			return err
		}

		if err := tx.Where("record_id = ?", recordID).Delete(&models.RecordTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&models.CallLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
}
