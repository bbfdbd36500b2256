package services

import (
	"errors"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"gorm.io/gorm"
)

// RecordTaskInput is the payload for creating a record checklist item.
type RecordTaskInput struct {
	Title string `json:"title"`
}

// RecordTaskUpdate is the partial payload for toggling or renaming a
// checklist item.
type RecordTaskUpdate struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// ListRecordTasks returns a record's checklist items in display order.
func ListRecordTasks(db *gorm.DB, slug, recordID string) ([]models.RecordTask, error) {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return nil, err
	}

	tasks := []models.RecordTask{}
	err := db.Where("record_id = ?", recordID).Order("sort_order ASC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateRecordTask appends a checklist item to a record. Order is assigned
// as one past the record's current maximum so items keep insertion order.
func CreateRecordTask(db *gorm.DB, slug, recordID string, in RecordTaskInput, createdByID *string) (*models.RecordTask, error) {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, types.Validation("נא להזין כותרת למשימה")
	}

	var task models.RecordTask
	err := db.Transaction(func(tx *gorm.DB) error {
		var maxOrder *int
		err := tx.Model(&models.RecordTask{}).
			Where("record_id = ?", recordID).
			Select("MAX(sort_order)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		next := 0
		if maxOrder != nil {
			next = *maxOrder + 1
		}

		task = models.RecordTask{
			RecordID:    recordID,
			Title:       title,
			Order:       next,
			CreatedByID: createdByID,
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateRecordTask renames or toggles a checklist item.
func UpdateRecordTask(db *gorm.DB, slug, recordID, taskID string, in RecordTaskUpdate) (*models.RecordTask, error) {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return nil, err
	}

	var task models.RecordTask
	err := db.Where("id = ? AND record_id = ?", taskID, recordID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("משימה לא נמצאה")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, types.Validation("נא להזין כותרת למשימה")
		}
		updates["title"] = title
	}
	if in.Done != nil {
		updates["done"] = *in.Done
	}

	if len(updates) > 0 {
		if err := db.Model(&task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteRecordTask removes a checklist item from a record.
func DeleteRecordTask(db *gorm.DB, slug, recordID, taskID string) error {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return err
	}

	res := db.Where("id = ? AND record_id = ?", taskID, recordID).Delete(&models.RecordTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("משימה לא נמצאה")
	}
	return nil
}
