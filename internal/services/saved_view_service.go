package services

import (
	"strings"

	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedViewInput is the payload for storing a named list filter.
type SavedViewInput struct {
	Name    string         `json:"name"`
	Entity  string         `json:"entity"`
	Filters datatypes.JSON `json:"filters"`
}

// ListSavedViews returns the saved views of one user, optionally scoped to a
// single entity slug.
func ListSavedViews(db *gorm.DB, userID, entity string) ([]models.SavedView, error) {
	tx := db.Where("user_id = ?", userID)
	if entity != "" {
		tx = tx.Where("entity = ?", entity)
	}
	var views []models.SavedView
	if err := tx.Order("created_at DESC").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// CreateSavedView stores a named filter for a user.
func CreateSavedView(db *gorm.DB, userID string, in SavedViewInput) (*models.SavedView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("נא להזין שם לתצוגה")
	}
	if strings.TrimSpace(in.Entity) == "" {
		return nil, types.Validation("תצוגה חייבת להיות משויכת לישות")
	}

	view := models.SavedView{
		Name:    name,
		Entity:  strings.TrimSpace(in.Entity),
		Filters: in.Filters,
		UserID:  &userID,
	}
	if err := db.Create(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteSavedView removes a saved view owned by the given user.
func DeleteSavedView(db *gorm.DB, userID, id string) error {
	res := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.SavedView{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("תצוגה לא נמצאה")
	}
	return nil
}
