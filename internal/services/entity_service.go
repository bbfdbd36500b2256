package services

import (
	"errors"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityInput is the payload for creating an entity descriptor.
type EntityInput struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// EntityUpdate is the partial payload for updating an entity descriptor.
// Slug is deliberately absent from the console payload; a slug sent anyway is
// rejected, never applied.
type EntityUpdate struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Icon  *string `json:"icon"`
	Order *int    `json:"order"`
}

// ListEntities returns all entity descriptors ordered for navigation, each
// with its ordered field definitions.
func ListEntities(db *gorm.DB) ([]models.Entity, error) {
	var entities []models.Entity
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Order("sort_order ASC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// GetEntity returns one entity descriptor by id with ordered fields.
func GetEntity(db *gorm.DB, id string) (*models.Entity, error) {
	var entity models.Entity
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("ישות לא נמצאה")
		}
		return nil, err
	}
	return &entity, nil
}

// GetEntityBySlug returns one entity descriptor by slug with ordered fields.
func GetEntityBySlug(db *gorm.DB, slug string) (*models.Entity, error) {
	var entity models.Entity
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Where("slug = ?", slug).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("ישות לא נמצאה")
		}
		return nil, err
	}
	return &entity, nil
}

// CreateEntity validates and stores a new entity descriptor. The slug is
// normalized from the requested slug (or the name when absent) and must be
// unique; it never changes afterwards.
func CreateEntity(db *gorm.DB, in EntityInput) (*models.Entity, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("נא להזין שם לישות")
	}

	slugSource := in.Slug
	if strings.TrimSpace(slugSource) == "" {
		slugSource = name
	}
	slug := fields.NormalizeSlug(slugSource)
	if slug == "" {
		return nil, types.Validation("לא ניתן לגזור מזהה (slug) מהשם, נא להזין מזהה באנגלית")
	}

	var count int64
	if err := db.Model(&models.Entity{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, types.Conflict("מזהה (slug) כבר קיים במערכת")
	}

	entity := models.Entity{
		Name:  name,
		Slug:  slug,
		Icon:  fields.NormalizeIcon(in.Icon),
		Order: in.Order,
	}
	if err := db.Create(&entity).Error; err != nil {
		logging.Log.Error("entity create failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &entity, nil
}

// UpdateEntity applies a partial update to an entity descriptor. Slug changes
// are rejected to keep existing record links valid.
func UpdateEntity(db *gorm.DB, id string, in EntityUpdate) (*models.Entity, error) {
	var entity models.Entity
	if err := db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("ישות לא נמצאה")
		}
		return nil, err
	}

	if in.Slug != nil && fields.NormalizeSlug(*in.Slug) != entity.Slug {
		return nil, types.Validation("לא ניתן לשנות מזהה (slug) של ישות קיימת")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, types.Validation("נא להזין שם לישות")
		}
		updates["name"] = name
	}
	if in.Icon != nil {
		updates["icon"] = fields.NormalizeIcon(*in.Icon)
	}
	if in.Order != nil {
		updates["sort_order"] = *in.Order
	}

	if len(updates) > 0 {
		if err := db.Model(&entity).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return GetEntity(db, id)
}

// DeleteEntity removes an entity descriptor and cascades to its field
// definitions, its dynamic records, and each record's tasks and call logs.
// Destructive and irreversible; callers confirm before invoking.
func DeleteEntity(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entity models.Entity
		if err := tx.Where("id = ?", id).First(&entity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("ישות לא נמצאה")
			}
			return err
		}

		var recordIDs []string
		if err := tx.Model(&models.DynamicRecord{}).
			Where("entity_id = ?", id).
			Pluck("id", &recordIDs).Error; err != nil {
			return err
		}

		if len(recordIDs) > 0 {
			if err := tx.Where("record_id IN ?", recordIDs).Delete(&models.RecordTask{}).Error; err != nil {
				return err
			}
			if err := tx.Where("record_id IN ?", recordIDs).Delete(&models.CallLog{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entity_id = ?", id).Delete(&models.DynamicRecord{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("entity_id = ?", id).Delete(&models.FieldDefinition{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity).Error; err != nil {
			return err
		}

		logging.Log.Info("entity deleted",
			zap.String("slug", entity.Slug),
			zap.Int("records", len(recordIDs)))
		return nil
	})
}
