package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldInput is the payload for creating a field definition. Name is optional;
// when blank it is derived from the label. Options accepts a single option or
// an array of options.
type FieldInput struct {
	Name        string                        `json:"name"`
	Label       string                        `json:"label"`
	Type        string                        `json:"type"`
	Options     types.FlexList[fields.Option] `json:"options"`
	Required    bool                          `json:"required"`
	Placeholder string                        `json:"placeholder"`
	Section     string                        `json:"section"`
	Order       int                           `json:"order"`
}

// FieldUpdate is the partial payload for updating a field definition. Name is
// immutable; a changed name is rejected so stored record data keys stay
// addressable.
type FieldUpdate struct {
	Name        *string                        `json:"name"`
	Label       *string                        `json:"label"`
	Type        *string                        `json:"type"`
	Options     *types.FlexList[fields.Option] `json:"options"`
	Required    *bool                          `json:"required"`
	Placeholder *string                        `json:"placeholder"`
	Section     *string                        `json:"section"`
	Order       *int                           `json:"order"`
}

// marshalOptions serializes an option list for storage. An empty list stores
// SQL NULL rather than "[]".
func marshalOptions(opts []fields.Option) (datatypes.JSON, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ListFields returns the field definitions of one entity in display order.
func ListFields(db *gorm.DB, entityID string) ([]models.FieldDefinition, error) {
	if _, err := GetEntity(db, entityID); err != nil {
		return nil, err
	}
	var defs []models.FieldDefinition
	err := db.Where("entity_id = ?", entityID).Order("sort_order ASC").Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// CreateField validates and stores a new field definition on an entity. The
// machine name is taken as given when valid, derived from the label when
// blank, and suffixed with _1, _2, ... when it collides with an existing
// field of the same entity.
func CreateField(db *gorm.DB, entityID string, in FieldInput) (*models.FieldDefinition, error) {
	entity, err := GetEntity(db, entityID)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, types.Validation("נא להזין תווית לשדה")
	}

	existing := make([]string, 0, len(entity.Fields))
	for _, f := range entity.Fields {
		existing = append(existing, f.Name)
	}

	name := strings.TrimSpace(in.Name)
	if name != "" && !fields.ValidFieldName(name) {
		return nil, types.Validation("שם שדה חייב להתחיל באות באנגלית ולהכיל אותיות, ספרות וקו תחתון בלבד")
	}
	if name == "" {
		name = label
	}
	name = fields.DeriveFieldName(name, existing)

	options, err := marshalOptions(in.Options.Slice())
	if err != nil {
		return nil, err
	}

	def := models.FieldDefinition{
		EntityID:    entityID,
		Name:        name,
		Label:       label,
		Type:        string(fields.ParseFieldType(in.Type)),
		Options:     options,
		Required:    in.Required,
		Placeholder: strings.TrimSpace(in.Placeholder),
		Section:     strings.TrimSpace(in.Section),
		Order:       in.Order,
	}
	if err := db.Create(&def).Error; err != nil {
		logging.Log.Error("field create failed",
			zap.String("entity", entity.Slug),
			zap.String("field", name),
			zap.Error(err))
		return nil, err
	}
	return &def, nil
}

// UpdateField applies a partial update to a field definition. The machine
// name and the owning entity never change.
func UpdateField(db *gorm.DB, fieldID string, in FieldUpdate) (*models.FieldDefinition, error) {
	var def models.FieldDefinition
	err := db.Where("id = ?", fieldID).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("שדה לא נמצא")
		}
		return nil, err
	}

	if in.Name != nil && *in.Name != def.Name {
		return nil, types.Validation("לא ניתן לשנות שם מכונה של שדה קיים")
	}

	updates := map[string]interface{}{}
	if in.Label != nil {
		label := strings.TrimSpace(*in.Label)
		if label == "" {
			return nil, types.Validation("נא להזין תווית לשדה")
		}
		updates["label"] = label
	}
	if in.Type != nil {
		updates["type"] = string(fields.ParseFieldType(*in.Type))
	}
	if in.Options != nil {
		options, err := marshalOptions(in.Options.Slice())
		if err != nil {
			return nil, err
		}
		updates["options"] = options
	}
	if in.Required != nil {
		updates["required"] = *in.Required
	}
	if in.Placeholder != nil {
		updates["placeholder"] = strings.TrimSpace(*in.Placeholder)
	}
	if in.Section != nil {
		updates["section"] = strings.TrimSpace(*in.Section)
	}
	if in.Order != nil {
		updates["sort_order"] = *in.Order
	}

	if len(updates) > 0 {
		if err := db.Model(&def).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Where("id = ?", fieldID).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

// DeleteField removes a field definition. Record data documents are left
// untouched; any values stored under the deleted field's name remain in
// place as orphaned keys and reappear if a field with the same name is
// created again later.
func DeleteField(db *gorm.DB, fieldID string) error {
	res := db.Where("id = ?", fieldID).Delete(&models.FieldDefinition{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("שדה לא נמצא")
	}
	return nil
}
