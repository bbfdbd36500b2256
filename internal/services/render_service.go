package services

import (
	"encoding/json"

	"github.com/keshercrm/kesher-crm/internal/fields"
	"gorm.io/gorm"
)

// RenderedField is one field of a record projected for display: the raw
// coerced value next to its display string.
type RenderedField struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Type    string      `json:"type"`
	Section string      `json:"section,omitempty"`
	Value   interface{} `json:"value"`
	Display string      `json:"display"`
}

// RenderedRecord is a display projection of one record: a row title derived
// from the first field plus every field rendered per its definition.
type RenderedRecord struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Fields []RenderedField `json:"fields"`
}

// RenderRecord projects a record through its entity's field definitions.
// Values are coerced per field type and formatted to display strings; the
// title comes from the first field in display order. Document keys with no
// matching definition are omitted from the projection but stay in the store.
func RenderRecord(db *gorm.DB, slug, recordID string) (*RenderedRecord, error) {
	detail, err := GetRecord(db, slug, recordID)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{}
	if len(detail.Record.Data.JSON) > 0 {
		if err := json.Unmarshal([]byte(detail.Record.Data.JSON), &data); err != nil {
			return nil, err
		}
	}

	out := &RenderedRecord{
		ID:     detail.Record.ID,
		Fields: make([]RenderedField, 0, len(detail.Entity.Fields)),
	}
	for i := range detail.Entity.Fields {
		def := &detail.Entity.Fields[i]
		value := fields.Coerce(def, data[def.Name])
		out.Fields = append(out.Fields, RenderedField{
			Name:    def.Name,
			Label:   def.Label,
			Type:    string(fields.ParseFieldType(def.Type)),
			Section: def.Section,
			Value:   value,
			Display: fields.FormatFieldValue(def, value),
		})
		if i == 0 {
			out.Title = fields.FormatValueForTitle(value)
		}
	}
	return out, nil
}

// ValidateRecord runs the pre-submit required-field check against an entity's
// definitions. The store never enforces this on write; it exists for form
// flows that want the check server-side.
func ValidateRecord(db *gorm.DB, slug string, data map[string]interface{}) error {
	entity, err := GetEntityBySlug(db, slug)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return fields.ValidateRequired(entity.Fields, data)
}
