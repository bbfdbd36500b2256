package fields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
)

// Placeholder is rendered for empty or missing values.
const Placeholder = "—"

// FileValue is the stored shape of a file-typed field value.
type FileValue struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// AsFileValue interprets a raw document value as a file value. Anything
// carrying a string "url" key qualifies.
func AsFileValue(raw interface{}) (FileValue, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return FileValue{}, false
	}
	url, ok := m["url"].(string)
	if !ok {
		return FileValue{}, false
	}
	fv := FileValue{URL: url}
	if name, ok := m["filename"].(string); ok {
		fv.Filename = name
	}
	return fv, true
}

// Coerce maps a raw JSON document value to the variant the field type calls
// for. The type/shape decision of the schema-less document is confined here:
// the rest of the system only sees string, float64, bool, []string, FileValue
// or nil. Unknown field types coerce like text.
func Coerce(f *models.FieldDefinition, raw interface{}) interface{} {
	if raw == nil {
		return nil
	}

	switch ParseFieldType(f.Type) {
	case TypeNumber, TypeCurrency:
		return coerceNumber(raw)
	case TypeCheckbox:
		return coerceBool(raw)
	case TypeMultiselect:
		return coerceStringList(raw)
	case TypeFile:
		if fv, ok := AsFileValue(raw); ok {
			return fv
		}
		return nil
	case TypeDate, TypeDateHebrew:
		return truncateISO(stringify(raw), 10)
	case TypeDatetime:
		return truncateISO(stringify(raw), 16)
	default:
		return stringify(raw)
	}
}

func coerceNumber(raw interface{}) interface{} {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
		return nil
	default:
		return nil
	}
}

func coerceBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func coerceStringList(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	case string:
		// scalar from an older client, wrap it
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func truncateISO(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ValidateRequired checks that every required field has a non-empty value in
// the document. The store itself accepts any shape; this check runs only in
// form flows before submission.
func ValidateRequired(defs []models.FieldDefinition, data map[string]interface{}) error {
	var missing []string
	for _, f := range defs {
		if !f.Required {
			continue
		}
		v, ok := data[f.Name]
		if !ok || v == nil || v == "" {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return types.Validation("שדה חובה: " + strings.Join(missing, ", "))
	}
	return nil
}

// FormatValue renders a raw document value as a display string without
// consulting the field type: empty values become the placeholder, file-shaped
// objects render their url (never a raw object dump), everything else is
// stringified.
func FormatValue(raw interface{}) string {
	if raw == nil {
		return Placeholder
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return Placeholder
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case FileValue:
		return v.URL
	case map[string]interface{}:
		if s, ok := v["url"].(string); ok {
			return s
		}
		if s, ok := v["filename"].(string); ok {
			return s
		}
		if s, ok := v["name"].(string); ok {
			return s
		}
		return Placeholder
	default:
		return Placeholder
	}
}

// FormatValueForTitle is like FormatValue but prefers a file's filename over
// its url and renders empty values as "" instead of the placeholder.
func FormatValueForTitle(raw interface{}) string {
	if raw == nil || raw == "" {
		return ""
	}
	if fv, ok := AsFileValue(raw); ok && fv.Filename != "" {
		return fv.Filename
	}
	if m, ok := raw.(map[string]interface{}); ok {
		if s, ok := m["name"].(string); ok {
			return s
		}
	}
	s := FormatValue(raw)
	if s == Placeholder {
		return ""
	}
	return s
}

// FormatFieldValue renders a raw document value according to its field
// definition: checkboxes become כן/לא, select values resolve to their option
// labels, dates are ISO-truncated and Hebrew dates converted for display.
// Unknown field types render like text.
func FormatFieldValue(f *models.FieldDefinition, raw interface{}) string {
	if raw == nil || raw == "" {
		return Placeholder
	}

	switch ParseFieldType(f.Type) {
	case TypeCheckbox:
		if coerceBool(raw) {
			return "כן"
		}
		return "לא"
	case TypeSelect:
		return optionLabel(f, stringify(raw))
	case TypeMultiselect:
		values := coerceStringList(raw)
		if len(values) == 0 {
			return Placeholder
		}
		labels := make([]string, 0, len(values))
		for _, v := range values {
			labels = append(labels, optionLabelOrValue(f, v))
		}
		return strings.Join(labels, ", ")
	case TypeDate:
		return truncateISO(stringify(raw), 10)
	case TypeDatetime:
		return strings.Replace(truncateISO(stringify(raw), 16), "T", " ", 1)
	case TypeDateHebrew:
		return FormatHebrewDate(stringify(raw))
	default:
		return FormatValue(raw)
	}
}

// optionLabel resolves a select value to its option label. A value with no
// matching option displays as empty.
func optionLabel(f *models.FieldDefinition, value string) string {
	for _, opt := range ParseOptions(f.Options) {
		if opt.Value == value {
			return opt.Label
		}
	}
	return Placeholder
}

func optionLabelOrValue(f *models.FieldDefinition, value string) string {
	for _, opt := range ParseOptions(f.Options) {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
