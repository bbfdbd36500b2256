package fields

import (
	"encoding/json"
)

// FieldType enumerates the supported field control types. The set is closed;
// unknown persisted values degrade to TypeText so old records stay
// displayable after a type is renamed or removed.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeNumber      FieldType = "number"
	TypeEmail       FieldType = "email"
	TypePhone       FieldType = "phone"
	TypeTextarea    FieldType = "textarea"
	TypeSelect      FieldType = "select"
	TypeMultiselect FieldType = "multiselect"
	TypeDate        FieldType = "date"
	TypeDateHebrew  FieldType = "date-hebrew"
	TypeDatetime    FieldType = "datetime"
	TypeCheckbox    FieldType = "checkbox"
	TypeFile        FieldType = "file"
	TypeURL         FieldType = "url"
	TypeCurrency    FieldType = "currency"
	TypeUser        FieldType = "user"
	TypeRelation    FieldType = "relation"
)

// FieldTypes is the authoritative ordered list exposed to the admin console,
// with Hebrew display labels.
var FieldTypes = []struct {
	Value FieldType `json:"value"`
	Label string    `json:"label"`
}{
	{TypeText, "טקסט"},
	{TypeNumber, "מספר"},
	{TypeEmail, "אימייל"},
	{TypePhone, "טלפון"},
	{TypeTextarea, "טקסט חופשי"},
	{TypeSelect, "בחירה מרשימה"},
	{TypeMultiselect, "בחירה מרובה"},
	{TypeDate, "תאריך"},
	{TypeDateHebrew, "תאריך עברי"},
	{TypeDatetime, "תאריך ושעה"},
	{TypeCheckbox, "סימון"},
	{TypeFile, "העלאת קובץ"},
	{TypeURL, "קישור"},
	{TypeCurrency, "מטבע"},
	{TypeUser, "משתמש"},
	{TypeRelation, "קישור לרשומה"},
}

// ParseFieldType maps a persisted type string to a FieldType. Unknown values
// fall back to TypeText rather than failing.
func ParseFieldType(s string) FieldType {
	for _, ft := range FieldTypes {
		if string(ft.Value) == s {
			return ft.Value
		}
	}
	return TypeText
}

// DefaultIcon is used when an entity carries an unknown or empty icon tag.
const DefaultIcon = "Layers"

// EntityIcons is the closed set of selectable entity icons, with Hebrew
// display labels. Values are symbolic tags rendered by the client.
var EntityIcons = []struct {
	Value string `json:"value"`
	Label string `json:"label"`
}{
	{"Users", "אנשים"},
	{"UserCircle", "איש קשר"},
	{"Building2", "חברה"},
	{"Package", "מוצר"},
	{"FileText", "מסמך"},
	{"Calendar", "תאריך"},
	{"ShoppingCart", "הזמנה"},
	{"Briefcase", "עסקה"},
	{"Award", "אישור"},
	{"Heart", "פרויקט"},
	{"Star", "מועדף"},
	{"Layers", "כללי"},
	{"Folder", "תיקייה"},
}

// NormalizeIcon returns the icon tag if it is in the registry, otherwise the
// default. Unknown legacy values never error.
func NormalizeIcon(s string) string {
	for _, icon := range EntityIcons {
		if icon.Value == s {
			return icon.Value
		}
	}
	return DefaultIcon
}

// Option is one ordered {value,label} entry of a select or multiselect field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ParseOptions decodes the serialized option list of a field definition.
// Null, empty or malformed input yields nil.
func ParseOptions(raw []byte) []Option {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var opts []Option
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}
