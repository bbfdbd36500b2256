package fields

import (
	"testing"

	"github.com/keshercrm/kesher-crm/internal/models"
	"gorm.io/datatypes"
)

func fieldOf(fieldType string) *models.FieldDefinition {
	return &models.FieldDefinition{Name: "f", Label: "F", Type: fieldType}
}

func TestCoerceNumber(t *testing.T) {
	f := fieldOf("number")

	if got := Coerce(f, float64(42)); got != float64(42) {
		t.Errorf("Coerce(42) = %v, want 42", got)
	}
	if got := Coerce(f, "3.5"); got != 3.5 {
		t.Errorf("Coerce(\"3.5\") = %v, want 3.5", got)
	}
	if got := Coerce(f, "abc"); got != nil {
		t.Errorf("Coerce(\"abc\") = %v, want nil", got)
	}
	if got := Coerce(f, ""); got != nil {
		t.Errorf("Coerce(\"\") = %v, want nil", got)
	}
}

func TestCoerceCheckbox(t *testing.T) {
	f := fieldOf("checkbox")

	truthy := []interface{}{true, "true", "on", "1", float64(1)}
	for _, v := range truthy {
		if got := Coerce(f, v); got != true {
			t.Errorf("Coerce(%v) = %v, want true", v, got)
		}
	}
	falsy := []interface{}{false, "false", "off", "", float64(0)}
	for _, v := range falsy {
		if got := Coerce(f, v); got != false {
			t.Errorf("Coerce(%v) = %v, want false", v, got)
		}
	}
}

func TestCoerceMultiselectWrapsScalar(t *testing.T) {
	f := fieldOf("multiselect")

	got, ok := Coerce(f, "solo").([]string)
	if !ok || len(got) != 1 || got[0] != "solo" {
		t.Errorf("Coerce(scalar) = %v, want [solo]", got)
	}

	got, ok = Coerce(f, []interface{}{"a", "b"}).([]string)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Coerce(list) = %v, want [a b]", got)
	}
}

func TestCoerceFile(t *testing.T) {
	f := fieldOf("file")

	raw := map[string]interface{}{"url": "https://x/y.pdf", "filename": "y.pdf"}
	fv, ok := Coerce(f, raw).(FileValue)
	if !ok || fv.URL != "https://x/y.pdf" || fv.Filename != "y.pdf" {
		t.Errorf("Coerce(file map) = %v", fv)
	}

	if got := Coerce(f, map[string]interface{}{"name": "no-url"}); got != nil {
		t.Errorf("Coerce(map without url) = %v, want nil", got)
	}
}

func TestCoerceDateTruncation(t *testing.T) {
	if got := Coerce(fieldOf("date"), "2024-04-23T14:30:00.000Z"); got != "2024-04-23" {
		t.Errorf("date coerce = %v, want 2024-04-23", got)
	}
	if got := Coerce(fieldOf("datetime"), "2024-04-23T14:30:00.000Z"); got != "2024-04-23T14:30" {
		t.Errorf("datetime coerce = %v, want 2024-04-23T14:30", got)
	}
}

func TestFormatValuePlaceholder(t *testing.T) {
	if got := FormatValue(nil); got != Placeholder {
		t.Errorf("FormatValue(nil) = %q, want %q", got, Placeholder)
	}
	if got := FormatValue(""); got != Placeholder {
		t.Errorf("FormatValue(\"\") = %q, want %q", got, Placeholder)
	}
}

func TestFormatValueFileNeverDumpsObject(t *testing.T) {
	raw := map[string]interface{}{"url": "https://x/y.pdf", "filename": "y.pdf"}
	if got := FormatValue(raw); got != "https://x/y.pdf" {
		t.Errorf("FormatValue(file) = %q, want url", got)
	}

	// Object with no recognizable keys degrades to the placeholder, not a dump.
	if got := FormatValue(map[string]interface{}{"weird": 1}); got != Placeholder {
		t.Errorf("FormatValue(unknown object) = %q, want %q", got, Placeholder)
	}
}

func TestFormatValueForTitle(t *testing.T) {
	raw := map[string]interface{}{"url": "https://x/y.pdf", "filename": "y.pdf"}
	if got := FormatValueForTitle(raw); got != "y.pdf" {
		t.Errorf("FormatValueForTitle(file) = %q, want filename", got)
	}
	if got := FormatValueForTitle(nil); got != "" {
		t.Errorf("FormatValueForTitle(nil) = %q, want empty", got)
	}
}

func TestFormatFieldValueCheckbox(t *testing.T) {
	f := fieldOf("checkbox")
	if got := FormatFieldValue(f, true); got != "כן" {
		t.Errorf("checkbox true = %q, want כן", got)
	}
	if got := FormatFieldValue(f, false); got != "לא" {
		t.Errorf("checkbox false = %q, want לא", got)
	}
}

func TestFormatFieldValueSelect(t *testing.T) {
	f := fieldOf("select")
	f.Options = datatypes.JSON([]byte(`[{"value":"active","label":"פעיל"},{"value":"lead","label":"מתעניין"}]`))

	if got := FormatFieldValue(f, "active"); got != "פעיל" {
		t.Errorf("select label = %q, want פעיל", got)
	}
	if got := FormatFieldValue(f, "gone"); got != Placeholder {
		t.Errorf("select unknown value = %q, want %q", got, Placeholder)
	}
}

func TestFormatFieldValueMultiselect(t *testing.T) {
	f := fieldOf("multiselect")
	f.Options = datatypes.JSON([]byte(`[{"value":"a","label":"אלף"},{"value":"b","label":"בית"}]`))

	got := FormatFieldValue(f, []interface{}{"a", "b", "c"})
	if got != "אלף, בית, c" {
		t.Errorf("multiselect = %q, want labels joined with raw fallback", got)
	}
}

func TestFormatFieldValueUnknownTypeBehavesLikeText(t *testing.T) {
	f := fieldOf("hologram")
	if got := FormatFieldValue(f, "hello"); got != "hello" {
		t.Errorf("unknown type = %q, want hello", got)
	}
}

func TestValidateRequired(t *testing.T) {
	defs := []models.FieldDefinition{
		{Name: "name", Label: "שם", Required: true},
		{Name: "phone", Label: "טלפון", Required: false},
	}

	if err := ValidateRequired(defs, map[string]interface{}{"name": "x"}); err != nil {
		t.Errorf("ValidateRequired with value = %v, want nil", err)
	}
	if err := ValidateRequired(defs, map[string]interface{}{"name": ""}); err == nil {
		t.Error("ValidateRequired with empty required value = nil, want error")
	}
	if err := ValidateRequired(defs, map[string]interface{}{}); err == nil {
		t.Error("ValidateRequired with missing required value = nil, want error")
	}
}
