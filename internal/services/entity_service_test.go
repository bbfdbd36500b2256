package services_test

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Entity{},
		&models.FieldDefinition{},
		&models.DynamicRecord{},
		&models.RecordTask{},
		&models.CallLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreateEntityNormalizesSlug(t *testing.T) {
	db := setupTestDB(t)

	entity, err := services.CreateEntity(db, services.EntityInput{
		Name: "My Donors",
		Slug: "My Donors",
	})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	if entity.Slug != "my-donors" {
		t.Errorf("slug = %q, want my-donors", entity.Slug)
	}
	if entity.ID == "" {
		t.Error("entity id not assigned")
	}
}

func TestCreateEntityDerivesSlugFromName(t *testing.T) {
	db := setupTestDB(t)

	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Suppliers List"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	if entity.Slug != "suppliers-list" {
		t.Errorf("slug = %q, want suppliers-list", entity.Slug)
	}
}

func TestCreateEntitySlugConflict(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"}); err != nil {
		t.Fatalf("first CreateEntity failed: %v", err)
	}

	_, err := services.CreateEntity(db, services.EntityInput{Name: "Other", Slug: "donors"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != 409 {
		t.Errorf("err = %v, want 409 AppError", err)
	}
}

func TestCreateEntityUnusableSlug(t *testing.T) {
	db := setupTestDB(t)

	// Hebrew-only name leaves nothing for a slug
	_, err := services.CreateEntity(db, services.EntityInput{Name: "לקוחות"})
	if err == nil {
		t.Fatal("expected validation error for Hebrew-only name, got nil")
	}
}

func TestUpdateEntityRejectsSlugChange(t *testing.T) {
	db := setupTestDB(t)

	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}

	newSlug := "sponsors"
	_, err = services.UpdateEntity(db, entity.ID, services.EntityUpdate{Slug: &newSlug})
	if err == nil {
		t.Fatal("expected slug change rejection, got nil")
	}

	// Sending the existing slug back is not a change and passes.
	sameSlug := "donors"
	newName := "Sponsors"
	updated, err := services.UpdateEntity(db, entity.ID, services.EntityUpdate{Slug: &sameSlug, Name: &newName})
	if err != nil {
		t.Fatalf("UpdateEntity with unchanged slug failed: %v", err)
	}
	if updated.Name != "Sponsors" || updated.Slug != "donors" {
		t.Errorf("updated = %+v, want name Sponsors slug donors", updated)
	}
}

func TestDeleteEntityCascades(t *testing.T) {
	db := setupTestDB(t)

	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	if _, err := services.CreateField(db, entity.ID, services.FieldInput{Label: "Full Name"}); err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}
	record, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if _, err := services.CreateRecordTask(db, "donors", record.ID, services.RecordTaskInput{Title: "להתקשר"}, nil); err != nil {
		t.Fatalf("CreateRecordTask failed: %v", err)
	}
	if _, err := services.CreateCallLog(db, "donors", record.ID, services.CallLogInput{PhoneNumber: "050-1111111"}, nil); err != nil {
		t.Fatalf("CreateCallLog failed: %v", err)
	}

	if err := services.DeleteEntity(db, entity.ID); err != nil {
		t.Fatalf("DeleteEntity failed: %v", err)
	}

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"fields":  &models.FieldDefinition{},
		"records": &models.DynamicRecord{},
		"tasks":   &models.RecordTask{},
		"calls":   &models.CallLog{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s failed: %v", name, err)
		}
		counts[name] = n
	}
	for name, n := range counts {
		if n != 0 {
			t.Errorf("%s remaining after entity delete: %d, want 0", name, n)
		}
	}
}

func TestCreateFieldDerivesAndDedupes(t *testing.T) {
	db := setupTestDB(t)

	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}

	first, err := services.CreateField(db, entity.ID, services.FieldInput{Label: "Status"})
	if err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}
	if first.Name != "status" {
		t.Errorf("first field name = %q, want status", first.Name)
	}

	second, err := services.CreateField(db, entity.ID, services.FieldInput{Label: "Status"})
	if err != nil {
		t.Fatalf("second CreateField failed: %v", err)
	}
	if second.Name != "status_1" {
		t.Errorf("second field name = %q, want status_1", second.Name)
	}
}

func TestCreateFieldOptionsAcceptSingleOrArray(t *testing.T) {
	db := setupTestDB(t)
	entity, _ := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})

	var single services.FieldInput
	if err := json.Unmarshal([]byte(`{"label":"Status","type":"select","options":{"value":"a","label":"אלף"}}`), &single); err != nil {
		t.Fatalf("unmarshal single-option payload: %v", err)
	}
	field, err := services.CreateField(db, entity.ID, single)
	if err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}
	opts := fields.ParseOptions(field.Options)
	if len(opts) != 1 || opts[0].Value != "a" {
		t.Errorf("options = %v, want single wrapped option", opts)
	}

	var array services.FieldInput
	if err := json.Unmarshal([]byte(`{"label":"Level","type":"select","options":[{"value":"x","label":"X"},{"value":"y","label":"Y"}]}`), &array); err != nil {
		t.Fatalf("unmarshal array payload: %v", err)
	}
	field, err = services.CreateField(db, entity.ID, array)
	if err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}
	if opts := fields.ParseOptions(field.Options); len(opts) != 2 {
		t.Errorf("options = %v, want 2 entries", opts)
	}
}

func TestUpdateFieldNameImmutable(t *testing.T) {
	db := setupTestDB(t)

	entity, _ := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	field, err := services.CreateField(db, entity.ID, services.FieldInput{Label: "Status"})
	if err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}

	renamed := "state"
	_, err = services.UpdateField(db, field.ID, services.FieldUpdate{Name: &renamed})
	if err == nil {
		t.Fatal("expected name change rejection, got nil")
	}

	newLabel := "מצב"
	updated, err := services.UpdateField(db, field.ID, services.FieldUpdate{Label: &newLabel})
	if err != nil {
		t.Fatalf("UpdateField label failed: %v", err)
	}
	if updated.Name != "status" || updated.Label != "מצב" {
		t.Errorf("updated field = %+v", updated)
	}
}
