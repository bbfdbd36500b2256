package services_test

import (
	"encoding/json"
	"testing"

	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"gorm.io/gorm"
)

func seedEntity(t *testing.T, db *gorm.DB) *models.Entity {
	t.Helper()
	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	for _, label := range []string{"Full Name", "Phone"} {
		if _, err := services.CreateField(db, entity.ID, services.FieldInput{Label: label}); err != nil {
			t.Fatalf("CreateField %s failed: %v", label, err)
		}
	}
	return entity
}

func recordData(t *testing.T, r *models.DynamicRecord) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(r.Data.JSON), &data); err != nil {
		t.Fatalf("record data unmarshal failed: %v", err)
	}
	return data
}

func TestCreateAndGetRecord(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	created, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד לוי", "phone": "050-1234567"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	detail, err := services.GetRecord(db, "donors", created.ID)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if detail.Entity == nil || detail.Entity.Slug != "donors" {
		t.Errorf("detail entity = %+v, want donors", detail.Entity)
	}
	data := recordData(t, detail.Record)
	if data["full_name"] != "דוד לוי" {
		t.Errorf("full_name = %v, want דוד לוי", data["full_name"])
	}
}

func TestListRecordsSearch(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	for _, name := range []string{"David Levi", "Sara Cohen"} {
		_, err := services.CreateRecord(db, "donors", services.RecordInput{
			Data: map[string]interface{}{"full_name": name},
		}, nil)
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	// Case-insensitive substring over the serialized document
	result, err := services.ListRecords(db, "donors", "LEVI")
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("search matched %d records, want 1", len(result.Records))
	}
	if recordData(t, &result.Records[0])["full_name"] != "David Levi" {
		t.Errorf("wrong record matched: %v", recordData(t, &result.Records[0]))
	}

	// Empty search returns everything with the entity descriptor
	all, err := services.ListRecords(db, "donors", "")
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(all.Records) != 2 {
		t.Errorf("all records = %d, want 2", len(all.Records))
	}
	if all.Entity == nil || len(all.Entity.Fields) != 2 {
		t.Errorf("entity descriptor missing fields: %+v", all.Entity)
	}
}

func TestListRecordsNoMatchesIsEmptyNotNil(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	result, err := services.ListRecords(db, "donors", "nothing-here")
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if result.Records == nil {
		t.Error("records is nil, want empty slice")
	}
}

func TestUpdateRecordReplacesDocument(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	created, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד", "phone": "050-1234567"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Full replacement: keys absent from the new document disappear.
	updated, err := services.UpdateRecord(db, "donors", created.ID, services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד לוי"},
	})
	if err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}
	data := recordData(t, updated)
	if data["full_name"] != "דוד לוי" {
		t.Errorf("full_name = %v, want דוד לוי", data["full_name"])
	}
	if _, ok := data["phone"]; ok {
		t.Error("phone survived a full-replacement update")
	}
}

func TestDeletedFieldDataStaysInDocument(t *testing.T) {
	db := setupTestDB(t)
	entity := seedEntity(t, db)

	created, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד", "phone": "050-1234567"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	var phoneField models.FieldDefinition
	if err := db.Where("entity_id = ? AND name = ?", entity.ID, "phone").First(&phoneField).Error; err != nil {
		t.Fatalf("find phone field: %v", err)
	}
	if err := services.DeleteField(db, phoneField.ID); err != nil {
		t.Fatalf("DeleteField failed: %v", err)
	}

	detail, err := services.GetRecord(db, "donors", created.ID)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	data := recordData(t, detail.Record)
	if data["phone"] != "050-1234567" {
		t.Errorf("orphaned key lost after field delete: %v", data)
	}
}

func TestRecordTaskOrderAssignment(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	record, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	for i, title := range []string{"ראשון", "שני", "שלישי"} {
		task, err := services.CreateRecordTask(db, "donors", record.ID, services.RecordTaskInput{Title: title}, nil)
		if err != nil {
			t.Fatalf("CreateRecordTask %d failed: %v", i, err)
		}
		if task.Order != i {
			t.Errorf("task %q order = %d, want %d", title, task.Order, i)
		}
	}

	done := true
	detail, _ := services.GetRecord(db, "donors", record.ID)
	first := detail.Record.Tasks[0]
	updated, err := services.UpdateRecordTask(db, "donors", record.ID, first.ID, services.RecordTaskUpdate{Done: &done})
	if err != nil {
		t.Fatalf("UpdateRecordTask failed: %v", err)
	}
	if !updated.Done {
		t.Error("task not marked done")
	}
}

func TestDeleteRecordCascades(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	record, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if _, err := services.CreateRecordTask(db, "donors", record.ID, services.RecordTaskInput{Title: "משימה"}, nil); err != nil {
		t.Fatalf("CreateRecordTask failed: %v", err)
	}
	if _, err := services.CreateCallLog(db, "donors", record.ID, services.CallLogInput{PhoneNumber: "050-2222222", Direction: "incoming"}, nil); err != nil {
		t.Fatalf("CreateCallLog failed: %v", err)
	}

	if err := services.DeleteRecord(db, "donors", record.ID); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}

	var tasks, calls int64
	db.Model(&models.RecordTask{}).Count(&tasks)
	db.Model(&models.CallLog{}).Count(&calls)
	if tasks != 0 || calls != 0 {
		t.Errorf("tasks=%d calls=%d after record delete, want 0/0", tasks, calls)
	}

	if _, err := services.GetRecord(db, "donors", record.ID); err == nil {
		t.Error("GetRecord after delete = nil error, want not found")
	}
}

func TestCallLogDirectionDefaultsToOutgoing(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	record, _ := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד"},
	}, nil)

	call, err := services.CreateCallLog(db, "donors", record.ID, services.CallLogInput{
		PhoneNumber: "050-3333333",
		Direction:   "sideways",
	}, nil)
	if err != nil {
		t.Fatalf("CreateCallLog failed: %v", err)
	}
	if call.Direction != "outgoing" {
		t.Errorf("direction = %q, want outgoing", call.Direction)
	}
}
