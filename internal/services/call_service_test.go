package services_test

import (
	"testing"

	"github.com/keshercrm/kesher-crm/internal/services"
)

func TestCreateCallUnattached(t *testing.T) {
	db := setupTestDB(t)

	call, err := services.CreateCall(db, services.CallLogInput{PhoneNumber: "050-1234567"}, nil)
	if err != nil {
		t.Fatalf("CreateCall failed: %v", err)
	}
	if call.RecordID != nil {
		t.Errorf("recordId = %v, want nil before linking", *call.RecordID)
	}
	if call.Direction != "incoming" {
		t.Errorf("direction = %q, want incoming for dialer intake", call.Direction)
	}

	if _, err := services.CreateCall(db, services.CallLogInput{}, nil); err == nil {
		t.Error("empty phone number accepted")
	}
}

func TestLinkCallByPhoneDigits(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	record, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד לוי", "phone": "050-123-4567"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Formatting differs between the dialer and the stored record; only the
	// digits have to agree.
	call, err := services.CreateCall(db, services.CallLogInput{PhoneNumber: "0501234567"}, nil)
	if err != nil {
		t.Fatalf("CreateCall failed: %v", err)
	}

	linked, err := services.LinkCall(db, call.ID)
	if err != nil {
		t.Fatalf("LinkCall failed: %v", err)
	}
	if linked.RecordID == nil || *linked.RecordID != record.ID {
		t.Errorf("linked recordId = %v, want %s", linked.RecordID, record.ID)
	}

	detail, err := services.GetRecord(db, "donors", record.ID)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if len(detail.Record.Calls) != 1 {
		t.Errorf("record carries %d calls after linking, want 1", len(detail.Record.Calls))
	}

	// Already linked
	if _, err := services.LinkCall(db, call.ID); err == nil {
		t.Error("re-linking an attached call did not error")
	}
}

func TestLinkCallNoMatchingRecord(t *testing.T) {
	db := setupTestDB(t)
	seedEntity(t, db)

	call, err := services.CreateCall(db, services.CallLogInput{PhoneNumber: "052-9999999"}, nil)
	if err != nil {
		t.Fatalf("CreateCall failed: %v", err)
	}
	if _, err := services.LinkCall(db, call.ID); err == nil {
		t.Error("link with no matching record did not error")
	}

	if _, err := services.LinkCall(db, "missing-id"); err == nil {
		t.Error("link of an unknown call did not error")
	}
}
