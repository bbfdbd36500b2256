package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"gorm.io/gorm"
)

// CallLogInput is the payload for logging a call against a record. Duration
// arrives as seconds; some dialers send it as a quoted string, hence the
// flexible decode at the handler layer.
type CallLogInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Direction   string `json:"direction"`
	Duration    *int   `json:"duration"`
	Notes       string `json:"notes"`
}

// ListCallLogs returns a record's call entries, newest first.
func ListCallLogs(db *gorm.DB, slug, recordID string) ([]models.CallLog, error) {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return nil, err
	}

	calls := []models.CallLog{}
	err := db.Where("record_id = ?", recordID).Order("created_at DESC").Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

// CreateCallLog appends a call entry to a record. Entries are append-only;
// there is no update path, only create and delete.
func CreateCallLog(db *gorm.DB, slug, recordID string, in CallLogInput, createdByID *string) (*models.CallLog, error) {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		return nil, types.Validation("נא להזין מספר טלפון")
	}

	direction := strings.TrimSpace(strings.ToLower(in.Direction))
	if direction != "incoming" && direction != "outgoing" {
		direction = "outgoing"
	}

	call := models.CallLog{
		RecordID:    &recordID,
		PhoneNumber: phone,
		Direction:   direction,
		Duration:    in.Duration,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedByID: createdByID,
	}
	if err := db.Create(&call).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

// normalizePhoneDigits strips a phone number down to its digits so that
// formatting differences (dashes, spaces, country prefix punctuation) do not
// block a match.
func normalizePhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreateCall logs a call that is not attached to any record yet. Dialers push
// these as calls ring, so the direction defaults to incoming.
func CreateCall(db *gorm.DB, in CallLogInput, createdByID *string) (*models.CallLog, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		return nil, types.Validation("נא להזין מספר טלפון")
	}

	direction := strings.TrimSpace(strings.ToLower(in.Direction))
	if direction != "incoming" && direction != "outgoing" {
		direction = "incoming"
	}

	call := models.CallLog{
		PhoneNumber: phone,
		Direction:   direction,
		Duration:    in.Duration,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedByID: createdByID,
	}
	if err := db.Create(&call).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

// LinkCall attaches an unlinked call entry to the first record whose data
// holds the same phone number, compared digit for digit.
func LinkCall(db *gorm.DB, callID string) (*models.CallLog, error) {
	var call models.CallLog
	if err := db.Where("id = ?", callID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("רישום שיחה לא נמצא")
		}
		return nil, err
	}
	if call.RecordID != nil {
		return nil, types.Conflict("רישום השיחה כבר מקושר לרשומה")
	}

	digits := normalizePhoneDigits(call.PhoneNumber)
	if len(digits) < 7 {
		return nil, types.Validation("מספר הטלפון קצר מדי לאיתור רשומה")
	}

	var records []models.DynamicRecord
	if err := db.Order("updated_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		var doc map[string]interface{}
		if err := json.Unmarshal(records[i].Data.JSON, &doc); err != nil {
			continue
		}
		for _, v := range doc {
			s, ok := v.(string)
			if !ok || !strings.Contains(normalizePhoneDigits(s), digits) {
				continue
			}
			recordID := records[i].ID
			if err := db.Model(&call).Update("record_id", recordID).Error; err != nil {
				return nil, err
			}
			call.RecordID = &recordID
			return &call, nil
		}
	}
	return nil, types.NotFound("לא נמצאה רשומה עם מספר טלפון תואם")
}

// DeleteCallLog removes a call entry from a record.
func DeleteCallLog(db *gorm.DB, slug, recordID, callID string) error {
	if _, err := GetRecord(db, slug, recordID); err != nil {
		return err
	}

	res := db.Where("id = ? AND record_id = ?", callID, recordID).Delete(&models.CallLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("רישום שיחה לא נמצא")
	}
	return nil
}
