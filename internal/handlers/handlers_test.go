package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/handlers"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
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

func setupApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Version())

	adminHandler := &handlers.AdminHandler{DB: db}
	dynamicHandler := &handlers.DynamicHandler{DB: db}

	app.Get("/api/admin/entities", adminHandler.ListEntities)
	app.Post("/api/admin/entities", adminHandler.CreateEntity)
	app.Patch("/api/admin/entities/:id", adminHandler.UpdateEntity)
	app.Delete("/api/admin/entities/:id", adminHandler.DeleteEntity)
	app.Post("/api/admin/entities/:id/fields", adminHandler.CreateField)
	app.Get("/api/dynamic/:slug", dynamicHandler.ListRecords)
	app.Post("/api/dynamic/:slug", dynamicHandler.CreateRecord)
	app.Get("/api/dynamic/:slug/:id", dynamicHandler.GetRecord)
	app.Patch("/api/dynamic/:slug/:id", dynamicHandler.UpdateRecord)
	app.Post("/api/dynamic/:slug/:id/calls", dynamicHandler.CreateCallLog)

	return app
}

func TestCreateEntityEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	payload := []byte(`{"name":"תורמים","slug":"donors","icon":"Heart","order":1}`)
	req := httptest.NewRequest("POST", "/api/admin/entities", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var entity models.Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entity.Slug != "donors" || entity.Name != "תורמים" {
		t.Errorf("entity = %+v", entity)
	}
}

func TestCreateEntityConflictEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	payload := []byte(`{"name":"Donors","slug":"donors"}`)
	for i, wantStatus := range []int{201, 409} {
		req := httptest.NewRequest("POST", "/api/admin/entities", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != wantStatus {
			t.Fatalf("request %d status = %d, want %d", i, resp.StatusCode, wantStatus)
		}
	}
}

func TestVersionHeaderStamped(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	req := httptest.NewRequest("GET", "/api/admin/entities", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if got := resp.Header.Get("X-Kesher-Version"); got != middleware.APIVersion {
		t.Errorf("X-Kesher-Version = %q, want %q", got, middleware.APIVersion)
	}
}

func TestErrorBodyShape(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	req := httptest.NewRequest("GET", "/api/dynamic/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	msg, ok := body["error"].(string)
	if !ok || msg == "" {
		t.Errorf("error body = %v, want {\"error\": string}", body)
	}
}

func TestRecordRoundTripEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	entity, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"})
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	if _, err := services.CreateField(db, entity.ID, services.FieldInput{Label: "Full Name"}); err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}

	// Create
	payload := []byte(`{"data":{"full_name":"דוד לוי","extra_key":"kept"}}`)
	req := httptest.NewRequest("POST", "/api/dynamic/donors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created models.DynamicRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	// List bundles the entity descriptor with the records
	req = httptest.NewRequest("GET", "/api/dynamic/donors", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var list struct {
		Entity  *models.Entity         `json:"entity"`
		Records []models.DynamicRecord `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if list.Entity == nil || list.Entity.Slug != "donors" {
		t.Errorf("list entity = %+v, want donors", list.Entity)
	}
	if len(list.Records) != 1 {
		t.Fatalf("list records = %d, want 1", len(list.Records))
	}

	// Full replacement drops extra_key
	payload = []byte(`{"data":{"full_name":"שרה"}}`)
	req = httptest.NewRequest("PATCH", "/api/dynamic/donors/"+created.ID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("update request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}
	var updated models.DynamicRecord
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(updated.Data.JSON), &data); err != nil {
		t.Fatalf("unmarshal record data: %v", err)
	}
	if data["full_name"] != "שרה" {
		t.Errorf("full_name = %v, want שרה", data["full_name"])
	}
	if _, ok := data["extra_key"]; ok {
		t.Error("extra_key survived full replacement")
	}
}

func TestForgotPasswordWithoutMailTransport(t *testing.T) {
	db := setupTestDB(t)
	if err := db.AutoMigrate(&models.User{}, &models.PasswordResetToken{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret", SessionCookie: "crm_session", SessionHours: 24}
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	app := fiber.New()
	app.Post("/api/auth/forgot-password", authHandler.ForgotPassword)

	payload := []byte(`{"email":"someone@example.com"}`)
	req := httptest.NewRequest("POST", "/api/auth/forgot-password", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("status = %d, want 503 when SMTP is not configured", resp.StatusCode)
	}

	var tokens int64
	db.Model(&models.PasswordResetToken{}).Count(&tokens)
	if tokens != 0 {
		t.Errorf("reset tokens created without a mail transport: %d", tokens)
	}
}

func TestCallLogFlexibleDuration(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	if _, err := services.CreateEntity(db, services.EntityInput{Name: "Donors", Slug: "donors"}); err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	record, err := services.CreateRecord(db, "donors", services.RecordInput{
		Data: map[string]interface{}{"full_name": "דוד"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Duration arrives as a quoted string from some dialers
	payload := []byte(`{"phoneNumber":"050-1234567","direction":"incoming","duration":"95"}`)
	req := httptest.NewRequest("POST", "/api/dynamic/donors/"+record.ID+"/calls", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("call request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("call status = %d, want 201", resp.StatusCode)
	}

	var call models.CallLog
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		t.Fatalf("decode call response: %v", err)
	}
	if call.Duration == nil || *call.Duration != 95 {
		t.Errorf("duration = %v, want 95", call.Duration)
	}
	if call.Direction != "incoming" {
		t.Errorf("direction = %q, want incoming", call.Direction)
	}
}
