package services_test

import (
	"testing"
	"time"

	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionCookie: "crm_session",
		SessionHours:  24,
	}
}

func authTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	if err := db.AutoMigrate(&models.PasswordResetToken{}); err != nil {
		t.Fatalf("migrate reset tokens: %v", err)
	}
	return db
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	db := authTestDB(t)

	first, err := services.Register(db, services.RegisterInput{
		Name: "מנהל", Email: "Admin@Example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first.Role != "admin" {
		t.Errorf("first user role = %q, want admin", first.Role)
	}
	if first.Email != "admin@example.com" {
		t.Errorf("email not normalized: %q", first.Email)
	}

	second, err := services.Register(db, services.RegisterInput{
		Name: "משתמש", Email: "user@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if second.Role != "user" {
		t.Errorf("second user role = %q, want user", second.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := authTestDB(t)

	in := services.RegisterInput{Name: "א", Email: "dup@example.com", Password: "secret1"}
	if _, err := services.Register(db, in); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := services.Register(db, in); err == nil {
		t.Fatal("duplicate Register = nil error, want conflict")
	}
}

func TestLogin(t *testing.T) {
	db := authTestDB(t)

	if _, err := services.Register(db, services.RegisterInput{
		Name: "א", Email: "login@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := services.Login(db, services.LoginInput{Email: "login@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "login@example.com" {
		t.Errorf("login returned wrong user: %q", user.Email)
	}

	if _, err := services.Login(db, services.LoginInput{Email: "login@example.com", Password: "wrong"}); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := services.Login(db, services.LoginInput{Email: "ghost@example.com", Password: "secret1"}); err == nil {
		t.Fatal("unknown email accepted")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := authTestDB(t)
	cfg := testConfig()

	user, err := services.Register(db, services.RegisterInput{
		Name: "א", Email: "jwt@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := services.MintSession(cfg, user)
	if err != nil {
		t.Fatalf("MintSession failed: %v", err)
	}

	claims, err := services.VerifySession(cfg, token)
	if err != nil {
		t.Fatalf("VerifySession failed: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != "admin" {
		t.Errorf("claims = %+v, want subject %s role admin", claims, user.ID)
	}

	if _, err := services.VerifySession(cfg, token+"x"); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := authTestDB(t)

	if _, err := services.Register(db, services.RegisterInput{
		Name: "א", Email: "reset@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, user, err := services.CreateResetToken(db, "reset@example.com")
	if err != nil {
		t.Fatalf("CreateResetToken failed: %v", err)
	}
	if token == nil || user == nil {
		t.Fatal("token or user nil for known email")
	}

	if err := services.ResetPassword(db, token.Token, "newsecret"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := services.Login(db, services.LoginInput{Email: "reset@example.com", Password: "newsecret"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := services.Login(db, services.LoginInput{Email: "reset@example.com", Password: "secret1"}); err == nil {
		t.Error("login with old password still works")
	}

	// Token is single-use
	if err := services.ResetPassword(db, token.Token, "another1"); err == nil {
		t.Error("consumed token accepted again")
	}
}

func TestPasswordResetNewTokenInvalidatesOld(t *testing.T) {
	db := authTestDB(t)

	if _, err := services.Register(db, services.RegisterInput{
		Name: "א", Email: "rotate@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	first, _, err := services.CreateResetToken(db, "rotate@example.com")
	if err != nil {
		t.Fatalf("first CreateResetToken failed: %v", err)
	}
	second, _, err := services.CreateResetToken(db, "rotate@example.com")
	if err != nil {
		t.Fatalf("second CreateResetToken failed: %v", err)
	}

	var active int64
	if err := db.Model(&models.PasswordResetToken{}).Where("email = ?", "rotate@example.com").Count(&active).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if active != 1 {
		t.Errorf("active tokens after second request: %d, want 1", active)
	}

	if err := services.ResetPassword(db, first.Token, "newsecret"); err == nil {
		t.Error("stale token accepted after a newer one was issued")
	}
	if err := services.ResetPassword(db, second.Token, "newsecret"); err != nil {
		t.Errorf("latest token rejected: %v", err)
	}
}

func TestPasswordResetUnknownEmailSilent(t *testing.T) {
	db := authTestDB(t)

	token, user, err := services.CreateResetToken(db, "nobody@example.com")
	if err != nil {
		t.Fatalf("CreateResetToken failed: %v", err)
	}
	if token != nil || user != nil {
		t.Error("unknown email produced a token")
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	db := authTestDB(t)

	if _, err := services.Register(db, services.RegisterInput{
		Name: "א", Email: "expired@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, _, err := services.CreateResetToken(db, "expired@example.com")
	if err != nil {
		t.Fatalf("CreateResetToken failed: %v", err)
	}

	// Backdate past the 24 hour window
	if err := db.Model(token).Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate token: %v", err)
	}

	if err := services.ResetPassword(db, token.Token, "newsecret"); err == nil {
		t.Fatal("expired token accepted")
	}
}
