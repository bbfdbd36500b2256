package services_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/keshercrm/kesher-crm/internal/services"
)

func TestCreateUserWithRole(t *testing.T) {
	db := setupTestDB(t)

	user, err := services.CreateUser(db, services.UserInput{
		Name: "מנהלת", Email: "Boss@Example.com", Password: "secret1", Role: "admin",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Email != "boss@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}

	plain, err := services.CreateUser(db, services.UserInput{
		Name: "נציג", Email: "rep@example.com", Password: "secret1", Role: "owner",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if plain.Role != "user" {
		t.Errorf("unknown role = %q, want user", plain.Role)
	}

	if _, err := services.CreateUser(db, services.UserInput{
		Name: "כפול", Email: "boss@example.com", Password: "secret1",
	}); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	db := setupTestDB(t)

	user, err := services.CreateUser(db, services.UserInput{
		Name: "א", Email: "hidden@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "secret1") {
		t.Errorf("serialized user leaks password material: %s", raw)
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	db := setupTestDB(t)

	user, err := services.CreateUser(db, services.UserInput{
		Name: "א", Email: "edit@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	newPass := "changed1"
	name := "ב"
	updated, err := services.UpdateUser(db, user.ID, services.UserUpdate{Name: &name, Password: &newPass})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "ב" {
		t.Errorf("name = %q, want ב", updated.Name)
	}
	if updated.Password == user.Password || updated.Password == newPass {
		t.Error("password stored without re-hashing")
	}

	if _, err := services.Login(db, services.LoginInput{Email: "edit@example.com", Password: "changed1"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := services.Login(db, services.LoginInput{Email: "edit@example.com", Password: "secret1"}); err == nil {
		t.Error("login with old password still works")
	}

	short := "abc"
	if _, err := services.UpdateUser(db, user.ID, services.UserUpdate{Password: &short}); err == nil {
		t.Error("short password accepted on update")
	}
}

func TestUpdateUserEmailConflict(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateUser(db, services.UserInput{
		Name: "א", Email: "taken@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	other, err := services.CreateUser(db, services.UserInput{
		Name: "ב", Email: "other@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	taken := "Taken@Example.com"
	if _, err := services.UpdateUser(db, other.ID, services.UserUpdate{Email: &taken}); err == nil {
		t.Error("update to a taken email accepted")
	}
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)

	user, err := services.CreateUser(db, services.UserInput{
		Name: "א", Email: "gone@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := services.DeleteUser(db, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := services.GetUser(db, user.ID); err == nil {
		t.Error("deleted user still readable")
	}
	if err := services.DeleteUser(db, user.ID); err == nil {
		t.Error("deleting a missing user did not error")
	}
}
