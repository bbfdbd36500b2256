package fields

import (
	"strings"
	"testing"
)

func TestValidFieldName(t *testing.T) {
	valid := []string{"name", "fullName", "phone_2", "a", "A1"}
	for _, n := range valid {
		if !ValidFieldName(n) {
			t.Errorf("ValidFieldName(%q) = false, want true", n)
		}
	}

	invalid := []string{"", "1name", "_name", "full name", "שם", "name-x"}
	for _, n := range invalid {
		if ValidFieldName(n) {
			t.Errorf("ValidFieldName(%q) = true, want false", n)
		}
	}
}

func TestDeriveFieldName(t *testing.T) {
	if got := DeriveFieldName("Full Name", nil); got != "full_name" {
		t.Errorf("DeriveFieldName(Full Name) = %q, want full_name", got)
	}
	if got := DeriveFieldName("  Phone -- Number ", nil); got != "phone_number" {
		t.Errorf("DeriveFieldName = %q, want phone_number", got)
	}
}

func TestDeriveFieldNameDedup(t *testing.T) {
	existing := []string{"status", "status_1"}
	if got := DeriveFieldName("Status", existing); got != "status_2" {
		t.Errorf("DeriveFieldName with collisions = %q, want status_2", got)
	}
}

func TestDeriveFieldNameHebrewLabelFallsBack(t *testing.T) {
	got := DeriveFieldName("שם מלא", nil)
	if !strings.HasPrefix(got, "field_") {
		t.Errorf("DeriveFieldName(hebrew label) = %q, want field_ prefix", got)
	}
	if !ValidFieldName(got) {
		t.Errorf("synthetic name %q is not a valid field name", got)
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Customers", "customers"},
		{"My Donors", "my-donors"},
		{"my_donors", "my-donors"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Hebrew-שם-slug", "hebrew-slug"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSlug(tc.in); got != tc.want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
