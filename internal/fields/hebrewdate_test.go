package fields

import (
	"strings"
	"testing"
)

func TestGematriya(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "א׳"},
		{5, "ה׳"},
		{10, "י׳"},
		{11, "י״א"},
		{15, "ט״ו"},
		{16, "ט״ז"},
		{17, "י״ז"},
		{20, "כ׳"},
		{25, "כ״ה"},
		{100, "ק׳"},
		{115, "קט״ו"},
		{786, "תשפ״ו"},
	}

	for _, tc := range cases {
		if got := Gematriya(tc.n); got != tc.want {
			t.Errorf("Gematriya(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestGematriyaZeroAndNegative(t *testing.T) {
	if got := Gematriya(0); got != "" {
		t.Errorf("Gematriya(0) = %q, want empty", got)
	}
	if got := Gematriya(-3); got != "" {
		t.Errorf("Gematriya(-3) = %q, want empty", got)
	}
}

func TestFormatHebrewDate(t *testing.T) {
	// 2024-04-23 is 15 Nisan 5784; exercises the ט״ו ligature.
	got := FormatHebrewDate("2024-04-23")
	if !strings.Contains(got, "ט״ו") {
		t.Errorf("FormatHebrewDate(2024-04-23) = %q, want day ט״ו", got)
	}
	if !strings.Contains(got, "ניסן") {
		t.Errorf("FormatHebrewDate(2024-04-23) = %q, want month ניסן", got)
	}
}

func TestFormatHebrewDateTruncatesTimestamps(t *testing.T) {
	date := FormatHebrewDate("2024-04-23")
	withTime := FormatHebrewDate("2024-04-23T14:30:00.000Z")
	if date != withTime {
		t.Errorf("timestamp input %q differs from date input %q", withTime, date)
	}
}

func TestFormatHebrewDateUnparseablePassthrough(t *testing.T) {
	for _, s := range []string{"", "not-a-date", "23/04/2024"} {
		if got := FormatHebrewDate(s); got != s {
			t.Errorf("FormatHebrewDate(%q) = %q, want input unchanged", s, got)
		}
	}
}
