package fields

import (
	"strings"
	"time"

	"github.com/hebcal/hdate"
)

// Hebrew calendar display formatting. The Gregorian→Hebrew conversion itself
// is delegated to the hdate library; this file only renders the converted
// date as Hebrew numeral letters.

const (
	geresh    = "׳"
	gershayim = "״"
)

// hebrewMonthNames maps hdate month numbers (Nisan=1 ... Adar II=13) to their
// Hebrew names. Month 12 is plain Adar in a regular year and Adar I in a leap
// year.
var hebrewMonthNames = map[int]string{
	1:  "ניסן",
	2:  "אייר",
	3:  "סיון",
	4:  "תמוז",
	5:  "אב",
	6:  "אלול",
	7:  "תשרי",
	8:  "חשון",
	9:  "כסלו",
	10: "טבת",
	11: "שבט",
	12: "אדר",
	13: "אדר ב׳",
}

var gematriyaLetters = []struct {
	value  int
	letter string
}{
	{400, "ת"}, {300, "ש"}, {200, "ר"}, {100, "ק"},
	{90, "צ"}, {80, "פ"}, {70, "ע"}, {60, "ס"}, {50, "נ"}, {40, "מ"},
	{30, "ל"}, {20, "כ"}, {10, "י"},
	{9, "ט"}, {8, "ח"}, {7, "ז"}, {6, "ו"}, {5, "ה"}, {4, "ד"},
	{3, "ג"}, {2, "ב"}, {1, "א"},
}

// Gematriya renders a number (1..999) as Hebrew numeral letters with the
// customary punctuation: geresh after a single letter, gershayim before the
// last letter otherwise. 15 and 16 use the ט״ו and ט״ז ligatures so the
// letter pairs י-ה and י-ו are never written.
func Gematriya(n int) string {
	if n <= 0 {
		return ""
	}

	var letters []string
	for _, g := range gematriyaLetters {
		for n >= g.value {
			// 15 and 16 must not decompose into י+ה / י+ו
			if n == 15 {
				letters = append(letters, "ט", "ו")
				n = 0
				break
			}
			if n == 16 {
				letters = append(letters, "ט", "ז")
				n = 0
				break
			}
			letters = append(letters, g.letter)
			n -= g.value
		}
	}

	if len(letters) == 1 {
		return letters[0] + geresh
	}
	last := letters[len(letters)-1]
	return strings.Join(letters[:len(letters)-1], "") + gershayim + last
}

// FormatHebrewDate converts a stored Gregorian ISO date string into a
// Hebrew-calendar display string: day in numeral letters, month name, year in
// numeral letters. Display-only; unparseable input is returned unchanged.
func FormatHebrewDate(s string) string {
	iso := strings.TrimSpace(s)
	if len(iso) > 10 {
		iso = iso[:10]
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return s
	}

	hd := hdate.FromGregorian(t.Year(), t.Month(), t.Day())

	month := hebrewMonthNames[int(hd.Month())]
	if int(hd.Month()) == 12 && hdate.IsLeapYear(hd.Year()) {
		month = "אדר א׳"
	}

	return Gematriya(hd.Day()) + " " + month + " " + Gematriya(hd.Year()%1000)
}
