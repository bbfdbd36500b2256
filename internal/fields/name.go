package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// fieldNameRe is the shape every field machine name must satisfy. The name is
// the key inside record data documents and is immutable after creation.
var fieldNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

var slugStripRe = regexp.MustCompile(`[^a-z0-9-]+`)

// ValidFieldName reports whether name is a legal machine key.
func ValidFieldName(name string) bool {
	return fieldNameRe.MatchString(name)
}

// DeriveFieldName derives a machine key from a display label: non-ASCII and
// non-word characters are stripped, the rest lowercased, and collisions with
// existing names resolved by appending _1, _2, ... Labels that leave no
// ASCII-starting name (e.g. Hebrew-only labels) get a synthetic field_<random>
// name instead.
func DeriveFieldName(label string, existing []string) string {
	base := sanitizeLabel(label)
	if base == "" || !fieldNameRe.MatchString(base) {
		base = syntheticFieldName()
	}

	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

func sanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
		// anything else, including Hebrew letters, is stripped
	}
	s := b.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

func syntheticFieldName() string {
	return "field_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NormalizeSlug converts an entity name or requested slug to the canonical
// URL-safe form: lowercase, hyphen-separated, [a-z0-9-] only.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = slugStripRe.ReplaceAllString(s, "")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
