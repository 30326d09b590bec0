package templates

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateName checks a component or project name. Names start with a
// letter and contain only letters, digits, hyphens and underscores.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return fmt.Errorf("invalid name %q: contains invalid character %q", name, r)
		}
	}
	if !unicode.IsLetter(rune(name[0])) {
		return fmt.Errorf("invalid name %q: must start with a letter", name)
	}
	return nil
}

// KebabCase lower-cases name and inserts a hyphen before every upper-case
// letter that starts a new word: "DatePicker" becomes "date-picker".
func KebabCase(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		if r == '_' {
			r = '-'
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
