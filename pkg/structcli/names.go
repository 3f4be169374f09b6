package structcli

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// optionName converts a Go field name to a kebab-case option name.
// Acronyms stay together: HTTPPort becomes http-port, LogURL becomes log-url.
func optionName(field string) string {
	runes := []rune(field)
	var b strings.Builder
	b.Grow(len(field) + 4)

	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				if !strings.HasSuffix(b.String(), "-") {
					b.WriteByte('-')
				}
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return strings.Trim(b.String(), "-")
}

// metavar renders an argument name the way usage lines show it.
func metavar(name string) string {
	return upper.String(strings.ReplaceAll(name, "-", "_"))
}

// joinName prefixes name with every non-empty prefix, kebab style.
func joinName(name string, prefixes ...string) string {
	parts := make([]string, 0, len(prefixes)+1)
	for _, p := range prefixes {
		if p = strings.Trim(p, "-"); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, name)
	return strings.Join(parts, "-")
}

// goName returns the last segment of a dotted field path.
func goName(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
