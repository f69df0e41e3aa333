package waqi

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter keeps stations whose lower-cased name contains one of a set of
// region keywords, and normalizes the name for display.
type Filter struct {
	keywords []string
}

// NewFilter builds a Filter. An empty keyword list keeps every station.
func NewFilter(keywords []string) *Filter {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &Filter{keywords: kw}
}

// Match reports whether name passes the keyword filter and returns the
// title-cased name.
func (f *Filter) Match(name string) (string, bool) {
	lower := strings.ToLower(name)
	if len(f.keywords) > 0 && !containsAny(lower, f.keywords) {
		return "", false
	}
	// A Caser carries state, so each call gets its own.
	return cases.Title(language.Und).String(lower), true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
