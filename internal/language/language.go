package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// Language is one member of the closed set the gateway understands. The zero
// value is not a valid language; use Default for the fallback.
type Language struct {
	wire string
}

type entry struct {
	wire    string   // Form sent to the gateway
	code2   string   // ISO 639-1 (2-letter)
	aliases []string // Alternate word forms
}

var languages = []entry{
	{"english", "en", nil},
	{"mandarin", "zh", []string{"chinese", "zho", "chi"}},
	{"spanish", "es", []string{"spa"}},
	{"hindi", "hi", []string{"hin"}},
}

var byToken map[string]string

func init() {
	byToken = make(map[string]string, len(languages)*3)
	for _, e := range languages {
		byToken[e.wire] = e.wire
		byToken[e.code2] = e.wire
		for _, alias := range e.aliases {
			byToken[alias] = e.wire
		}
	}
}

// Default returns the language used when the user makes no selection.
func Default() Language {
	return Language{wire: "english"}
}

// All returns every supported language in stable order.
func All() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, Language{wire: e.wire})
	}
	return out
}

// Parse matches s against wire words, ISO codes, and common aliases,
// case-insensitively. The boolean is false for anything outside the set.
func Parse(s string) (Language, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == "" {
		return Language{}, false
	}
	wire, ok := byToken[token]
	if !ok {
		return Language{}, false
	}
	return Language{wire: wire}, true
}

// Wire returns the lowercase form sent to the gateway.
func (l Language) Wire() string {
	return l.wire
}

// Display returns the title-cased human name.
func (l Language) Display() string {
	if l.wire == "" {
		return "Unknown"
	}
	return cases.Title(xlang.English).String(l.wire)
}

// IsZero reports whether no language has been selected.
func (l Language) IsZero() bool {
	return l.wire == ""
}

func (l Language) String() string {
	return l.wire
}
