// Package stylemap turns document paragraph style names into CSS class tokens
// and the rule text understood by the docx converter.
package stylemap

import (
	"regexp"
	"strings"
)

const (
	classPrefix    = "style-"
	unnamedClass   = "style-unnamed"
	paragraphClass = "style-paragraph"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s\v\p{Z}-]`)
	whitespace = regexp.MustCompile(`[\s\v\p{Z}]+`)
)

// Sanitize converts a style name into a markup-safe class token.
// It is total over all strings and idempotent on its own output.
func Sanitize(name string) string {
	if name == "" {
		return unnamedClass
	}
	s := strings.ToLower(name)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return paragraphClass
	}
	if strings.HasPrefix(s, classPrefix) {
		// already a token; keeps Sanitize(Sanitize(x)) == Sanitize(x)
		return s
	}
	return classPrefix + s
}

// Kind is the style type declared by the document.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindCharacter Kind = "character"
	KindTable     Kind = "table"
	KindNumbering Kind = "numbering"
)

// Style is one declared document style.
type Style struct {
	Name string
	Kind Kind
}

// Rule maps paragraphs using StyleName to a fresh <p> carrying Class.
type Rule struct {
	StyleName string
	Class     string
}

func (r Rule) String() string {
	return "p[style-name='" + quote(r.StyleName) + "'] => p." + r.Class + ":fresh"
}

// Build returns one rule per named paragraph style, in declaration order.
func Build(styles []Style) []Rule {
	rules := make([]Rule, 0, len(styles))
	for _, s := range styles {
		if s.Kind != KindParagraph || s.Name == "" {
			continue
		}
		rules = append(rules, Rule{StyleName: s.Name, Class: Sanitize(s.Name)})
	}
	return rules
}

// Render joins rules into the newline-separated style map.
func Render(rules []Rule) string {
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
