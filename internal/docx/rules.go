package docx

import (
	"fmt"
	"regexp"
	"strings"
)

// htmlElement is one step of a rule's output path, e.g. "p.note:fresh".
type htmlElement struct {
	Tag     string
	Classes []string
	Fresh   bool
}

func (e htmlElement) matches(o htmlElement) bool {
	if e.Tag != o.Tag || len(e.Classes) != len(o.Classes) {
		return false
	}
	for i := range e.Classes {
		if e.Classes[i] != o.Classes[i] {
			return false
		}
	}
	return true
}

type htmlPath []htmlElement

// styleRule maps matching paragraphs to an output path. An ignore rule drops
// the paragraph.
type styleRule struct {
	styleID   string
	styleName string
	path      htmlPath
	ignore    bool
}

func (r styleRule) match(p *paragraph) bool {
	if r.styleID != "" && r.styleID != p.styleID {
		return false
	}
	if r.styleName != "" && !strings.EqualFold(r.styleName, p.styleName) {
		return false
	}
	return true
}

var elementPattern = regexp.MustCompile(`^([a-z][a-z0-9]*)((?:\.[A-Za-z0-9_-]+)*)(:fresh)?$`)

// parseStyleMap parses newline-separated rules. Blank lines and lines starting
// with '#' are skipped.
func parseStyleMap(text string) ([]styleRule, []Message) {
	var (
		rules    []styleRule
		messages []Message
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseRule(line)
		if err != nil {
			messages = append(messages, Message{
				Type: "warning",
				Text: fmt.Sprintf("Did not understand this style mapping, so ignored it: %s (%v)", line, err),
			})
			continue
		}
		rules = append(rules, rule)
	}
	return rules, messages
}

func parseRule(line string) (styleRule, error) {
	s := &scanner{src: line}
	var rule styleRule

	if !s.consume("p") {
		return rule, fmt.Errorf("only paragraph matchers are supported")
	}
	for {
		switch {
		case s.consume("."):
			id := s.takeWhile(func(r byte) bool {
				return r != '[' && r != '.' && r != ' ' && r != '\t'
			})
			if id == "" {
				return rule, fmt.Errorf("empty style id")
			}
			rule.styleID = id
			continue
		case s.consume("["):
			s.skipSpace()
			if !s.consume("style-name") {
				return rule, fmt.Errorf("expected style-name")
			}
			s.skipSpace()
			if !s.consume("=") {
				return rule, fmt.Errorf("expected '='")
			}
			s.skipSpace()
			name, err := s.quoted()
			if err != nil {
				return rule, err
			}
			s.skipSpace()
			if !s.consume("]") {
				return rule, fmt.Errorf("expected ']'")
			}
			rule.styleName = name
			continue
		}
		break
	}

	s.skipSpace()
	if !s.consume("=>") {
		return rule, fmt.Errorf("expected '=>'")
	}
	target := strings.TrimSpace(s.rest())
	if target == "!" {
		rule.ignore = true
		return rule, nil
	}

	path, err := parsePath(target)
	if err != nil {
		return rule, err
	}
	rule.path = path
	return rule, nil
}

func parsePath(target string) (htmlPath, error) {
	if target == "" {
		return nil, fmt.Errorf("empty output path")
	}
	var path htmlPath
	for _, part := range strings.Split(target, ">") {
		m := elementPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("invalid element %q", strings.TrimSpace(part))
		}
		el := htmlElement{Tag: m[1], Fresh: m[3] != ""}
		if m[2] != "" {
			el.Classes = strings.Split(strings.TrimPrefix(m[2], "."), ".")
		}
		path = append(path, el)
	}
	return path, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) consume(lit string) bool {
	if strings.HasPrefix(s.src[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) takeWhile(ok func(byte) bool) string {
	start := s.pos
	for s.pos < len(s.src) && ok(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

// quoted reads a single- or double-quoted string with backslash escapes.
func (s *scanner) quoted() (string, error) {
	if s.pos >= len(s.src) || (s.src[s.pos] != '\'' && s.src[s.pos] != '"') {
		return "", fmt.Errorf("expected quoted string")
	}
	quote := s.src[s.pos]
	s.pos++

	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\' && s.pos+1 < len(s.src):
			b.WriteByte(s.src[s.pos+1])
			s.pos += 2
		case c == quote:
			s.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", fmt.Errorf("unterminated string")
}

var headingPattern = regexp.MustCompile(`^(?i:heading\s*([1-6]))$`)

// defaultHeadingPath maps Heading 1-6 (by name or id) to h1-h6.
func defaultHeadingPath(p *paragraph) (htmlPath, bool) {
	for _, candidate := range []string{p.styleName, p.styleID} {
		if m := headingPattern.FindStringSubmatch(candidate); m != nil {
			return htmlPath{{Tag: "h" + m[1], Fresh: true}}, true
		}
	}
	return nil, false
}

// listPath nests ul/ol > li down to ilvl; only the innermost li is fresh.
func listPath(n numbering, numID string, ilvl int) htmlPath {
	var path htmlPath
	for lvl := 0; lvl <= ilvl; lvl++ {
		tag := "ul"
		if n.ordered(numID, lvl) {
			tag = "ol"
		}
		path = append(path,
			htmlElement{Tag: tag},
			htmlElement{Tag: "li", Fresh: lvl == ilvl},
		)
	}
	return path
}
