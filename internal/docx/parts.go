package docx

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// StyleType is the w:type of a style declaration.
type StyleType string

const (
	StyleParagraph StyleType = "paragraph"
	StyleCharacter StyleType = "character"
	StyleTable     StyleType = "table"
	StyleNumbering StyleType = "numbering"
)

// Style is one entry of word/styles.xml.
type Style struct {
	ID   string
	Name string
	Type StyleType
}

// Built-in styles are stored with lowercase names; Word shows them capitalised.
var builtinNames = map[string]string{
	"caption": "Caption",
	"footer":  "Footer",
	"header":  "Header",
	"title":   "Title",
}

func displayName(name string) string {
	if ui, ok := builtinNames[name]; ok {
		return ui
	}
	if rest, ok := strings.CutPrefix(name, "heading "); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 9 {
			return "Heading " + rest
		}
	}
	return name
}

type stylesPart struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

func parseStyles(data []byte) ([]Style, error) {
	var part stylesPart
	if err := xml.Unmarshal(data, &part); err != nil {
		return nil, err
	}

	styles := make([]Style, 0, len(part.Styles))
	for _, s := range part.Styles {
		typ := StyleType(s.Type)
		if typ == "" {
			typ = StyleParagraph
		}
		styles = append(styles, Style{
			ID:   s.StyleID,
			Name: displayName(s.Name.Val),
			Type: typ,
		})
	}
	return styles, nil
}

// numbering resolves (numId, ilvl) to whether the list level is ordered.
type numbering struct {
	abstractOf map[string]string          // numId -> abstractNumId
	formats    map[string]map[int]string // abstractNumId -> ilvl -> numFmt
}

type numberingPart struct {
	AbstractNums []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Ilvl   string `xml:"ilvl,attr"`
			NumFmt struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID            string `xml:"numId,attr"`
		AbstractNumID struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

func parseNumbering(data []byte) (numbering, error) {
	var part numberingPart
	if err := xml.Unmarshal(data, &part); err != nil {
		return numbering{}, err
	}

	n := numbering{
		abstractOf: make(map[string]string, len(part.Nums)),
		formats:    make(map[string]map[int]string, len(part.AbstractNums)),
	}
	for _, a := range part.AbstractNums {
		levels := make(map[int]string, len(a.Levels))
		for _, l := range a.Levels {
			ilvl, err := strconv.Atoi(l.Ilvl)
			if err != nil {
				continue
			}
			levels[ilvl] = l.NumFmt.Val
		}
		n.formats[a.ID] = levels
	}
	for _, num := range part.Nums {
		n.abstractOf[num.ID] = num.AbstractNumID.Val
	}
	return n, nil
}

// ordered reports whether the list level uses a numbering format other than
// bullets. Unknown lists are treated as bulleted.
func (n numbering) ordered(numID string, ilvl int) bool {
	levels := n.formats[n.abstractOf[numID]]
	format, ok := levels[ilvl]
	return ok && format != "bullet" && format != "none" && format != ""
}

type relsPart struct {
	Rels []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// parseRelationships returns hyperlink targets keyed by relationship id.
func parseRelationships(data []byte) (map[string]string, error) {
	var part relsPart
	if err := xml.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	links := make(map[string]string)
	for _, r := range part.Rels {
		if strings.HasSuffix(r.Type, "/hyperlink") {
			links[r.ID] = r.Target
		}
	}
	return links, nil
}

// xmlNode is a generic, order-preserving element tree.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func parseTree(data []byte) (*xmlNode, error) {
	var root xmlNode
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (n *xmlNode) name() string {
	return n.XMLName.Local
}

func (n *xmlNode) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) child(local string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// childVal returns the w:val attribute of the named child.
func (n *xmlNode) childVal(local string) (string, bool) {
	c := n.child(local)
	if c == nil {
		return "", false
	}
	return c.attr("val")
}

// toggle reads an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func (n *xmlNode) toggle(local string) bool {
	c := n.child(local)
	if c == nil {
		return false
	}
	v, ok := c.attr("val")
	if !ok {
		return true
	}
	switch strings.ToLower(v) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}
