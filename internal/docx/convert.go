package docx

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxListLevel is the deepest w:ilvl Word allows.
const maxListLevel = 8

// paragraph is the resolved w:pPr of one w:p.
type paragraph struct {
	styleID   string
	styleName string
	numID     string
	ilvl      int
	numbered  bool
}

// runFormat is the subset of w:rPr that maps to markup.
type runFormat struct {
	bold, italic, strike bool
	vertAlign            string
}

// tags lists wrapper elements outermost first.
func (f runFormat) tags() []string {
	var tags []string
	if f.bold {
		tags = append(tags, "strong")
	}
	if f.italic {
		tags = append(tags, "em")
	}
	if f.strike {
		tags = append(tags, "s")
	}
	switch f.vertAlign {
	case "superscript":
		tags = append(tags, "sup")
	case "subscript":
		tags = append(tags, "sub")
	}
	return tags
}

type openElement struct {
	el   htmlElement
	node *html.Node
}

// blockWriter appends paragraph paths to a container, reusing open elements
// that a non-fresh path step matches.
type blockWriter struct {
	root  *html.Node
	stack []openElement
}

func (w *blockWriter) open(path htmlPath) *html.Node {
	depth := 0
	for depth < len(path) && depth < len(w.stack) {
		want := path[depth]
		if want.Fresh || !w.stack[depth].el.matches(want) {
			break
		}
		depth++
	}
	w.stack = w.stack[:depth]

	parent := w.root
	if depth > 0 {
		parent = w.stack[depth-1].node
	}
	for _, el := range path[depth:] {
		n := newElement(el.Tag)
		if len(el.Classes) > 0 {
			n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(el.Classes, " ")})
		}
		parent.AppendChild(n)
		w.stack = append(w.stack, openElement{el: el, node: n})
		parent = n
	}
	return parent
}

// closeAll ends every open element so the next block starts at the root.
func (w *blockWriter) closeAll() {
	w.stack = w.stack[:0]
}

type conversion struct {
	doc      *document
	rules    []styleRule
	messages []Message
	warned   map[string]bool
}

func newConversion(doc *document, rules []styleRule) *conversion {
	return &conversion{
		doc:    doc,
		rules:  rules,
		warned: make(map[string]bool),
	}
}

func (c *conversion) warn(key, text string) {
	if c.warned[key] {
		return
	}
	c.warned[key] = true
	c.messages = append(c.messages, Message{Type: "warning", Text: text})
}

func (c *conversion) convertBody(ctx context.Context, root *html.Node) error {
	w := &blockWriter{root: root}
	for i := range c.doc.body.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.block(&c.doc.body.Nodes[i], w)
	}
	return nil
}

func (c *conversion) blocks(nodes []xmlNode, w *blockWriter) {
	for i := range nodes {
		c.block(&nodes[i], w)
	}
}

func (c *conversion) block(n *xmlNode, w *blockWriter) {
	switch n.name() {
	case "p":
		c.paragraph(n, w)
	case "tbl":
		c.table(n, w)
	case "sdt":
		if content := n.child("sdtContent"); content != nil {
			c.blocks(content.Nodes, w)
		}
	case "customXml", "ins", "smartTag":
		c.blocks(n.Nodes, w)
	}
}

func (c *conversion) paragraphProps(n *xmlNode) *paragraph {
	p := &paragraph{}
	props := n.child("pPr")
	if props == nil {
		return p
	}
	if id, ok := props.childVal("pStyle"); ok {
		p.styleID = id
		p.styleName = c.doc.styles[id].Name
	}
	if num := props.child("numPr"); num != nil {
		id, _ := num.childVal("numId")
		if id != "" && id != "0" {
			p.numbered = true
			p.numID = id
			if lvl, ok := num.childVal("ilvl"); ok {
				p.ilvl = listLevel(lvl)
			}
		}
	}
	return p
}

// listLevel parses w:ilvl into 0..maxListLevel; junk and negatives are 0.
func listLevel(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	switch {
	case err != nil || n < 0:
		return 0
	case n > maxListLevel:
		return maxListLevel
	}
	return n
}

// pathFor picks the output path: explicit rule, then list, then heading
// default, then a plain fresh <p>.
func (c *conversion) pathFor(p *paragraph) (path htmlPath, ignore bool) {
	for _, r := range c.rules {
		if r.match(p) {
			return r.path, r.ignore
		}
	}
	if p.numbered {
		return listPath(c.doc.numbering, p.numID, p.ilvl), false
	}
	if path, ok := defaultHeadingPath(p); ok {
		return path, false
	}
	if p.styleID != "" {
		name := p.styleName
		if name == "" {
			name = p.styleID
		}
		c.warn("pstyle:"+p.styleID,
			fmt.Sprintf("Unrecognised paragraph style: '%s' (Style ID: %s)", name, p.styleID))
	}
	return htmlPath{{Tag: "p", Fresh: true}}, false
}

func (c *conversion) paragraph(n *xmlNode, w *blockWriter) {
	p := c.paragraphProps(n)

	content := &html.Node{Type: html.DocumentNode}
	c.inlines(n.Nodes, content)
	if !hasContent(content) {
		return
	}

	path, ignore := c.pathFor(p)
	if ignore {
		return
	}
	target := w.open(path)
	for child := content.FirstChild; child != nil; {
		next := child.NextSibling
		content.RemoveChild(child)
		target.AppendChild(child)
		child = next
	}
}

func (c *conversion) table(n *xmlNode, w *blockWriter) {
	w.closeAll()
	table := newElement("table")
	for i := range n.Nodes {
		row := &n.Nodes[i]
		if row.name() != "tr" {
			continue
		}
		tr := newElement("tr")
		for j := range row.Nodes {
			cell := &row.Nodes[j]
			if cell.name() != "tc" {
				continue
			}
			td := newElement("td")
			if props := cell.child("tcPr"); props != nil {
				if span, ok := props.childVal("gridSpan"); ok {
					if v, err := strconv.Atoi(span); err == nil && v > 1 {
						td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: span})
					}
				}
			}
			c.blocks(cell.Nodes, &blockWriter{root: td})
			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}
	w.root.AppendChild(table)
}

// inlines converts paragraph-level children (runs, hyperlinks, wrappers).
func (c *conversion) inlines(nodes []xmlNode, parent *html.Node) {
	for i := range nodes {
		n := &nodes[i]
		switch n.name() {
		case "r":
			c.run(n, parent)
		case "hyperlink":
			a := newElement("a")
			if href := c.hyperlinkTarget(n); href != "" {
				a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: href})
			}
			c.inlines(n.Nodes, a)
			if a.FirstChild != nil {
				parent.AppendChild(a)
			}
		case "bookmarkStart":
			if name, ok := n.attr("name"); ok && name != "_GoBack" {
				a := newElement("a")
				a.Attr = append(a.Attr, html.Attribute{Key: "id", Val: name})
				parent.AppendChild(a)
			}
		case "ins", "smartTag", "customXml", "fldSimple", "moveTo":
			c.inlines(n.Nodes, parent)
		case "sdt":
			if content := n.child("sdtContent"); content != nil {
				c.inlines(content.Nodes, parent)
			}
		}
	}
}

func (c *conversion) hyperlinkTarget(n *xmlNode) string {
	href := ""
	if id, ok := n.attr("id"); ok {
		href = c.doc.links[id]
	}
	if anchor, ok := n.attr("anchor"); ok && anchor != "" {
		if i := strings.Index(href, "#"); i >= 0 {
			href = href[:i]
		}
		href += "#" + anchor
	}
	return href
}

func (c *conversion) run(n *xmlNode, parent *html.Node) {
	var f runFormat
	if props := n.child("rPr"); props != nil {
		f.bold = props.toggle("b")
		f.italic = props.toggle("i")
		f.strike = props.toggle("strike") || props.toggle("dstrike")
		f.vertAlign, _ = props.childVal("vertAlign")
	}

	for i := range n.Nodes {
		child := &n.Nodes[i]
		switch child.name() {
		case "t":
			if child.Content != "" {
				appendFormatted(parent, f, &html.Node{Type: html.TextNode, Data: child.Content})
			}
		case "tab":
			appendFormatted(parent, f, &html.Node{Type: html.TextNode, Data: "\t"})
		case "noBreakHyphen":
			appendFormatted(parent, f, &html.Node{Type: html.TextNode, Data: "-"})
		case "br":
			if typ, _ := child.attr("type"); typ == "page" || typ == "column" {
				continue
			}
			appendFormatted(parent, f, newElement("br"))
		case "cr":
			appendFormatted(parent, f, newElement("br"))
		case "drawing", "pict", "object":
			c.warn("image", "Image omitted: embedded images are not uploaded")
		}
	}
}

// appendFormatted places child inside the run's wrapper elements, reusing the
// trailing wrappers of the previous run when they match.
func appendFormatted(parent *html.Node, f runFormat, child *html.Node) {
	target := parent
	for _, tag := range f.tags() {
		last := target.LastChild
		if last != nil && last.Type == html.ElementNode && last.Data == tag {
			target = last
			continue
		}
		el := newElement(tag)
		target.AppendChild(el)
		target = el
	}
	target.AppendChild(child)
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// hasContent reports whether n holds any text or line break. Bookmark anchors
// alone do not count.
func hasContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && c.Data != "":
			return true
		case c.Type == html.ElementNode && c.DataAtom == atom.Br:
			return true
		case hasContent(c):
			return true
		}
	}
	return false
}
