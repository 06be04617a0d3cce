// Package docx reads paragraph styles from Word (.docx) documents and converts
// the document body to HTML under a caller-supplied style map.
//
// A .docx file is a ZIP archive; the parts used here are:
//
//	word/document.xml           body
//	word/styles.xml             style declarations (id, name, type)
//	word/numbering.xml          list formats
//	word/_rels/document.xml.rels hyperlink targets
//
// Usage:
//
//	conv := docx.New(docx.Config{Sanitize: true})
//	styles, err := conv.ReadStyles(path)
//	res, err := conv.Convert(ctx, path, "p[style-name='Quote'] => blockquote > p:fresh")
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Sentinel errors for document operations.
var (
	ErrInvalidDocument = errors.New("not a valid docx document")
	ErrTooLarge        = errors.New("document exceeds maximum size")
)

const (
	partDocument  = "word/document.xml"
	partStyles    = "word/styles.xml"
	partNumbering = "word/numbering.xml"
	partRels      = "word/_rels/document.xml.rels"

	// maxPartSize bounds the decompressed size of a single archive part.
	maxPartSize = 64 << 20
)

// Config configures the converter.
type Config struct {
	// MaxFileSize is the maximum file size to open (default: 50 MB).
	MaxFileSize int64 `yaml:"maxFileSize"`

	// Sanitize runs the rendered HTML through a UGC sanitising policy.
	Sanitize bool `yaml:"sanitize"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 50 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Message is a non-fatal note produced during conversion.
type Message struct {
	Type string // "warning"
	Text string
}

func (m Message) String() string {
	return m.Type + ": " + m.Text
}

// Result is the outcome of a conversion.
type Result struct {
	HTML     string
	Messages []Message
}

// Converter reads and converts .docx files. It holds no per-document state and
// is safe for concurrent use.
type Converter struct {
	cfg    Config
	logger *slog.Logger
	policy *bluemonday.Policy
}

// New creates a Converter with the given configuration.
func New(cfg Config) *Converter {
	cfg.defaults()
	c := &Converter{cfg: cfg, logger: cfg.Logger}
	if cfg.Sanitize {
		c.policy = outputPolicy()
	}
	return c
}

// ReadStyles returns the styles declared by the document, in declaration order.
// A document without a styles part has no styles.
func (c *Converter) ReadStyles(path string) ([]Style, error) {
	a, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	data, ok, err := a.read(partStyles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	styles, err := parseStyles(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, partStyles, err)
	}
	c.logger.Debug("read document styles", "path", path, "count", len(styles))
	return styles, nil
}

// Convert renders the document body as HTML. styleMap holds one rule per line;
// rules that cannot be parsed are reported as warnings and skipped.
func (c *Converter) Convert(ctx context.Context, path, styleMap string) (*Result, error) {
	rules, messages := parseStyleMap(styleMap)

	a, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	doc, err := a.load()
	if err != nil {
		return nil, err
	}

	conv := newConversion(doc, rules)
	root := &html.Node{Type: html.DocumentNode}
	if err := conv.convertBody(ctx, root); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
	}

	out := buf.String()
	if c.policy != nil {
		out = c.policy.Sanitize(out)
	}

	messages = append(messages, conv.messages...)
	c.logger.Debug("converted document", "path", path, "bytes", len(out), "messages", len(messages))
	return &Result{HTML: out, Messages: messages}, nil
}

type archive struct {
	r     *zip.ReadCloser
	files map[string]*zip.File
}

func (c *Converter) open(path string) (*archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidDocument, path)
	}
	if info.Size() > c.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), c.cfg.MaxFileSize)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", ErrInvalidDocument, err)
	}

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &archive{r: r, files: files}, nil
}

func (a *archive) Close() error {
	return a.r.Close()
}

// read returns the named part; ok is false when the archive has no such part.
func (a *archive) read(name string) (data []byte, ok bool, err error) {
	f, found := a.files[name]
	if !found {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("%w: open %s: %v", ErrInvalidDocument, name, err)
	}
	defer rc.Close()

	data, err = io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", ErrInvalidDocument, name, err)
	}
	if len(data) > maxPartSize {
		return nil, false, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, maxPartSize)
	}
	return data, true, nil
}

// document is every part the body conversion needs.
type document struct {
	body      *xmlNode
	styles    map[string]Style
	numbering numbering
	links     map[string]string
}

func (a *archive) load() (*document, error) {
	data, ok, err := a.read(partDocument)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s not found in archive", ErrInvalidDocument, partDocument)
	}
	root, err := parseTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, partDocument, err)
	}
	body := root.child("body")
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrInvalidDocument, partDocument)
	}

	doc := &document{
		body:   body,
		styles: make(map[string]Style),
	}

	if data, ok, err := a.read(partStyles); err != nil {
		return nil, err
	} else if ok {
		styles, err := parseStyles(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, partStyles, err)
		}
		for _, s := range styles {
			doc.styles[s.ID] = s
		}
	}

	if data, ok, err := a.read(partNumbering); err != nil {
		return nil, err
	} else if ok {
		if doc.numbering, err = parseNumbering(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, partNumbering, err)
		}
	}

	if data, ok, err := a.read(partRels); err != nil {
		return nil, err
	} else if ok {
		if doc.links, err = parseRelationships(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, partRels, err)
		}
	}

	return doc, nil
}
