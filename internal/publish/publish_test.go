package publish

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docpub/internal/crypto"
	"docpub/internal/docx"
	apperr "docpub/internal/error"
	"docpub/internal/models"
)

type fakeConverter struct {
	styles     []docx.Style
	stylesErr  error
	html       string
	convertErr error

	gotStyleMap string
	calls       int
}

func (f *fakeConverter) ReadStyles(path string) ([]docx.Style, error) {
	f.calls++
	return f.styles, f.stylesErr
}

func (f *fakeConverter) Convert(ctx context.Context, path, styleMap string) (*docx.Result, error) {
	f.calls++
	f.gotStyleMap = styleMap
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return &docx.Result{HTML: f.html, Messages: []docx.Message{{Type: "warning", Text: "w"}}}, nil
}

type fakePoster struct {
	id   string
	err  error
	got  []models.Content
	cred [3]string
}

func (f *fakePoster) NewPost(ctx context.Context, c models.Content) (string, error) {
	f.got = append(f.got, c)
	return f.id, f.err
}

func (f *fakePoster) factory() ClientFactory {
	return func(endpoint, username, secret string) Poster {
		f.cred = [3]string{endpoint, username, secret}
		return f
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func session(t *testing.T) models.Session {
	t.Helper()
	box, err := crypto.NewBox(nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := models.NewSession("https://example.com/xmlrpc.php", "editor", "app-pass", box)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPublishPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		sess    bool
		req     Request
		want    apperr.ErrorType
		message string
	}{
		{"no session", false, Request{"a.docx", "T", "post"}, apperr.SetupIncomplete, "Error: Setup incomplete."},
		{"empty title", true, Request{"a.docx", "", "post"}, apperr.MissingInput, "Error: File, Title, and Type required."},
		{"blank title", true, Request{"a.docx", "   ", "post"}, apperr.MissingInput, "Error: File, Title, and Type required."},
		{"empty path", true, Request{"", "T", "page"}, apperr.MissingInput, "Error: File, Title, and Type required."},
		{"empty kind", true, Request{"a.docx", "T", ""}, apperr.MissingInput, "Error: File, Title, and Type required."},
		{"unknown kind", true, Request{"a.docx", "T", "story"}, apperr.MissingInput, "Error: File, Title, and Type required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{html: "<p>x</p>"}
			poster := &fakePoster{id: "1"}
			var sess models.Session
			if tt.sess {
				sess = session(t)
			}

			res := New(conv, poster.factory(), quietLogger()).Publish(context.Background(), sess, tt.req)
			if res.OK() || res.Err.Type != tt.want {
				t.Fatalf("result = %+v, want %v", res, tt.want)
			}
			if res.Status != tt.message {
				t.Errorf("status = %q, want %q", res.Status, tt.message)
			}
			if conv.calls != 0 || len(poster.got) != 0 {
				t.Errorf("converter calls = %d, posts = %d, want none", conv.calls, len(poster.got))
			}
		})
	}
}

func TestPublishEmptyConversion(t *testing.T) {
	for _, html := range []string{"", "  \n\t "} {
		conv := &fakeConverter{html: html}
		poster := &fakePoster{id: "1"}

		res := New(conv, poster.factory(), quietLogger()).Publish(context.Background(), session(t), Request{"a.docx", "T", "post"})
		if res.OK() || res.Err.Type != apperr.ConversionEmpty {
			t.Fatalf("html %q: result = %+v, want ConversionEmpty", html, res)
		}
		if len(poster.got) != 0 {
			t.Errorf("html %q: content submitted", html)
		}
	}
}

func TestPublishSuccess(t *testing.T) {
	conv := &fakeConverter{
		styles: []docx.Style{
			{ID: "Normal", Name: "Normal", Type: docx.StyleParagraph},
			{ID: "Strong", Name: "Strong", Type: docx.StyleCharacter},
		},
		html: "<p class=\"style-normal\">Hi</p>",
	}
	poster := &fakePoster{id: "42"}

	res := New(conv, poster.factory(), quietLogger()).Publish(context.Background(), session(t), Request{" a.docx ", "Hello", "Page"})
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.ID != "42" || res.Kind != models.KindPage {
		t.Errorf("result = %+v", res)
	}
	if want := `"Hello" published as Page! (ID 42)`; res.Status != want {
		t.Errorf("status = %q, want %q", res.Status, want)
	}
	if conv.gotStyleMap != "p[style-name='Normal'] => p.style-normal:fresh" {
		t.Errorf("style map = %q", conv.gotStyleMap)
	}
	if poster.cred != [3]string{"https://example.com/xmlrpc.php", "editor", "app-pass"} {
		t.Errorf("client credentials = %v", poster.cred)
	}
	if len(poster.got) != 1 {
		t.Fatalf("posts = %d, want 1", len(poster.got))
	}
	want := models.Content{Kind: models.KindPage, Status: models.StatusPublish, Title: "Hello", Body: conv.html}
	if poster.got[0] != want {
		t.Errorf("content = %+v, want %+v", poster.got[0], want)
	}
}

func TestPublishFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.docx")
	_, statErr := os.Stat(missing)

	tests := []struct {
		name     string
		conv     *fakeConverter
		poster   *fakePoster
		want     apperr.ErrorType
		category string
		status   string
	}{
		{
			name:   "file not found",
			conv:   &fakeConverter{stylesErr: statErr},
			poster: &fakePoster{},
			want:   apperr.FileNotFound,
			status: "Error: File not found '" + missing + "'",
		},
		{
			name:     "invalid document",
			conv:     &fakeConverter{convertErr: docx.ErrInvalidDocument},
			poster:   &fakePoster{},
			want:     apperr.UnexpectedFailure,
			category: "InvalidDocument",
			status:   "Error: InvalidDocument. Check the log.",
		},
		{
			name:     "unexpected poster error",
			conv:     &fakeConverter{html: "<p>x</p>"},
			poster:   &fakePoster{err: errors.New("boom")},
			want:     apperr.UnexpectedFailure,
			category: "InternalError",
			status:   "Error: InternalError. Check the log.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.conv, tt.poster.factory(), quietLogger()).Publish(context.Background(), session(t), Request{missing, "T", "post"})
			if res.OK() || res.Err.Type != tt.want || res.Err.Category != tt.category {
				t.Fatalf("result err = %+v, want %v/%q", res.Err, tt.want, tt.category)
			}
			if res.Status != tt.status {
				t.Errorf("status = %q, want %q", res.Status, tt.status)
			}
			if strings.Contains(res.Status, "boom") {
				t.Errorf("diagnostic leaked into status: %q", res.Status)
			}
		})
	}
}

// End to end against a real converter and an XML-RPC test server.

func writeDocx(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "post.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body+`</w:body></w:document>`)
	w, err = zw.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
		`<w:style w:type="paragraph" w:styleId="Intro"><w:name w:val="Intro Text"/></w:style></w:styles>`)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublishEndToEnd(t *testing.T) {
	var request string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		request = string(data)
		io.WriteString(w, `<?xml version="1.0"?><methodResponse><params><param><value><string>99</string></value></param></params></methodResponse>`)
	}))
	defer srv.Close()

	box, _ := crypto.NewBox(nil)
	sess, err := models.NewSession(srv.URL, "editor", "app-pass", box)
	if err != nil {
		t.Fatal(err)
	}
	path := writeDocx(t, `<w:p><w:pPr><w:pStyle w:val="Intro"/></w:pPr><w:r><w:t>Hi there</w:t></w:r></w:p>`)

	p := New(docx.New(docx.Config{Sanitize: true, Logger: quietLogger()}), WordPressClients(), quietLogger())
	res := p.Publish(context.Background(), sess, Request{Path: path, Title: "Hello", Kind: "page"})
	if !res.OK() {
		t.Fatalf("publish failed: %v", res.Err)
	}
	if res.ID != "99" || !strings.Contains(res.Status, "Hello") || !strings.Contains(res.Status, "Page") {
		t.Errorf("result = %+v", res)
	}
	for _, want := range []string{
		"<string>page</string>",
		"<string>publish</string>",
		"<string>Hello</string>",
		"&lt;p class=&#34;style-intro-text&#34;&gt;Hi there&lt;/p&gt;",
	} {
		if !strings.Contains(request, want) {
			t.Errorf("request missing %q:\n%s", want, request)
		}
	}
}

func TestPublishEndToEndNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	box, _ := crypto.NewBox(nil)
	sess, _ := models.NewSession(url, "editor", "app-pass", box)
	path := writeDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)

	res := New(docx.New(docx.Config{Logger: quietLogger()}), WordPressClients(), quietLogger()).
		Publish(context.Background(), sess, Request{Path: path, Title: "T", Kind: "post"})
	if res.OK() || res.Err.Type != apperr.NetworkFailure {
		t.Fatalf("result = %+v, want NetworkFailure", res)
	}
	if res.Status != "Network Error: could not reach the site." {
		t.Errorf("status = %q", res.Status)
	}
}

func TestPublishEndToEndAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<?xml version="1.0"?><methodResponse><fault><value><struct>`+
			`<member><name>faultCode</name><value><int>403</int></value></member>`+
			`<member><name>faultString</name><value><string>Incorrect username or password.</string></value></member>`+
			`</struct></value></fault></methodResponse>`)
	}))
	defer srv.Close()

	box, _ := crypto.NewBox(nil)
	sess, _ := models.NewSession(srv.URL, "editor", "app-pass", box)
	path := writeDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)

	res := New(docx.New(docx.Config{Logger: quietLogger()}), WordPressClients(), quietLogger()).
		Publish(context.Background(), sess, Request{Path: path, Title: "T", Kind: "post"})
	if res.OK() || res.Err.Type != apperr.AuthFailure {
		t.Fatalf("result = %+v, want AuthFailure", res)
	}
}
