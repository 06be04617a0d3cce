package wordpress

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperr "docpub/internal/error"
	"docpub/internal/models"
)

const faultReply = `<?xml version="1.0" encoding="UTF-8"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>%d</int></value></member>
<member><name>faultString</name><value><string>%s</string></value></member>
</struct></value></fault></methodResponse>`

const profileReply = `<?xml version="1.0" encoding="UTF-8"?>
<methodResponse><params><param><value><struct>
<member><name>user_id</name><value><string>7</string></value></member>
<member><name>username</name><value><string>editor</string></value></member>
<member><name>display_name</name><value><string>Ed Itor</string></value></member>
<member><name>roles</name><value><array><data><value><string>editor</string></value></data></array></value></member>
</struct></value></param></params></methodResponse>`

func reply(s string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><methodResponse><params><param><value>` + s + `</value></param></params></methodResponse>`
}

// xmlrpcServer answers every request with body and records the last request.
func xmlrpcServer(t *testing.T, status int, body string, last *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/xml" {
			t.Errorf("Content-Type = %q", ct)
		}
		if last != nil {
			data, _ := io.ReadAll(r.Body)
			*last = string(data)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetProfile(t *testing.T) {
	var req string
	srv := xmlrpcServer(t, http.StatusOK, profileReply, &req)

	p, err := New(srv.URL, "editor", "app pass").GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.UserID != "7" || p.Username != "editor" || p.DisplayName != "Ed Itor" {
		t.Errorf("profile = %+v", p)
	}
	for _, want := range []string{"<methodName>wp.getProfile</methodName>", "<int>0</int>", "editor", "app pass"} {
		if !strings.Contains(req, want) {
			t.Errorf("request missing %q: %s", want, req)
		}
	}
}

func TestClientOptions(t *testing.T) {
	var req string
	srv := xmlrpcServer(t, http.StatusOK, profileReply, &req)
	hc := srv.Client()

	c := New(srv.URL, "editor", "app pass", WithHTTPClient(hc), WithTimeout(time.Second), WithBlogID(5))
	if _, err := c.GetProfile(context.Background()); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !strings.Contains(req, "<int>5</int>") {
		t.Errorf("request does not carry blog id 5: %s", req)
	}
	if hc.Timeout != 0 {
		t.Errorf("WithTimeout changed the caller's client: Timeout = %v", hc.Timeout)
	}
}

func TestGetProfileInvalidCredentials(t *testing.T) {
	srv := xmlrpcServer(t, http.StatusOK, strings.Replace(strings.Replace(faultReply, "%d", "403", 1), "%s", "Incorrect username or password.", 1), nil)

	_, err := New(srv.URL, "u", "bad").GetProfile(context.Background())
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	var fault *FaultError
	if !errors.As(err, &fault) || fault.Message != "Incorrect username or password." {
		t.Errorf("fault = %+v", fault)
	}
	if typ, _ := Classify(err); typ != apperr.AuthFailure {
		t.Errorf("Classify = %v, want AuthFailure", typ)
	}
}

func TestNewPost(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"string id", reply("<string>42</string>"), "42"},
		{"int id", reply("<int>43</int>"), "43"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req string
			srv := xmlrpcServer(t, http.StatusOK, tt.reply, &req)

			content := models.NewContent(models.KindPage, "Hello", "<p>Hi</p>")
			id, err := New(srv.URL, "u", "s").NewPost(context.Background(), content)
			if err != nil {
				t.Fatalf("NewPost: %v", err)
			}
			if id != tt.want {
				t.Errorf("id = %q, want %q", id, tt.want)
			}
			for _, want := range []string{
				"<methodName>wp.newPost</methodName>",
				"<name>post_type</name><value><string>page</string></value>",
				"<name>post_status</name><value><string>publish</string></value>",
				"<name>post_title</name><value><string>Hello</string></value>",
				"&lt;p&gt;Hi&lt;/p&gt;",
			} {
				if !strings.Contains(req, want) {
					t.Errorf("request missing %q: %s", want, req)
				}
			}
		})
	}
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		check    func(error) bool
		wantType apperr.ErrorType
		wantCat  string
	}{
		{
			name:   "http 500",
			status: http.StatusInternalServerError,
			body:   "oops",
			check: func(err error) bool {
				var te *TransportError
				return errors.As(err, &te) && te.Kind == KindProtocol
			},
			wantType: apperr.NetworkFailure,
		},
		{
			name:     "not xml-rpc",
			status:   http.StatusOK,
			body:     "<html>hello</html>",
			check:    func(err error) bool { return errors.Is(err, ErrMalformedResponse) },
			wantType: apperr.UnexpectedFailure,
			wantCat:  CategoryMalformedResponse,
		},
		{
			name:   "other fault",
			status: http.StatusOK,
			body:   strings.Replace(strings.Replace(faultReply, "%d", "405", 1), "%s", "XML-RPC services are disabled", 1),
			check: func(err error) bool {
				var f *FaultError
				return errors.As(err, &f) && f.Code == 405 && !errors.Is(err, ErrInvalidCredentials)
			},
			wantType: apperr.UnexpectedFailure,
			wantCat:  CategoryRemoteFault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := xmlrpcServer(t, tt.status, tt.body, nil)
			_, err := New(srv.URL, "u", "s").GetProfile(context.Background())
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
			typ, cat := Classify(err)
			if typ != tt.wantType || cat != tt.wantCat {
				t.Errorf("Classify = (%v, %q), want (%v, %q)", typ, cat, tt.wantType, tt.wantCat)
			}
		})
	}
}

func TestCallUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, "u", "s").GetProfile(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Kind != KindConnection {
		t.Errorf("kind = %s, want connection", te.Kind)
	}
}

func TestCallTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	_, err := New(srv.URL, "u", "s", WithTimeout(50*time.Millisecond)).GetProfile(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.Kind != KindTimeout {
		t.Fatalf("err = %v, want timeout transport error", err)
	}
}

func TestCallCanceled(t *testing.T) {
	srv := xmlrpcServer(t, http.StatusOK, profileReply, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, "u", "s").GetProfile(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, cat := Classify(err); cat != CategoryCanceled {
		t.Errorf("category = %q, want %q", cat, CategoryCanceled)
	}
}

func TestTransportKind(t *testing.T) {
	if k := transportKind(context.DeadlineExceeded); k != KindTimeout {
		t.Errorf("deadline: %s", k)
	}
	if k := transportKind(errors.New("connection reset")); k != KindConnection {
		t.Errorf("plain: %s", k)
	}
}
