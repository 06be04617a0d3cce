// internal/login/login.go

// Package login validates site credentials against the XML-RPC endpoint
// candidates for a host and freezes the first one that accepts them.
package login

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docpub/internal/crypto"
	apperr "docpub/internal/error"
	"docpub/internal/models"
	"docpub/internal/wordpress"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

const xmlrpcPath = "/xmlrpc.php"

const (
	msgMissingInput = "Error: All fields are required."
	msgInvalidURL   = "Error: Invalid URL entered."
	msgAuth         = "Login Failed: Invalid username or Application Password.\n(Use an Application Password, not your WP Admin login password)"
	msgNetwork      = "Connection Error:\nCould not reach site or XML-RPC disabled."
	msgNoAttempt    = "Login failed. Check details and ensure XML-RPC is enabled."
)

// NormalizeHost reduces what the user typed to host[:port][/path].
func NormalizeHost(raw string) string {
	s := strings.TrimSpace(raw)
	for _, scheme := range []string{"https://", "http://"} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			s = s[len(scheme):]
			break
		}
	}
	s = strings.TrimRight(s, "/")
	if len(s) >= len(xmlrpcPath) && strings.EqualFold(s[len(s)-len(xmlrpcPath):], xmlrpcPath) {
		s = strings.TrimRight(s[:len(s)-len(xmlrpcPath)], "/")
	}

	host, path, found := strings.Cut(s, "/")
	host = strings.ToLower(host)
	if found {
		return host + "/" + path
	}
	return host
}

// Candidates lists the endpoints to try for host, secure first.
func Candidates(host string) []string {
	return []string{
		"https://" + host + xmlrpcPath,
		"http://" + host + xmlrpcPath,
	}
}

// Profiler confirms an identity against one endpoint.
type Profiler interface {
	GetProfile(ctx context.Context) (*wordpress.Profile, error)
}

// ProfilerFactory builds a Profiler for one endpoint and credential pair.
type ProfilerFactory func(endpoint, username, secret string) Profiler

// WordPressProfilers returns a ProfilerFactory for the XML-RPC client.
func WordPressProfilers(opts ...wordpress.Option) ProfilerFactory {
	return func(endpoint, username, secret string) Profiler {
		return wordpress.New(endpoint, username, secret, opts...)
	}
}

// Outcome is the tagged result of one login attempt. Session is set only
// when Err is nil.
type Outcome struct {
	Session  models.Session
	Endpoint string
	Tried    []string
	Err      *apperr.AppError
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Authenticator struct {
	newProfiler ProfilerFactory
	box         *crypto.Box
	logger      *slog.Logger
}

func NewAuthenticator(newProfiler ProfilerFactory, box *crypto.Box, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{newProfiler: newProfiler, box: box, logger: logger}
}

// Login tries each candidate endpoint in order. A rejected credential or an
// unexpected error stops the search; a network failure moves on to the next
// candidate.
func (a *Authenticator) Login(ctx context.Context, site, username, secret string) Outcome {
	log := a.logger.With("attempt", uuid.NewString(), "op", "login")

	site = strings.TrimSpace(site)
	username = strings.TrimSpace(username)
	secret = strings.TrimSpace(secret)
	if site == "" || username == "" || secret == "" {
		return Outcome{Err: apperr.New(apperr.MissingInput, msgMissingInput, nil)}
	}
	host := NormalizeHost(site)
	if host == "" {
		return Outcome{Err: apperr.New(apperr.InvalidURL, msgInvalidURL, fmt.Errorf("no host in %q", site))}
	}

	var (
		out     Outcome
		lastErr error
	)
	for _, endpoint := range Candidates(host) {
		out.Tried = append(out.Tried, endpoint)
		log.Info("attempting connection", "endpoint", endpoint, "username", username)

		_, err := a.newProfiler(endpoint, username, secret).GetProfile(ctx)
		if err == nil {
			sess, err := models.NewSession(endpoint, username, secret, a.box)
			if err != nil {
				lastErr = pkgerrors.WithStack(err)
				break
			}
			log.Info("login validated", "endpoint", endpoint)
			out.Session = sess
			out.Endpoint = endpoint
			return out
		}

		lastErr = err
		typ, _ := wordpress.Classify(err)
		if typ != apperr.NetworkFailure {
			break
		}
		log.Warn("connection attempt failed", "endpoint", endpoint, "error", err)
	}

	out.Err = failure(lastErr)
	if out.Err.Type == apperr.UnexpectedFailure {
		log.Error("login failed",
			"category", out.Err.Category,
			"error", lastErr,
			"stack", fmt.Sprintf("%+v", pkgerrors.WithStack(lastErr)))
	} else {
		log.Warn("login failed", "type", out.Err.Type, "error", lastErr)
	}
	return out
}

// failure classifies the last recorded error of an exhausted search.
func failure(err error) *apperr.AppError {
	if err == nil {
		return &apperr.AppError{Type: apperr.UnexpectedFailure, Message: msgNoAttempt, Category: apperr.DefaultCategory}
	}
	typ, category := wordpress.Classify(err)
	switch typ {
	case apperr.AuthFailure:
		return apperr.New(apperr.AuthFailure, msgAuth, err)
	case apperr.NetworkFailure:
		return apperr.New(apperr.NetworkFailure, msgNetwork, err)
	}
	return &apperr.AppError{
		Type:     apperr.UnexpectedFailure,
		Message:  fmt.Sprintf("Login Error:\n%s. Check details.", category),
		Category: category,
		Err:      err,
	}
}
