// internal/publish/publish.go

// Package publish runs one document through style extraction, conversion and
// submission, and turns every failure into a user-facing status.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"docpub/internal/docx"
	apperr "docpub/internal/error"
	"docpub/internal/models"
	"docpub/internal/stylemap"
	"docpub/internal/wordpress"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// Status texts shown while idle and while a publish is running.
const (
	StatusIdle       = ""
	StatusProcessing = "Processing..."
)

const (
	msgSetupIncomplete = "Error: Setup incomplete."
	msgMissingInput    = "Error: File, Title, and Type required."
	msgEmptyHTML       = "Error: Conversion produced empty HTML."
	msgInvalidCreds    = "Error: Invalid WordPress credentials."
	msgNetwork         = "Network Error: could not reach the site."

	categoryInvalidDocument = "InvalidDocument"
)

// Converter is the document side of the pipeline.
type Converter interface {
	ReadStyles(path string) ([]docx.Style, error)
	Convert(ctx context.Context, path, styleMap string) (*docx.Result, error)
}

// Poster submits content to the remote site.
type Poster interface {
	NewPost(ctx context.Context, content models.Content) (string, error)
}

// ClientFactory builds a Poster bound to a session's endpoint and credentials.
type ClientFactory func(endpoint, username, secret string) Poster

// Request is built once per submit from the form fields.
type Request struct {
	Path  string
	Title string
	Kind  string
}

// Result is the terminal outcome of one Publish call. Err is nil on success.
type Result struct {
	ID     string
	Kind   models.ContentKind
	Title  string
	Status string
	Err    *apperr.AppError
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Publisher struct {
	conv      Converter
	newClient ClientFactory
	logger    *slog.Logger
}

func New(conv Converter, newClient ClientFactory, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conv: conv, newClient: newClient, logger: logger}
}

// WordPressClients returns a ClientFactory for the XML-RPC client.
func WordPressClients(opts ...wordpress.Option) ClientFactory {
	return func(endpoint, username, secret string) Poster {
		return wordpress.New(endpoint, username, secret, opts...)
	}
}

// Publish converts req.Path and submits it as a published post or page.
// Input is validated before any file or network access. There are no retries.
func (p *Publisher) Publish(ctx context.Context, sess models.Session, req Request) Result {
	res := Result{Title: strings.TrimSpace(req.Title)}
	log := p.logger.With("attempt", uuid.NewString(), "op", "publish")

	if sess.IsZero() {
		return p.fail(log, res, apperr.New(apperr.SetupIncomplete, msgSetupIncomplete, nil))
	}
	path := strings.TrimSpace(req.Path)
	if path == "" || res.Title == "" || strings.TrimSpace(req.Kind) == "" {
		return p.fail(log, res, apperr.New(apperr.MissingInput, msgMissingInput, nil))
	}
	kind, ok := models.ParseKind(req.Kind)
	if !ok {
		return p.fail(log, res, apperr.New(apperr.MissingInput, msgMissingInput,
			fmt.Errorf("unknown content kind %q", req.Kind)))
	}
	res.Kind = kind
	log.Info("publishing", "path", path, "kind", kind, "endpoint", sess.Endpoint())

	styles, err := p.conv.ReadStyles(path)
	if err != nil {
		return p.fail(log, res, documentError(path, err))
	}
	styleMap := stylemap.Render(stylemap.Build(paragraphStyles(styles)))
	log.Debug("built style map", "styles", len(styles), "map", styleMap)

	converted, err := p.conv.Convert(ctx, path, styleMap)
	if err != nil {
		return p.fail(log, res, documentError(path, err))
	}
	for _, m := range converted.Messages {
		log.Warn("conversion message", "type", m.Type, "text", m.Text)
	}
	if strings.TrimSpace(converted.HTML) == "" {
		return p.fail(log, res, apperr.New(apperr.ConversionEmpty, msgEmptyHTML,
			errors.New("conversion resulted in empty HTML")))
	}

	secret, err := sess.Secret()
	if err != nil {
		return p.fail(log, res, apperr.Unexpected(apperr.DefaultCategory, pkgerrors.WithStack(err)))
	}
	client := p.newClient(sess.Endpoint(), sess.Username(), secret)

	id, err := client.NewPost(ctx, models.NewContent(kind, res.Title, converted.HTML))
	if err != nil {
		return p.fail(log, res, remoteError(err))
	}

	res.ID = id
	res.Status = fmt.Sprintf("\"%s\" published as %s! (ID %s)", res.Title, kind.Label(), id)
	log.Info("published", "id", id, "kind", kind)
	return res
}

func (p *Publisher) fail(log *slog.Logger, res Result, err *apperr.AppError) Result {
	res.Err = err
	res.Status = err.Message

	switch err.Type {
	case apperr.UnexpectedFailure:
		log.Error("publish failed",
			"type", err.Type,
			"category", err.Category,
			"error", err.Err,
			"stack", fmt.Sprintf("%+v", err.Err))
	case apperr.NetworkFailure:
		var te *wordpress.TransportError
		kind := ""
		if errors.As(err.Err, &te) {
			kind = string(te.Kind)
		}
		log.Warn("publish failed", "type", err.Type, "transport", kind, "error", err.Err)
	default:
		log.Warn("publish failed", "type", err.Type, "error", err.Err)
	}
	return res
}

func paragraphStyles(styles []docx.Style) []stylemap.Style {
	out := make([]stylemap.Style, len(styles))
	for i, s := range styles {
		out[i] = stylemap.Style{Name: s.Name, Kind: stylemap.Kind(s.Type)}
	}
	return out
}

func documentError(path string, err error) *apperr.AppError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperr.New(apperr.FileNotFound, fmt.Sprintf("Error: File not found '%s'", path), err)
	case errors.Is(err, context.Canceled):
		return apperr.Unexpected(wordpress.CategoryCanceled, pkgerrors.WithStack(err))
	case errors.Is(err, docx.ErrInvalidDocument), errors.Is(err, docx.ErrTooLarge):
		return apperr.Unexpected(categoryInvalidDocument, pkgerrors.WithStack(err))
	}
	return apperr.Unexpected(apperr.DefaultCategory, pkgerrors.WithStack(err))
}

func remoteError(err error) *apperr.AppError {
	typ, category := wordpress.Classify(err)
	switch typ {
	case apperr.AuthFailure:
		return apperr.New(apperr.AuthFailure, msgInvalidCreds, err)
	case apperr.NetworkFailure:
		return apperr.New(apperr.NetworkFailure, msgNetwork, err)
	}
	return apperr.Unexpected(category, pkgerrors.WithStack(err))
}
