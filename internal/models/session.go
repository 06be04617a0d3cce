// internal/models/session.go

package models

import (
	"docpub/internal/crypto"
	"errors"
)

// Session binds one validated XML-RPC endpoint to the credentials that passed
// the identity check against it. The zero value is the unset session.
type Session struct {
	endpoint string
	username string
	secret   crypto.Sealed
	box      *crypto.Box
}

// NewSession seals the secret and freezes the binding. All three values are
// required.
func NewSession(endpoint, username, plainSecret string, box *crypto.Box) (Session, error) {
	if endpoint == "" || username == "" || plainSecret == "" {
		return Session{}, errors.New("endpoint, username and secret are required")
	}
	if box == nil {
		return Session{}, errors.New("secret box is required")
	}

	sealed, err := box.Seal(plainSecret)
	if err != nil {
		return Session{}, err
	}

	return Session{
		endpoint: endpoint,
		username: username,
		secret:   sealed,
		box:      box,
	}, nil
}

// IsZero reports whether no login has completed yet.
func (s Session) IsZero() bool {
	return s.endpoint == ""
}

func (s Session) Endpoint() string { return s.endpoint }
func (s Session) Username() string { return s.username }

// Secret opens the sealed secret. Callers hand it straight to a client.
func (s Session) Secret() (string, error) {
	if s.IsZero() {
		return "", errors.New("session is not established")
	}
	return s.box.Open(s.secret)
}
