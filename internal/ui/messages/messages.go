package messages

import (
	"docpub/internal/login"
	"docpub/internal/publish"
)

// LoginResultMsg carries the outcome of a background login attempt.
type LoginResultMsg struct {
	Outcome login.Outcome
}

// PublishResultMsg carries the outcome of a background publish.
type PublishResultMsg struct {
	Result publish.Result
}
