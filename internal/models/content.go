// internal/models/content.go

package models

import "strings"

// ContentKind selects between a WordPress post and page.
type ContentKind string

const (
	KindPost ContentKind = "post"
	KindPage ContentKind = "page"
)

// StatusPublish is the only status this tool submits.
const StatusPublish = "publish"

// ParseKind accepts "post"/"page" in any case.
func ParseKind(s string) (ContentKind, bool) {
	switch ContentKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPost:
		return KindPost, true
	case KindPage:
		return KindPage, true
	}
	return "", false
}

// Label is the capitalised name shown to the user.
func (k ContentKind) Label() string {
	switch k {
	case KindPost:
		return "Post"
	case KindPage:
		return "Page"
	}
	return string(k)
}

// Content is the remote content object submitted by wp.newPost.
type Content struct {
	Kind   ContentKind
	Status string
	Title  string
	Body   string
}

// NewContent builds a published content object of the given kind.
func NewContent(kind ContentKind, title, body string) Content {
	return Content{
		Kind:   kind,
		Status: StatusPublish,
		Title:  title,
		Body:   body,
	}
}
