package models

import (
	"time"

	"github.com/google/uuid"
)

// Longer titles are cut to this many characters before storing
const PostTitleMaxLen = 120

type Post struct {
	ID       uuid.UUID
	Title    string
	Body     string
	PostedAt time.Time
	OwnerID  uuid.UUID

	// Filled on read from the owner's row, ignored on create
	OwnerUsername string
}

// Return title cut to PostTitleMaxLen characters
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= PostTitleMaxLen {
		return title
	}
	return string(runes[:PostTitleMaxLen])
}
