package db

import (
	"errors"
	"time"
)

// TimestampLayout is how SQLite's CURRENT_TIMESTAMP renders the created column.
const TimestampLayout = "2006-01-02 15:04:05"

// User is a row of the user table.
type User struct {
	ID           uint64
	Name         string
	PasswordHash []byte
}

// Post is a row of the post table.
type Post struct {
	ID       uint64
	AuthorID uint64
	Created  time.Time
	Title    string
	Body     string
}

// PostView is a Post joined with the username of its author.
type PostView struct {
	Post
	AuthorName string
}

// OwnedBy reports whether the post was written by userID.
func (p Post) OwnedBy(userID uint64) bool {
	return userID != 0 && p.AuthorID == userID
}

// PostCursor marks a position in the newest-first post listing. Listing
// before a cursor yields the posts that sort after it.
type PostCursor struct {
	Created time.Time `json:"c"`
	ID      uint64    `json:"i"`
}

// CursorOf returns the cursor positioned at post.
func CursorOf(post Post) PostCursor {
	return PostCursor{Created: post.Created, ID: post.ID}
}

// Validate reports whether the cursor can address a post.
func (c PostCursor) Validate() error {
	switch {
	case c.ID == 0:
		return errors.New("cursor post ID is required")
	case c.Created.IsZero():
		return errors.New("cursor timestamp is required")
	}
	return nil
}
