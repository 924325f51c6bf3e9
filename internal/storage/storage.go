// Package storage provides the state management for users and posts, and the
// request-scoped connection lifecycle the rest of the app builds on.
package storage

import (
	"context"

	"github.com/stolasapp/quill/internal/storage/db"
)

const (
	// ErrNotFound is returned when a post or user cannot be found.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique user already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrForbidden is returned when a post is modified by someone other than
	// its author.
	ErrForbidden Error = "forbidden"
	// ErrNoScope is returned when a connection is requested outside of a
	// [Scoper.Scope].
	ErrNoScope Error = "no connection scope"
	// ErrScopeReleased is returned when a connection is requested from a
	// scope that has already been released.
	ErrScopeReleased Error = "connection scope released"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// ValidationError reports a missing or malformed input field. Message is safe
// to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

// Error satisfies [error].
func (e ValidationError) Error() string { return e.Message }

// Scoper opens units of work that share one database connection.
type Scoper interface {
	// Scope returns a context carrying an empty connection slot and the
	// function that releases it. Storage calls made with the returned
	// context share a single connection, acquired on first use. The release
	// function must be called exactly once when the unit of work ends; further
	// calls are no-ops.
	Scope(ctx context.Context) (context.Context, func() error)
}

// Users are the methods on a storage implementation that are responsible for
// accessing and modifying users.
type Users interface {
	// ListUsers returns the users in a list, paginated by the given name (if
	// provided) up to the given limit of records.
	ListUsers(ctx context.Context, afterName string, limit int32) ([]db.User, error)
	// GetUser returns a single user with the specified ID. An [ErrNotFound] is
	// returned if the user ID does not exist.
	GetUser(ctx context.Context, userID uint64) (db.User, error)
	// GetUserByName returns a single user with the specified name. An
	// [ErrNotFound] is returned if the user name does not exist.
	GetUserByName(ctx context.Context, name string) (db.User, error)
	// CreateUser inserts the user, assigning its ID. An [ErrAlreadyExists]
	// error is returned if the username is already in use.
	CreateUser(ctx context.Context, user db.User) (db.User, error)
	// DeleteUser removes a user and all their posts. Note that this is a hard
	// delete; data is not recoverable.
	DeleteUser(ctx context.Context, userID uint64) error
}

// Posts are the methods on a storage implementation that are responsible for
// accessing and modifying blog posts. Mutations are checked against the
// acting author: an [ErrNotFound] is returned if the post does not exist and
// an [ErrForbidden] if it belongs to someone else.
type Posts interface {
	// ListRecentPosts returns up to limit posts newest first, joined with
	// their author. If before is set, only posts that sort after it are
	// returned. A non-positive limit selects the maximum.
	ListRecentPosts(ctx context.Context, before *db.PostCursor, limit int32) ([]db.PostView, error)
	// GetPost returns a post for editing by authorID.
	GetPost(ctx context.Context, postID, authorID uint64) (db.Post, error)
	// CreatePost writes a new post by authorID. The title is required.
	CreatePost(ctx context.Context, authorID uint64, title, body string) (db.Post, error)
	// UpdatePost replaces the title and body of a post.
	UpdatePost(ctx context.Context, postID, authorID uint64, title, body string) error
	// DeletePost removes a post.
	DeletePost(ctx context.Context, postID, authorID uint64) error
}

// Store is the combination interface for [Users], [Posts] and [Scoper].
type Store interface {
	Scoper
	Users
	Posts
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
