package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/influxdata/influxdb/pkg/snowflake"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/stolasapp/quill/internal/config"
	"github.com/stolasapp/quill/internal/storage/db"
)

// Username constraints.
const maxUsernameLen = 64

// maxPostsLimit caps a single listing of posts.
const maxPostsLimit = 100

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func validateUsername(name string) error {
	switch {
	case name == "":
		return ValidationError{Field: "username", Message: "Username is required."}
	case len(name) > maxUsernameLen || !usernameRegex.MatchString(name):
		return ValidationError{
			Field:   "username",
			Message: "Username must be at most 64 letters, digits, '_', '.' or '-'.",
		}
	default:
		return nil
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Message: "Title is required."}
	}
	return nil
}

// DB is a [Store] backed by a SQLite database. Every query runs on the
// connection of the [Scoper.Scope] carried by its context.
type DB struct {
	*ConnProvider

	ids    *snowflake.Generator
	db     *sql.DB
	logger *slog.Logger
}

// NewDB initializes a DB with the given config and logger.
func NewDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.DBFilepath, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}
	return &DB{
		ConnProvider: NewConnProvider(handle),
		ids:          snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:           handle,
		logger:       logger,
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// Reset drops and recreates the schema. No scope may be open while it runs.
func (d *DB) Reset(ctx context.Context) error {
	return db.Reset(ctx, d.logger, d.db)
}

func (d *DB) queries(ctx context.Context) (*db.Queries, error) {
	conn, err := d.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return db.New(conn), nil
}

// ListUsers satisfies the [Users] interface.
func (d *DB) ListUsers(ctx context.Context, afterName string, limit int32) ([]db.User, error) {
	q, err := d.queries(ctx)
	if err != nil {
		return nil, err
	}
	return q.GetUsers(ctx, db.GetUsersParams{
		AfterName: afterName,
		Limit:     int64(limit),
	})
}

// GetUser satisfies the [Users] interface.
func (d *DB) GetUser(ctx context.Context, userID uint64) (db.User, error) {
	q, err := d.queries(ctx)
	if err != nil {
		return db.User{}, err
	}
	user, err := q.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// GetUserByName satisfies the [Users] interface.
func (d *DB) GetUserByName(ctx context.Context, name string) (db.User, error) {
	q, err := d.queries(ctx)
	if err != nil {
		return db.User{}, err
	}
	user, err := q.GetUserByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// CreateUser satisfies the [Users] interface.
func (d *DB) CreateUser(ctx context.Context, user db.User) (db.User, error) {
	if err := validateUsername(user.Name); err != nil {
		return db.User{}, err
	}
	q, err := d.queries(ctx)
	if err != nil {
		return db.User{}, err
	}
	if user.ID == 0 {
		user.ID = d.ids.Next()
	}
	switch err = q.CreateUser(ctx, user); {
	case isUniqueViolation(err):
		return db.User{}, ErrAlreadyExists
	case err != nil:
		return db.User{}, err
	default:
		return user, nil
	}
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, userID uint64) error {
	q, err := d.queries(ctx)
	if err != nil {
		return err
	}
	return q.DeleteUser(ctx, userID)
}

// ListRecentPosts satisfies the [Posts] interface.
func (d *DB) ListRecentPosts(ctx context.Context, before *db.PostCursor, limit int32) ([]db.PostView, error) {
	if limit <= 0 || limit > maxPostsLimit {
		limit = maxPostsLimit
	}
	q, err := d.queries(ctx)
	if err != nil {
		return nil, err
	}
	return q.GetRecentPosts(ctx, db.GetRecentPostsParams{
		Before: before,
		Limit:  int64(limit),
	})
}

// GetPost satisfies the [Posts] interface.
func (d *DB) GetPost(ctx context.Context, postID, authorID uint64) (db.Post, error) {
	q, err := d.queries(ctx)
	if err != nil {
		return db.Post{}, err
	}
	post, err := q.GetPost(ctx, postID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return db.Post{}, ErrNotFound
	case err != nil:
		return db.Post{}, err
	case !post.OwnedBy(authorID):
		return db.Post{}, ErrForbidden
	default:
		return post, nil
	}
}

// CreatePost satisfies the [Posts] interface.
func (d *DB) CreatePost(ctx context.Context, authorID uint64, title, body string) (db.Post, error) {
	if err := validateTitle(title); err != nil {
		return db.Post{}, err
	}
	q, err := d.queries(ctx)
	if err != nil {
		return db.Post{}, err
	}
	id := d.ids.Next()
	err = q.CreatePost(ctx, db.CreatePostParams{
		ID:       id,
		AuthorID: authorID,
		Title:    title,
		Body:     body,
	})
	if isForeignKeyViolation(err) {
		return db.Post{}, ErrNotFound
	} else if err != nil {
		return db.Post{}, err
	}
	return q.GetPost(ctx, id)
}

// UpdatePost satisfies the [Posts] interface.
func (d *DB) UpdatePost(ctx context.Context, postID, authorID uint64, title, body string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	q, err := d.queries(ctx)
	if err != nil {
		return err
	}
	n, err := q.UpdatePost(ctx, db.UpdatePostParams{
		Title:    title,
		Body:     body,
		ID:       postID,
		AuthorID: authorID,
	})
	if err != nil {
		return err
	}
	return d.checkChanged(ctx, q, postID, n)
}

// DeletePost satisfies the [Posts] interface.
func (d *DB) DeletePost(ctx context.Context, postID, authorID uint64) error {
	q, err := d.queries(ctx)
	if err != nil {
		return err
	}
	n, err := q.DeletePost(ctx, db.DeletePostParams{
		ID:       postID,
		AuthorID: authorID,
	})
	if err != nil {
		return err
	}
	return d.checkChanged(ctx, q, postID, n)
}

// checkChanged explains an author-scoped mutation that touched no rows: either
// the post is gone or it belongs to someone else.
func (d *DB) checkChanged(ctx context.Context, q *db.Queries, postID uint64, changed int64) error {
	if changed > 0 {
		return nil
	}
	_, err := q.GetPostAuthor(ctx, postID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case err != nil:
		return err
	default:
		return ErrForbidden
	}
}

func isUniqueViolation(err error) bool {
	return hasErrorCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

func isForeignKeyViolation(err error) bool {
	return hasErrorCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}

func hasErrorCode(err error, codes ...int) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.Code() == code {
			return true
		}
	}
	return false
}

var _ Store = (*DB)(nil)
