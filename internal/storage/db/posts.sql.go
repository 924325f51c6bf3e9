package db

import (
	"context"
)

const createPost = `INSERT INTO post (id, author_id, title, body) VALUES (?, ?, ?, ?)`

// CreatePostParams are the caller-provided columns of a new post. The created
// timestamp is assigned by the database.
type CreatePostParams struct {
	ID       uint64
	AuthorID uint64
	Title    string
	Body     string
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) error {
	_, err := q.db.ExecContext(ctx, createPost, arg.ID, arg.AuthorID, arg.Title, arg.Body)
	return err
}

const getPost = `SELECT id, author_id, created, title, body FROM post WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id uint64) (Post, error) {
	row := q.db.QueryRowContext(ctx, getPost, id)
	var post Post
	err := row.Scan(&post.ID, &post.AuthorID, &post.Created, &post.Title, &post.Body)
	return post, err
}

const getPostAuthor = `SELECT author_id FROM post WHERE id = ?`

func (q *Queries) GetPostAuthor(ctx context.Context, id uint64) (uint64, error) {
	row := q.db.QueryRowContext(ctx, getPostAuthor, id)
	var authorID uint64
	err := row.Scan(&authorID)
	return authorID, err
}

const updatePost = `
UPDATE post
SET title = ?, body = ?
WHERE id = ? AND author_id = ?`

// UpdatePostParams identify a post by ID and author. Rows written by another
// author are left untouched.
type UpdatePostParams struct {
	Title    string
	Body     string
	ID       uint64
	AuthorID uint64
}

// UpdatePost returns the number of rows changed, which is 0 when no post
// matches both the ID and author.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updatePost, arg.Title, arg.Body, arg.ID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deletePost = `DELETE FROM post WHERE id = ? AND author_id = ?`

// DeletePostParams identify a post by ID and author.
type DeletePostParams struct {
	ID       uint64
	AuthorID uint64
}

// DeletePost returns the number of rows removed, which is 0 when no post
// matches both the ID and author.
func (q *Queries) DeletePost(ctx context.Context, arg DeletePostParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePost, arg.ID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getRecentPosts = `
SELECT p.id, p.author_id, p.created, p.title, p.body, u.username
FROM post p
JOIN user u ON u.id = p.author_id
WHERE ? = 0 OR p.created < ? OR (p.created = ? AND p.id < ?)
ORDER BY p.created DESC, p.id DESC
LIMIT ?`

type GetRecentPostsParams struct {
	Before *PostCursor
	Limit  int64
}

func (q *Queries) GetRecentPosts(ctx context.Context, arg GetRecentPostsParams) ([]PostView, error) {
	var (
		hasCursor int
		created   string
		id        uint64
	)
	if arg.Before != nil {
		hasCursor = 1
		created = arg.Before.Created.UTC().Format(TimestampLayout)
		id = arg.Before.ID
	}
	rows, err := q.db.QueryContext(ctx, getRecentPosts, hasCursor, created, created, id, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PostView
	for rows.Next() {
		var post PostView
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Created,
			&post.Title,
			&post.Body,
			&post.AuthorName,
		); err != nil {
			return nil, err
		}
		items = append(items, post)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
