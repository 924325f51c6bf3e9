package db

import (
	"context"
)

const createUser = `INSERT INTO user (id, username, password) VALUES (?, ?, ?)`

// CreateUser inserts a new user. A duplicate username fails with the driver's
// unique constraint error.
func (q *Queries) CreateUser(ctx context.Context, user User) error {
	_, err := q.db.ExecContext(ctx, createUser, user.ID, user.Name, user.PasswordHash)
	return err
}

const getUser = `SELECT id, username, password FROM user WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id uint64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var user User
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash)
	return user, err
}

const getUserByName = `SELECT id, username, password FROM user WHERE username = ?`

func (q *Queries) GetUserByName(ctx context.Context, name string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByName, name)
	var user User
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash)
	return user, err
}

const getUsers = `
SELECT id, username
FROM user
WHERE username > ?
ORDER BY username
LIMIT ?`

// GetUsersParams paginates GetUsers by username.
type GetUsersParams struct {
	AfterName string
	Limit     int64
}

// GetUsers lists users ordered by name. Password hashes are not loaded.
func (q *Queries) GetUsers(ctx context.Context, arg GetUsersParams) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, getUsers, arg.AfterName, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name); err != nil {
			return nil, err
		}
		items = append(items, user)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteUser = `DELETE FROM user WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, deleteUser, id)
	return err
}
