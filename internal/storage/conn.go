package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type connKey struct{}

// connSlot holds the connection of one unit of work. It is owned by a single
// request and is not safe for concurrent use.
type connSlot struct {
	conn     *sql.Conn
	released bool
}

// ConnProvider hands out request-scoped connections from a pool.
type ConnProvider struct {
	pool *sql.DB
}

// NewConnProvider returns a ConnProvider drawing connections from pool.
func NewConnProvider(pool *sql.DB) *ConnProvider {
	return &ConnProvider{pool: pool}
}

// Scope satisfies the [Scoper] interface.
func (p *ConnProvider) Scope(ctx context.Context) (context.Context, func() error) {
	slot := &connSlot{}
	release := func() error {
		if slot.released {
			return nil
		}
		slot.released = true
		if slot.conn == nil {
			return nil
		}
		conn := slot.conn
		slot.conn = nil
		if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			return fmt.Errorf("failed to release connection: %w", err)
		}
		return nil
	}
	return context.WithValue(ctx, connKey{}, slot), release
}

// Conn returns the connection of the scope carried by ctx, acquiring it from
// the pool on first use. Subsequent calls within the same scope return the
// same connection.
func (p *ConnProvider) Conn(ctx context.Context) (*sql.Conn, error) {
	slot, ok := ctx.Value(connKey{}).(*connSlot)
	switch {
	case !ok:
		return nil, ErrNoScope
	case slot.released:
		return nil, ErrScopeReleased
	case slot.conn != nil:
		return slot.conn, nil
	}
	conn, err := p.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	slot.conn = conn
	return conn, nil
}

// Stats reports the state of the underlying pool.
func (p *ConnProvider) Stats() sql.DBStats {
	return p.pool.Stats()
}
