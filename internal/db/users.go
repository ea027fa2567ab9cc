package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

func (g *Gateway) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := g.db.QueryRowContext(ctx,
		g.rebind("INSERT INTO users (username, password, created_at) VALUES (?, ?, ?) RETURNING id"),
		username, passwordHash, g.now()).Scan(&id)
	if isDuplicate(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, errors.Wrap(err, "create user")
	}
	return id, nil
}

func (g *Gateway) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return g.getUser(ctx, "SELECT id, username, password, created_at FROM users WHERE username = ?", username)
}

func (g *Gateway) GetUser(ctx context.Context, userID int64) (*User, error) {
	return g.getUser(ctx, "SELECT id, username, password, created_at FROM users WHERE id = ?", userID)
}

func (g *Gateway) getUser(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	row := g.db.QueryRowContext(ctx, g.rebind(query), arg)
	err := row.Scan(&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}
