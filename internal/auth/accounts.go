package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/db"
	"blog-backend/internal/types"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
}

// Accounts registers users and exchanges credentials for bearer tokens.
type Accounts struct {
	store    UserStore
	verifier *Verifier
	cost     int
}

func NewAccounts(store UserStore, verifier *Verifier) *Accounts {
	return &Accounts{store: store, verifier: verifier, cost: bcrypt.DefaultCost}
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Accounts) Register(ctx context.Context, username, password string) (Identity, error) {
	if username == "" || password == "" {
		return Identity{}, types.NewError(types.KindValidation, "Username and password are required")
	}
	hash, err := HashPassword(password, a.cost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes
		return Identity{}, types.Wrap(types.KindValidation, err, "Password is too long")
	}
	id, err := a.store.CreateUser(ctx, username, hash)
	if errors.Is(err, db.ErrDuplicate) {
		return Identity{}, types.NewError(types.KindConflict, "Username already exists")
	}
	if err != nil {
		return Identity{}, types.Wrap(types.KindPersistence, err, "Error registering user")
	}
	return Identity{ID: id, Username: username}, nil
}

func (a *Accounts) Login(ctx context.Context, username, password string) (string, Identity, error) {
	if username == "" || password == "" {
		return "", Identity{}, types.NewError(types.KindValidation, "Username and password are required")
	}
	user, err := a.store.GetUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return "", Identity{}, types.NewError(types.KindUnauthenticated, "Invalid credentials")
	}
	if err != nil {
		return "", Identity{}, types.Wrap(types.KindPersistence, err, "Error logging in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Identity{}, types.NewError(types.KindUnauthenticated, "Invalid credentials")
	}

	id := Identity{ID: user.Id, Username: user.Username}
	token, err := a.verifier.Issue(id)
	if err != nil {
		return "", Identity{}, types.Wrap(types.KindInternal, err, "Error generating token")
	}
	return token, id, nil
}
