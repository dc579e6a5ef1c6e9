package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/expense-tracker/internal/auth"
	"github.com/crucial707/expense-tracker/internal/metrics"
	"github.com/crucial707/expense-tracker/internal/models"
	"github.com/crucial707/expense-tracker/internal/repo"
)

// Identity registers users, logs them in and resolves the caller behind a token.
type Identity struct {
	users  UserStore
	hasher auth.Hasher
	tokens *auth.TokenIssuer
}

func NewIdentity(users UserStore, hasher auth.Hasher, tokens *auth.TokenIssuer) *Identity {
	return &Identity{users: users, hasher: hasher, tokens: tokens}
}

// Register stores a new user with a hashed password. The email is used as
// given: lookups are exact and case-sensitive.
func (s *Identity) Register(ctx context.Context, name, email, password string) (user *models.User, err error) {
	defer func() { metrics.RecordAuth("register", err) }()

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err = s.users.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token. Unknown emails
// still pay for one bcrypt comparison.
func (s *Identity) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	defer func() { metrics.RecordAuth("login", err) }()

	user, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.hasher.Burn(password)
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err = s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResolveCurrentUser loads the user a verified token refers to. A user removed
// after the token was issued yields ErrUserNotFound.
func (s *Identity) ResolveCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Authenticate verifies token and resolves its subject. Token failures come
// back as auth.ErrInvalidToken or auth.ErrExpiredToken.
func (s *Identity) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.ResolveCurrentUser(ctx, id)
}
