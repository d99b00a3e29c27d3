package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// AccountService registers and authenticates users.
type AccountService struct {
	users  UserStore
	hasher *PasswordHasher
}

func NewAccountService(users UserStore, hasher *PasswordHasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// Register creates an account. Username and email are stored as typed and
// compared exactly, so " alice" and "alice" are different accounts.
func (s *AccountService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	switch {
	case strings.TrimSpace(username) == "":
		return nil, invalid("username", "is required")
	case strings.TrimSpace(email) == "":
		return nil, invalid("email", "is required")
	case password == "":
		return nil, invalid("password", "is required")
	case len(password) > MaxPasswordBytes:
		return nil, invalid("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.CreateUnique(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	log.Printf("[info] user registered id=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Authenticate returns the user when the password matches its stored hash.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
