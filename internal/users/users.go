// Package users implements account creation and credential verification.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/crypto"
	"github.com/aloks98/gotodo/internal/password"
	"github.com/aloks98/gotodo/internal/store"
)

// Service provides user operations over a UserStore.
type Service struct {
	store  store.UserStore
	hasher password.Hasher
}

// NewService creates a user service. A nil hasher selects bcrypt at the
// fixed application cost.
func NewService(s store.UserStore, hasher password.Hasher) *Service {
	if hasher == nil {
		hasher = password.NewBcryptHasher(0)
	}
	return &Service{store: s, hasher: hasher}
}

// Create registers a new user. The password is hashed before storage and the
// plaintext is discarded. Returns apperr.ErrEmailTaken if the email is
// already registered.
func (s *Service) Create(ctx context.Context, firstName, lastName, email, plaintext string) (*store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || plaintext == "" {
		return nil, apperr.New(apperr.KindValidation, "email and password are required", apperr.ErrMissingField)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	id, err := crypto.GenerateID()
	if err != nil {
		return nil, err
	}

	u := &store.User{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyCredentials looks up a user by email and checks the password against
// the stored hash. Unknown email and wrong password both return
// apperr.ErrInvalidCredentials; callers cannot tell the cases apart.
func (s *Service) VerifyCredentials(ctx context.Context, email, plaintext string) (*store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// Burn a hash comparison anyway so the unknown-email path takes
		// comparable time to the wrong-password path.
		_, _ = s.hasher.Verify(plaintext, dummyHash)
		return nil, apperr.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(plaintext, u.PasswordHash)
	if err != nil || !ok {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*store.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrUserNotFound
	}
	return u, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize timing when the email is unknown.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
