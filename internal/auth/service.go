package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResult is a freshly minted token together with the user's public
// profile.
type LoginResult struct {
	Token string
	User  user.User
}

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	users user.Repository
}

func NewService(users user.Repository) Service {
	return &service{users: users}
}

// Login checks the supplied credentials against the stored ones. Passwords
// are compared as plain strings, matching the existing accounts; the token is
// an opaque unique string that is never validated afterwards.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			log.Warn().Str("email", email).Msg("service: login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to fetch user by email")
		return nil, fmt.Errorf("service: failed to fetch user by email: %w", err)
	}

	if u.Password != password {
		log.Warn().Str("user_id", u.ID).Msg("service: login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	tokenID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate token: %w", err)
	}

	log.Info().Str("user_id", u.ID).Msg("service: user logged in")

	return &LoginResult{
		Token: "dev-token-" + tokenID.String(),
		User:  *u,
	}, nil
}
