package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reco/internal/platform/crypto"
)

type Service struct {
	secret   string
	tokenTTL time.Duration
	users    UserRepository
	tokens   TokenStore
}

func NewService(secret string, tokenTTL time.Duration, users UserRepository, tokens TokenStore) *Service {
	return &Service{
		secret:   secret,
		tokenTTL: tokenTTL,
		users:    users,
		tokens:   tokens,
	}
}

// Token is an issued access token.
type Token struct {
	AccessToken string
	ExpiresIn   int
	User        User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Token{}, ErrUnauthorized
		}
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrUnauthorized
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}
	return Token{
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        u,
	}, nil
}

// SignOut revokes the given access token for the rest of its lifetime.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.Subject, expiresAt)
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.users.GetByID(ctx, userID)
}

// IsRevoked lets the service act as the revocation check of the auth middleware.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokens.IsRevoked(ctx, jti)
}
