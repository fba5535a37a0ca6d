package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/shashiranjanraj/giftwheels/pkg/auth"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

var (
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginDisabled is returned while no admin password hash is configured.
	ErrLoginDisabled = errors.New("admin login disabled")
)

// AuthService exchanges the admin credentials for a session token.
type AuthService struct {
	username     string
	passwordHash string
	secret       []byte
}

func NewAuthService(username, passwordHash string, secret []byte) *AuthService {
	return &AuthService{username: username, passwordHash: passwordHash, secret: secret}
}

// Enabled reports whether admin login is configured.
func (s *AuthService) Enabled() bool {
	return s != nil && s.passwordHash != "" && len(s.secret) > 0
}

// Login checks the credentials and issues a token valid for auth.TokenTTL.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	if !s.Enabled() {
		return auth.Token{}, ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := auth.CheckPassword(s.passwordHash, password)
	if !userOK || !passOK {
		logger.WithCtx(ctx).Warn("admin login failed", "username", username)
		return auth.Token{}, ErrInvalidCredentials
	}

	tok, err := auth.Issue(s.secret, s.username, auth.TokenTTL)
	if err != nil {
		return auth.Token{}, err
	}
	logger.WithCtx(ctx).Info("admin logged in", "username", s.username)
	return tok, nil
}
