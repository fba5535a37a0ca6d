package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role a token is ever issued for.
const RoleAdmin = "admin"

// TokenTTL is how long an admin token stays valid.
const TokenTTL = 12 * time.Hour

var (
	// ErrInvalidToken is returned for any token that fails parsing or checks.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrNoSecret is returned when asked to sign with an empty key.
	ErrNoSecret = errors.New("auth: empty signing secret")
)

// Claims holds the typed JWT payload. The subject is the admin username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session is an authenticated admin.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token is a signed session token as handed to a client.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue signs an HS256 token for username that expires after ttl.
func Issue(secret []byte, username string, ttl time.Duration) (Token, error) {
	if len(secret) == 0 {
		return Token{}, ErrNoSecret
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Validate parses and verifies a token and returns its session. Nothing
// validates against an empty secret.
func Validate(secret []byte, token string) (*Session, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Role != RoleAdmin || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Session{
		Username:  claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
// An empty hash never matches.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromCtx returns the session stored by the auth middleware, if any.
func FromCtx(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
