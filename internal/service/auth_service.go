package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/statusdesk/status-admin/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "status-admin"
	anonymousOperator = "anonymous"
	defaultTokenTTL   = 12 * time.Hour
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrInvalidToken   = errors.New("invalid token")
)

// AuthService signs in the single configured operator and issues the JWTs
// that identify them in the audit trail.
type AuthService struct {
	enabled  bool
	username string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// Claims is the JWT payload. The subject is the operator name.
type Claims struct {
	jwt.RegisteredClaims
}

// Operator returns the name recorded against admin writes.
func (c *Claims) Operator() string {
	if c == nil || c.Subject == "" {
		return anonymousOperator
	}
	return c.Subject
}

// Token is a signed session token.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthService builds AuthService from config. A plain-text password is
// hashed once here so every login goes through bcrypt.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	authCfg := cfg.Auth
	svc := &AuthService{
		enabled:  authCfg.Enabled,
		username: orDefault(authCfg.Username, "admin"),
		secret:   []byte(orDefault(authCfg.JWTSecret, "status-admin-default-secret")),
		ttl:      authCfg.TokenTTL,
		now:      time.Now,
	}
	if svc.ttl <= 0 {
		svc.ttl = defaultTokenTTL
	}

	password := orDefault(authCfg.Password, "admin123")
	if isBcryptHash(password) {
		svc.hash = []byte(password)
		return svc, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	svc.hash = hash
	return svc, nil
}

// Enabled reports whether authentication is enforced.
func (a *AuthService) Enabled() bool {
	return a != nil && a.enabled
}

// Username returns the configured operator name.
func (a *AuthService) Username() string {
	if a == nil {
		return ""
	}
	return a.username
}

// Login checks the credentials and issues a token. With auth disabled it
// returns an empty token.
func (a *AuthService) Login(username, password string) (Token, error) {
	if !a.Enabled() {
		return Token{}, nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return Token{}, ErrBadCredentials
	}

	issued := a.now()
	expires := issued.Add(a.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   a.username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(a.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: expires.UTC()}, nil
}

// Validate parses a bearer token. With auth disabled every caller is the
// anonymous operator.
func (a *AuthService) Validate(token string) (*Claims, error) {
	if !a.Enabled() {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: anonymousOperator}}, nil
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
