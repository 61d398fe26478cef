// Package adminauth issues and verifies the auth-token cookie that gates the
// admin dashboard surface.
package adminauth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bancarata/bankportal/internal/apperrors"
)

const (
	CookieName = "auth-token"

	defaultTokenTTL      = 12 * time.Hour
	defaultSigningMethod = "HS256"
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Service config with sensible defaults
type Config struct {
	// Secret key to sign the auth token
	// Required to be set
	SecretKey string

	// Bcrypt hash the presented password is checked against. When empty any
	// non-empty credential pair is accepted (development stub).
	AdminPasswordHash string

	// Token lifetime; default is used when zero
	TokenTTL time.Duration
}

type Service struct {
	key          []byte
	alg          jwt.SigningMethod
	ttl          time.Duration
	passwordHash string
}

func New(cfg Config) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	return &Service{
		key:          []byte(cfg.SecretKey),
		alg:          jwt.GetSigningMethod(defaultSigningMethod),
		ttl:          cfg.TokenTTL,
		passwordHash: cfg.AdminPasswordHash,
	}, nil
}

// Login checks the credentials and returns a signed auth token
func (s *Service) Login(email string, password string, role string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("empty credentials: %w", apperrors.ErrUnauthorized)
	}

	if s.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
			return "", fmt.Errorf("password check failed: %w", apperrors.ErrUnauthorized)
		}
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
		Role:  role,
	}

	token, err := jwt.NewWithClaims(s.alg, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("cant sign auth token. Err: %w", err)
	}

	return token, nil
}

// Verify parses the token and returns its claims
func (s *Service) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{s.alg.Alg()}),
	)
	if err != nil || !token.Valid {
		return claims, fmt.Errorf("invalid auth token: %w", apperrors.ErrUnauthorized)
	}

	return claims, nil
}

// SetTokenCookie attaches the auth token to the response as an HttpOnly cookie
func (s *Service) SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest reads the auth token cookie
func (s *Service) TokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", fmt.Errorf("missing auth token cookie: %w", apperrors.ErrUnauthorized)
	}

	return cookie.Value, nil
}
