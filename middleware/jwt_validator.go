package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	// ErrTokenExpired is returned when JWT validation fails due to expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for signature, format and claim failures.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned if the subject claim is absent.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Validator validates an operator bearer token and returns its subject.
type Validator interface {
	Validate(tokenString string) (string, error)
}

// JWTValidator checks HS256 tokens issued by the operator identity provider
// with a shared secret.
type JWTValidator struct {
	secret []byte
	skew   time.Duration
	clock  jwt.Clock
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator creates a validator from the server configuration.
func NewJWTValidator(cfg *config.ServerConfig) (*JWTValidator, error) {
	if cfg.JwtSecretKey == "" {
		return nil, fmt.Errorf("JWT validator configuration error: JWT_SECRET_KEY is not set")
	}
	return &JWTValidator{
		secret: []byte(cfg.JwtSecretKey),
		skew:   30 * time.Second,
		clock:  jwt.ClockFunc(time.Now),
	}, nil
}

// Validate parses and verifies tokenString.
func (v *JWTValidator) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
		jwt.WithClock(v.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sub := token.Subject()
	if sub == "" {
		return "", ErrTokenMissingClaim
	}
	return sub, nil
}
