package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// sessionKind marks tokens minted for the session cookie, so a token
// signed with the same secret for another purpose cannot log anyone in.
const sessionKind = "session"

// clockSkew tolerated on exp, nbf and iat
const clockSkew = 5 * time.Second

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrWrongTokenKind   = errors.New("token is not a session token")
	ErrInvalidSubject   = errors.New("token subject is not a user id")
)

// Claims of a session token. The subject is the user id and the jti is
// what logout revokes.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Kind  string `json:"kind"`
}

// UserID parses the subject
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// SessionToken is a signed token and its expiry
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// JWTService signs and verifies HS256 session tokens
type JWTService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.SessionExpiration,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
}

// GenerateSessionToken signs a token for userID with a fresh jti
func (s *JWTService) GenerateSessionToken(userID uuid.UUID, email string) (*SessionToken, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
		Kind:  sessionKind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &SessionToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateSessionToken verifies signature, issuer, audience and lifetime,
// then checks the token is a session token for a well-formed user id.
func (s *JWTService) ValidateSessionToken(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(s.now),
	)
	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.Kind != sessionKind {
		return nil, ErrWrongTokenKind
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidSubject
	}
	return claims, nil
}
