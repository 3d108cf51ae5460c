package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/constants"
	"github.com/yukikurage/team-management-api/internal/models"
)

// ErrInvalidToken covers missing, malformed, expired and forged tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

type sessionClaims struct {
	UserID uint64      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with the given secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    constants.AccessTokenTTL,
		now:    time.Now,
	}
}

// Issue signs a token for the identity that expires after the fixed session lifetime.
func (m *TokenManager) Issue(id authz.Identity) (string, error) {
	now := m.now()
	claims := sessionClaims{
		UserID: id.UserID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the identity it carries.
func (m *TokenManager) Verify(tokenString string) (authz.Identity, error) {
	if tokenString == "" {
		return authz.Identity{}, ErrInvalidToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return authz.Identity{}, ErrInvalidToken
	}

	role, err := models.ParseRole(string(claims.Role))
	if err != nil || claims.UserID == 0 {
		return authz.Identity{}, ErrInvalidToken
	}

	return authz.Identity{UserID: claims.UserID, Role: role}, nil
}
