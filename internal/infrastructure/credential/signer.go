package credential

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenType is the kind marker the 100ms API expects on management tokens.
	TokenType = "management"
	// TokenVersion is the management token format version.
	TokenVersion = 2
)

// Signer mints a new bearer token issued at now.
type Signer func(now time.Time) (string, error)

// ManagementClaims is the claim set of a 100ms management token.
type ManagementClaims struct {
	AccessKey string `json:"access_key"`
	Type      string `json:"type"`
	Version   int    `json:"version"`
	jwt.RegisteredClaims
}

// NewHMACSigner returns a Signer producing HS256 management tokens that
// expire ttl after issuance.
func NewHMACSigner(accessKey, secret string, ttl time.Duration) Signer {
	return func(now time.Time) (string, error) {
		if accessKey == "" || secret == "" {
			return "", errors.New("access key and secret are required to sign management tokens")
		}

		claims := ManagementClaims{
			AccessKey: accessKey,
			Type:      TokenType,
			Version:   TokenVersion,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}

		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	}
}
