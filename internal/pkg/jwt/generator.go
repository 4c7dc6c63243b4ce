// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Subject is what a session token is issued for.
type Subject struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
	now      func() time.Time
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
		now:      time.Now,
	}
}

// Generate signs a session token for sub and returns it with its jti.
func (g *Generator) Generate(sub Subject) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}
	if sub.UserID == "" {
		return "", "", fmt.Errorf("jwt subject has no user id")
	}

	now := g.now()
	jti := ulid.Make().String()

	claims := &Claims{
		UserID:   sub.UserID,
		Username: sub.Username,
		Email:    sub.Email,
		Role:     sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   sub.UserID,
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(g.Ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}
