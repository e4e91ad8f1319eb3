package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid. The login
// cookie's Max-Age matches it.
const TokenTTL = 24 * time.Hour

// Identity is the caller identity embedded in a session token. The
// password hash is never part of the payload.
type Identity struct {
	UserID   string
	Username string
}

// TokenService signs and verifies session tokens with a server-side
// HMAC secret. There is no server-side session store; the token alone
// asserts identity.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) Generate(ident Identity) (string, error) {
	claims := jwt.MapClaims{
		"id":       ident.UserID,
		"username": ident.Username,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry and returns the embedded
// identity. Any failure, including expiry, yields an error.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return Identity{}, errors.New("invalid id claim")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return Identity{}, errors.New("invalid username claim")
	}
	return Identity{UserID: id, Username: username}, nil
}
