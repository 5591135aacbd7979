package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenIssuer mints and validates the signed bearer tokens handed out
// at login. Tokens are stateless: nothing is persisted server-side and
// validity depends only on the signature and the exp claim.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint returns a signed token carrying userID, valid for the
// configured window.
func (t *TokenIssuer) Mint(userID string) (string, error) {
	now := t.now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	})

	return tok.SignedString(t.secret)
}

// Validate checks signature and expiry and returns the embedded user
// ID. Expired tokens fail with ErrTokenExpired, everything else wrong
// with them fails with ErrTokenInvalid.
func (t *TokenIssuer) Validate(tokenStr string) (string, error) {
	parser := jwt.NewParser(jwt.WithTimeFunc(t.now))

	tok, err := parser.Parse(tokenStr, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tk.Method.Alg())
		}

		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrTokenInvalid
	}

	if _, ok := claims["exp"]; !ok {
		return "", ErrTokenInvalid
	}

	return userID, nil
}
