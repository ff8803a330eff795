// Package token issues and validates the signed session tokens handed to
// clients after register/login. Tokens are stateless: nothing is stored
// server-side, so a token stays valid until it expires or JWT_SECRET rotates.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is the fixed lifetime of every issued token.
const TTL = 7 * 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Validate is run by the jwt parser after the registered claims checks.
func (c *Claims) Validate() error {
	if _, err := uuid.Parse(c.UserID); err != nil {
		return errors.New("userId claim is not a uuid")
	}
	if c.Username == "" {
		return errors.New("username claim is missing")
	}
	if c.ExpiresAt == nil {
		return errors.New("exp claim is missing")
	}
	return nil
}

// UserUUID returns the parsed user id. Claims accepted by Validate always parse.
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue mints an HS256 token for the user that expires after TTL.
func (i *Issuer) Issue(userID uuid.UUID, username string) (string, error) {
	now := i.now()
	claims := &Claims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate returns the embedded claims when the signature verifies and the
// token has not expired.
func (i *Issuer) Validate(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, i.Keyfunc); err != nil {
		return nil, Classify(err)
	}
	return claims, nil
}

// Keyfunc resolves the signing key, refusing anything but HS256. The HTTP
// middleware calls only Keyfunc, so the algorithm is pinned here too.
func (i *Issuer) Keyfunc(t *jwt.Token) (interface{}, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return i.secret, nil
}

// Classify collapses parser errors into ErrTokenExpired or ErrTokenInvalid.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTokenExpired), errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
