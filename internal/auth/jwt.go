// Package auth provides password hashing, JWT issuance/verification and the
// bearer-token middleware that guards the todo routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. POST /signup stores the user with a bcrypt digest of the password
//  2. POST /login verifies the password and returns a signed JWT
//  3. Protected routes send "Authorization: Bearer <jwt>"
//  4. RequireAuth verifies the token and puts the decoded Claims in the
//     request context; handlers read the caller's identity from there
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"id":"u1","email":"a@x.com","sub":"u1","exp":...,"jti":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// Tokens are stateless: there is no revocation list, so a token stays valid
// until it expires even if the user's password changes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid.
	DefaultTokenTTL = 30 * 24 * time.Hour

	issuer = "todo-api"

	minSecretLength = 16
)

// ErrTokenExpired is returned by Verify for a well-formed token past its exp claim.
var ErrTokenExpired = errors.New("auth: token expired")

// Claims is the identity carried by a token.
//
// UserID and Email are emitted as top-level "id" and "email" so clients that
// decode the payload see the same shape the API has always produced. Subject
// mirrors UserID.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; a ttl of zero selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given user, valid for the service's TTL.
func (s *TokenService) Issue(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot issue a token without a user id")
	}
	now := s.now()

	c := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenStr, checks the signature, issuer and expiry, and returns
// the decoded claims.
//
// jwt.WithValidMethods pins HS256 so a token declaring "none" or an
// asymmetric algorithm is rejected before the key is consulted.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}
	if c.UserID == "" {
		return nil, errors.New("auth: token has no user id")
	}
	return c, nil
}
