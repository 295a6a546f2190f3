package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
//
// Each increment doubles the hashing time. 10 keeps signup/login around
// 50-100ms on commodity hardware.
const DefaultCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer inputs are silently
// truncated by the algorithm, so they are rejected instead.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for inputs over 72 bytes.
var ErrPasswordTooLong = fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be lowered in tests.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService. A cost of zero selects
// DefaultCost; anything outside bcrypt's supported range is an error.
func NewPasswordService(cost int) (*PasswordService, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &PasswordService{cost: cost}, nil
}

// Hash returns the bcrypt digest of plaintext. The digest embeds the salt and
// cost, so it is the only thing that needs storing:
//
//	$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against a stored digest. It returns nil on a match,
// ErrPasswordMismatch on a wrong password, and a wrapped error for a malformed
// digest. The comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
