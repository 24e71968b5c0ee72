package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"customer-engine/internal/domain/customer"

	"golang.org/x/crypto/bcrypt"
)

// LegacyHasher implements the password hashing contract. The plain text is
// first keyed with the legacy compatibility secret via HMAC-SHA256, then the
// digest is bcrypt-hashed. The pre-hash keeps the legacy secret in the loop
// and bounds bcrypt's 72-byte input limit.
type LegacyHasher struct {
	secret []byte
	cost   int
}

var _ customer.PasswordHasher = (*LegacyHasher)(nil)

func NewLegacyHasher(secret string) *LegacyHasher {
	return &LegacyHasher{
		secret: []byte(secret),
		cost:   bcrypt.DefaultCost,
	}
}

func (h *LegacyHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(h.keyed(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Compare verifies a candidate plain text against a stored hash. The login
// path uses this; the edit pipeline only ever calls Hash.
func (h *LegacyHasher) Compare(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), h.keyed(plaintext)); err != nil {
		return fmt.Errorf("password mismatch: %w", err)
	}
	return nil
}

func (h *LegacyHasher) keyed(plaintext string) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(plaintext))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
