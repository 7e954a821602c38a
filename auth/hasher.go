// Package auth holds password hashing and the signed-in session of the running instance.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// PasswordHasher turns clear-text passwords into stored digests and checks them back.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Rehasher is implemented by hashers that can tell when a stored digest uses an older scheme.
type Rehasher interface {
	NeedsRehash(hash string) bool
}

// NewHasher returns the hasher for the configured scheme.
func NewHasher(scheme string, cost int) (PasswordHasher, error) {
	switch strings.ToLower(scheme) {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeBcrypt:
		return NewBcryptHasher(cost), nil
	default:
		return nil, errors.Errorf("unknown password scheme: %s", scheme)
	}
}

// SHA256Hasher is an unsalted SHA-256 digest encoded as 64 lowercase hex characters.
// It is the scheme of the seeded accounts and stays the default so their hashes keep verifying.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, hash string) bool {
	hashed, _ := h.Hash(password)
	return hashed == hash
}

// BcryptHasher hashes new passwords with bcrypt and still accepts legacy SHA-256 digests.
type BcryptHasher struct {
	cost   int
	legacy SHA256Hasher
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	if isLegacyDigest(hash) {
		return h.legacy.Verify(password, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash is true for legacy SHA-256 digests.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	return isLegacyDigest(hash)
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
