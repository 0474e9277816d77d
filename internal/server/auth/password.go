package auth

import (
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm names understood by NewHasher.
const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmArgon2 = "argon2"
)

// Hasher hashes passwords with the configured algorithm and verifies
// digests produced by either supported algorithm, picked from the digest
// prefix.
type Hasher struct {
	algorithm  string
	bcryptCost int
	argon      argon2.Config
}

// HasherOption customises a Hasher.
type HasherOption func(*Hasher)

// WithArgon2Config overrides the argon2id parameters.
func WithArgon2Config(cfg argon2.Config) HasherOption {
	return func(h *Hasher) { h.argon = cfg }
}

// NewHasher returns a Hasher that hashes with algorithm and verifies digests
// of either supported algorithm.
func NewHasher(algorithm string, bcryptCost int, opts ...HasherOption) (*Hasher, error) {
	h := &Hasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
		argon:      argon2.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(h)
	}

	switch algorithm {
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
	case AlgorithmArgon2:
	default:
		return nil, fmt.Errorf("unknown password algorithm %q", algorithm)
	}
	return h, nil
}

// Hash returns a salted digest of plaintext. Every call uses a fresh salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	switch h.algorithm {
	case AlgorithmArgon2:
		encoded, err := h.argon.HashEncoded([]byte(plaintext))
		if err != nil {
			return "", fmt.Errorf("argon2: %w", err)
		}
		return string(encoded), nil
	default:
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(digest), nil
	}
}

// Verify reports whether plaintext matches digest. Unknown or malformed
// digests never match.
func (h *Hasher) Verify(plaintext, digest string) bool {
	switch {
	case isBcrypt(digest):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	case strings.HasPrefix(digest, "$argon2"):
		ok, err := argon2.VerifyEncoded([]byte(plaintext), []byte(digest))
		return err == nil && ok
	default:
		return false
	}
}

func isBcrypt(digest string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(digest, p) {
			return true
		}
	}
	return false
}
