// Package password hashes passwords with argon2i and a service-wide salt.
package password

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	iterations = 3
	memoryKiB  = 4 * 1024
	threads    = 1
	keyLen     = 32
)

var ErrEmptySalt = errors.New("password salt must not be empty")

type Hasher struct {
	salt []byte
}

func NewHasher(salt string) (*Hasher, error) {
	if salt == "" {
		return nil, ErrEmptySalt
	}
	return &Hasher{salt: []byte(salt)}, nil
}

// Hash returns the hex encoded argon2i key for password.
func (h *Hasher) Hash(password string) string {
	key := argon2.Key([]byte(password), h.salt, iterations, memoryKiB, threads, keyLen)
	return hex.EncodeToString(key)
}

func (h *Hasher) Verify(password, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(password)), []byte(hashed)) == 1
}
