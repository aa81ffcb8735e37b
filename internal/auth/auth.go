// Package auth guards the admin endpoints with a shared token whose bcrypt
// hash lives in the configuration.
package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for new admin token hashes.
const DefaultCost = 12

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HashToken generates a bcrypt hash of the token.
func HashToken(token string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	return string(bytes), err
}

// CheckToken compares a plaintext token with a stored bcrypt hash.
// An empty hash never matches.
func CheckToken(token, hash string) bool {
	if hash == "" || token == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
	return err == nil
}

// GenerateToken returns a random alphanumeric token of the given length.
func GenerateToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenCharset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tokenCharset[n.Int64()]
	}
	return string(b), nil
}
