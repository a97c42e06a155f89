package sandbox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
)

func credentialHash(salt []byte, password string) []byte {
	b := make([]byte, 0, len(salt)+len(password))
	b = append(b, salt...)
	b = append(b, password...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func verifyPassword(salt, hash []byte, password string) bool {
	if len(hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(credentialHash(salt, password), hash) == 1
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
