// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateTemporaryPassword makes the initial credential handed to a newly
// registered team member, to be changed on first login.
func GenerateTemporaryPassword() (string, error) {
	random, err := GenerateRandomString(12)
	if err != nil {
		return "", err
	}
	return random + "!1Aa", nil
}
