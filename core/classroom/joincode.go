package classroom

import (
	"crypto/rand"
	"math/big"
)

// no 0/O and 1/I to keep codes readable
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var maxJoinCodeAttempts = 5

// GenerateJoinCode returns a random code of n characters.
func GenerateJoinCode(n int) (string, error) {
	code := make([]byte, n)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[idx.Int64()]
	}
	return string(code), nil
}
