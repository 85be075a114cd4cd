package utils

import (
	"crypto/rand"
	"math/big"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandString returns n random alphanumeric characters.
func RandString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(letterBytes)))
	for i := range b {
		x, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = letterBytes[x.Int64()]
	}
	return string(b)
}
