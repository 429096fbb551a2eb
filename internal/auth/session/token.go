// Package session creates the opaque identifiers handed out at login and
// registration.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// TokenBytes is the entropy of a session token, 256 bits.
const TokenBytes = 32

// NewToken returns a hex encoded random session token.
func NewToken() (string, error) {
	return newToken(rand.Reader)
}

func newToken(r io.Reader) (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var (
	codeMin   = big.NewInt(10_000_000)
	codeRange = big.NewInt(90_000_000)
)

// NewEmployeeID returns a random 8 digit employee identifier.
func NewEmployeeID() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("generate employee id: %w", err)
	}
	return n.Add(n, codeMin).String(), nil
}
