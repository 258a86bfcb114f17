// Package security holds the random secrets handed out to users: recovery codes
// and temporary passwords.
package security

import (
	"crypto/rand"
	"errors"
	"strings"
)

const (
	// CodeAlphabet leaves out characters that are easy to misread (0/O, 1/I/L).
	CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	passwordUpper  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower  = "abcdefghijkmnopqrstuvwxyz"
	passwordDigits = "23456789"

	minTemporaryPasswordLength = 10
)

var (
	ErrInvalidLength   = errors.New("length must be positive")
	ErrInvalidAlphabet = errors.New("alphabet must hold between 1 and 256 characters")
)

// RandomString draws length characters uniformly from alphabet.
func RandomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", ErrInvalidAlphabet
	}

	result := make([]byte, length)
	for index := range result {
		position, err := randomIndex(len(alphabet))
		if err != nil {
			return "", err
		}
		result[index] = alphabet[position]
	}
	return string(result), nil
}

// GroupedCode returns prefix followed by dash separated blocks, e.g.
// GroupedCode("MEDI", 3, 4) gives MEDI-7KQ2-XM4P-9TZA.
func GroupedCode(prefix string, groups int, size int) (string, error) {
	if groups <= 0 || size <= 0 {
		return "", ErrInvalidLength
	}
	value, err := RandomString(groups*size, CodeAlphabet)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, groups+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	for start := 0; start < len(value); start += size {
		parts = append(parts, value[start:start+size])
	}
	return strings.Join(parts, "-"), nil
}

// TemporaryPassword always contains an upper case letter, a lower case letter
// and a digit, so it passes the account password policy. Short lengths are
// raised to the minimum.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPasswordLength {
		length = minTemporaryPasswordLength
	}

	password := make([]byte, 0, length)
	for _, class := range []string{passwordUpper, passwordLower, passwordDigits} {
		char, err := RandomString(1, class)
		if err != nil {
			return "", err
		}
		password = append(password, char[0])
	}
	rest, err := RandomString(length-len(password), passwordUpper+passwordLower+passwordDigits)
	if err != nil {
		return "", err
	}
	password = append(password, rest...)

	for index := len(password) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		password[index], password[swap] = password[swap], password[index]
	}
	return string(password), nil
}

// randomIndex returns a value in [0, n) for n <= 256, rejecting bytes that
// would skew the distribution.
func randomIndex(n int) (int, error) {
	ceiling := 256 - 256%n
	var buffer [1]byte
	for {
		if _, err := rand.Read(buffer[:]); err != nil {
			return 0, err
		}
		if int(buffer[0]) < ceiling {
			return int(buffer[0]) % n, nil
		}
	}
}
