package credentials

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	// JoinCodeLength is the number of characters in a family join code
	JoinCodeLength = 5

	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var joinCodePattern = regexp.MustCompile(`^[A-Z0-9]{5}$`)

// GenerateJoinCode returns a random code over A-Z0-9
func GenerateJoinCode() (string, error) {
	code := make([]byte, JoinCodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[num.Int64()]
	}
	return string(code), nil
}

// NormalizeJoinCode trims whitespace and upper-cases user input
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidJoinCode reports whether code is a well-formed, normalized join code
func IsValidJoinCode(code string) bool {
	return joinCodePattern.MatchString(code)
}
