// Package id generates Stripe-style short identifiers for public-facing
// entity references.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for different entity types
const (
	PrefixSubscription   = "sub"
	PrefixPayment        = "pay"
	PrefixPlan           = "plan"
	PrefixBooking        = "bkg"
	PrefixUpgradeAttempt = "upg"
)

// Generate creates a cryptographically random Base62 ID of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed short ID, e.g. "sub_aB3x9Kp2QwE1".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}

// MustGenerateWithPrefix creates a prefixed short ID and panics on error.
// crypto/rand failures indicate a broken platform; there is no useful recovery.
func MustGenerateWithPrefix(prefix string) string {
	id, err := GenerateWithPrefix(prefix, DefaultLength)
	if err != nil {
		panic(err)
	}
	return id
}

// HasPrefix reports whether sid carries the given entity prefix.
func HasPrefix(sid, prefix string) bool {
	return strings.HasPrefix(sid, prefix+"_")
}
