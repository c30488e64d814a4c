package util

import (
	"crypto/rand"
	"encoding/hex"
)

// opaqueTokenBytes gives 256 bits of randomness per token.
const opaqueTokenBytes = 32

// GenerateOpaqueToken returns a hex-encoded random token used for the e-mail
// verification and password reset links.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
