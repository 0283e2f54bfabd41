package security

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeContent strips all HTML and normalizes user-supplied text
// (post bodies, comments, chat messages).
func SanitizeContent(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)
	return strings.TrimSpace(input)
}

// GenerateToken returns a hex-encoded random token of n bytes, used for
// email-confirmation codes and password-reset links.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
