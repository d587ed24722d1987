package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"unicode/utf8"
)

var ErrMissingSecret = errors.New("token signing secret is required")

// Codec signs and verifies session tokens. A token is
// base64url(payload) + "." + base64url(HMAC-SHA256(payload)).
// The secret is read-only after construction, so a single Codec is
// safe to share across requests.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec with the given signing secret. An empty
// secret is refused: there is no fallback key, a deployment without a
// configured secret must not issue tokens at all.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign computes the HMAC-SHA256 signature over the UTF-8 payload and
// emits the two-segment token format.
func (c *Codec) Sign(payload string) string {
	sig := c.signature([]byte(payload))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}

// Verify validates a token and returns its payload. Tokens with a
// single segment are legacy unsigned tokens from before signing was
// introduced; they are still accepted but logged so the migration can
// be tracked. Any malformed input yields ok=false, never an error or
// panic past this boundary.
func (c *Codec) Verify(token string) (payload string, ok bool) {
	if token == "" {
		return "", false
	}

	parts := strings.Split(token, ".")
	switch len(parts) {
	case 1:
		raw, err := base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil || !utf8.Valid(raw) {
			return "", false
		}
		log.Printf("[TOKEN] accepted legacy unsigned token (deprecated)")
		return string(raw), true

	case 2:
		raw, err := base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil || !utf8.Valid(raw) {
			return "", false
		}
		sig, err := base64.RawURLEncoding.DecodeString(parts[1])
		if err != nil {
			return "", false
		}
		if !hmac.Equal(sig, c.signature(raw)) {
			return "", false
		}
		return string(raw), true

	default:
		return "", false
	}
}

func (c *Codec) signature(payload []byte) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write(payload)
	return h.Sum(nil)
}
