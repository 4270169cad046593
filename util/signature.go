package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ErrInvalidSignature is returned for any signature failure. Missing,
// malformed, and mismatched digests are indistinguishable to the caller.
var ErrInvalidSignature = errors.New("invalid signature")

// VerifySignature checks a hex-encoded HMAC-SHA256 digest over the exact
// body bytes as received, before any JSON parsing. The comparison is
// constant-time.
func VerifySignature(body []byte, secret string, signature string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrInvalidSignature
	}

	return nil
}

// SignBody returns the hex HMAC-SHA256 digest a client puts in X-Signature.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
