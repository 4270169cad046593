package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {

	body := []byte(`{"message_id":"m1","from":"+15551234567","to":"+14155550100","ts":"2024-01-01T00:00:00Z"}`)
	secret := "topsecret"

	signature := SignBody(body, secret)
	assert.NoError(t, VerifySignature(body, secret, signature))

	// tampered body
	assert.Error(t, VerifySignature(append(body, ' '), secret, signature))

	// wrong secret
	assert.Error(t, VerifySignature(body, "othersecret", signature))

	// missing signature
	assert.Error(t, VerifySignature(body, secret, ""))

	// malformed hex
	assert.Error(t, VerifySignature(body, secret, "not-hex"))

	// unset secret fails closed even with a matching digest shape
	assert.Error(t, VerifySignature(body, "", SignBody(body, "")))
}
