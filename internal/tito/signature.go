package tito

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

const (
	HeaderSignature  = "Tito-Signature"
	HeaderEventType  = "X-Webhook-Name"
	HeaderEndpointID = "X-Webhook-Endpoint-Id"
)

type Verification int

const (
	VerificationInvalid Verification = iota
	VerificationValid
	VerificationNotConfigured
)

func (v Verification) String() string {
	switch v {
	case VerificationValid:
		return "valid"
	case VerificationNotConfigured:
		return "not_configured"
	default:
		return "invalid"
	}
}

// Sign returns base64(HMAC-SHA256(body, secret)), the value Tito sends in Tito-Signature.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against the raw, unparsed request body.
func Verify(secret string, body []byte, signature string) Verification {
	if secret == "" {
		return VerificationNotConfigured
	}
	if signature == "" {
		return VerificationInvalid
	}

	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return VerificationInvalid
	}
	return VerificationValid
}
