package kyc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// Signer computes and verifies the provider's HMAC-SHA256 request signature.
// The digest covers timestamp || partnerID || "sid_request", keyed by the
// shared API key, and is base64 encoded. Immutable after construction.
type Signer struct {
	partnerID string
	apiKey    string
}

// NewSigner validates the provider credentials up front so signing can never
// fail at call time.
func NewSigner(partnerID, apiKey string) (*Signer, error) {
	if partnerID == "" {
		return nil, errors.New("smile partner id is not configured")
	}
	if apiKey == "" {
		return nil, errors.New("smile api key is not configured")
	}
	return &Signer{partnerID: partnerID, apiKey: apiKey}, nil
}

// PartnerID returns the configured partner identifier.
func (s *Signer) PartnerID() string {
	return s.partnerID
}

// Sign computes the signature for the given ISO-8601 timestamp.
func (s *Signer) Sign(timestamp string) string {
	mac := hmac.New(sha256.New, []byte(s.apiKey))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(s.partnerID))
	mac.Write([]byte("sid_request"))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the received signature matches a freshly computed
// one for the received timestamp, compared in constant time.
func (s *Signer) Verify(receivedSignature, receivedTimestamp string) bool {
	expected := s.Sign(receivedTimestamp)
	return hmac.Equal([]byte(expected), []byte(receivedSignature))
}
