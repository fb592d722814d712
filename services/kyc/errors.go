package kyc

import "fmt"

// ValidationError signals malformed client input (missing user id, oversized
// batch, invalid country code).
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UserNotFoundError signals that the referenced internal user does not exist.
// It is raised before any provider traffic is issued.
type UserNotFoundError struct {
	UserID string
}

func (e UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id %s not found", e.UserID)
}

// ProviderError carries a decodable error message returned by the provider
// with a non-2xx status.
type ProviderError struct {
	Status  int
	Message string
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("provider error (%d): %s", e.Status, e.Message)
}

// TransportError signals a network or timeout failure talking to the
// provider. Retries are the caller's responsibility.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return "provider unreachable: " + e.Err.Error()
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// SignatureInvalidError signals a failed webhook signature check. State is
// never touched when this is raised.
type SignatureInvalidError struct{}

func (e SignatureInvalidError) Error() string {
	return "webhook signature verification failed"
}

// StateUpdateError signals that writing the KYC slice failed after a valid
// webhook. The webhook is still acknowledged to prevent provider retry storms.
type StateUpdateError struct {
	UserID string
	Err    error
}

func (e StateUpdateError) Error() string {
	return fmt.Sprintf("failed to update kyc state for user %s: %v", e.UserID, e.Err)
}

func (e StateUpdateError) Unwrap() error {
	return e.Err
}
