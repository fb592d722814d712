// models/user.go
package models

import "time"

// KYCStatus enumerates the verification states a user can be in.
type KYCStatus string

const (
	KYCStatusNotStarted KYCStatus = "not_started"
	KYCStatusPending    KYCStatus = "pending"
	KYCStatusVerified   KYCStatus = "verified"
	KYCStatusFailed     KYCStatus = "failed"
)

// KYCData captures the metadata of the last verification activity.
// It is written only by the KYC state projector.
type KYCData struct {
	VerifiedAt         *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	FailedAt           *time.Time `bson:"failedAt,omitempty" json:"failedAt,omitempty"`
	PendingAt          *time.Time `bson:"pendingAt,omitempty" json:"pendingAt,omitempty"`
	FailureReason      string     `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	VerificationMethod string     `bson:"verificationMethod,omitempty" json:"verificationMethod,omitempty"`
	Confidence         *float64   `bson:"confidence,omitempty" json:"confidence,omitempty"`
	ProviderJobID      string     `bson:"providerJobId,omitempty" json:"providerJobId,omitempty"`
}

// User represents a platform user document.
//
// Invariant: IsVerified is true exactly when KYCStatus is "verified"; the two
// are always updated in the same write.
type User struct {
	ID            string     `bson:"id" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Email         string     `bson:"email" json:"email"`
	PhoneNumber   string     `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	AuthTokenHash string     `bson:"authTokenHash,omitempty" json:"-"`
	KYCStatus     KYCStatus  `bson:"kycStatus" json:"kycStatus"`
	IsVerified    bool       `bson:"isVerified" json:"isVerified"`
	KYCData       *KYCData   `bson:"kycData,omitempty" json:"kycData,omitempty"`
	KYCRemindedAt *time.Time `bson:"kycRemindedAt,omitempty" json:"-"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}
