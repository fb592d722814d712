// models/kyc.go
package models

import "time"

// IDType is one entry of the id-type list a verification link accepts.
type IDType struct {
	Country            string `json:"country" bson:"country"`
	IDType             string `json:"idType" bson:"idType"`
	VerificationMethod string `json:"verificationMethod" bson:"verificationMethod"`
}

// CreateLinkRequest carries the caller-supplied fields for minting a
// verification link. Everything except UserID is optional; ExpiresAt is
// accepted for wire compatibility but always recomputed by the service.
type CreateLinkRequest struct {
	UserID        string            `json:"userId" binding:"required"`
	Name          string            `json:"name,omitempty"`
	Email         string            `json:"email,omitempty"`
	Country       string            `json:"country,omitempty"`
	IDTypes       []IDType          `json:"idTypes,omitempty"`
	CompanyName   string            `json:"companyName,omitempty"`
	CallbackURL   string            `json:"callbackUrl,omitempty"`
	ExpiresAt     string            `json:"expiresAt,omitempty"`
	PartnerParams map[string]string `json:"partnerParams,omitempty"`
	CreatedBy     string            `json:"-"`
}

// LinkDescriptor is returned to the caller after a link is minted. The
// provider owns the link's lifecycle; the descriptor is never mutated here.
type LinkDescriptor struct {
	LinkID           string    `json:"linkId"`
	PersonalURL      string    `json:"url"`
	UserID           string    `json:"userId"`
	ExpiresAt        time.Time `json:"expiresAt"`
	SupportedIDTypes []IDType  `json:"supportedIdTypes"`
	Country          string    `json:"country"`
}

// BulkCreateRequest mints links for up to 50 users in one call.
type BulkCreateRequest struct {
	Links              []CreateLinkRequest `json:"links" binding:"required"`
	CompanyName        string              `json:"companyName,omitempty"`
	BatchID            string              `json:"batchId,omitempty"`
	DefaultCallbackURL string              `json:"defaultCallbackUrl,omitempty"`
	DefaultIDTypes     []IDType            `json:"defaultIdTypes,omitempty"`
}

// BulkEntryError records a single failed entry of a bulk request.
type BulkEntryError struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

// BulkSummary aggregates the outcome counts of a bulk request.
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkCreateResult is the envelope of a bulk link creation. Partial success
// is the contract: the envelope succeeds even when entries failed.
type BulkCreateResult struct {
	BatchID    string           `json:"batchId"`
	Successful []LinkDescriptor `json:"successful"`
	Failed     []BulkEntryError `json:"failed"`
	Summary    BulkSummary      `json:"summary"`
}

// WebhookEvent is the normalized form of a provider callback after
// alias-tolerant parsing.
type WebhookEvent struct {
	UserID     string
	JobID      string
	ResultCode string
	ResultText string
	Confidence *float64
	IDType     string
	Country    string
	Timestamp  string
}

// Classification is the sum type a webhook result code maps onto.
type Classification string

const (
	ClassificationSuccess Classification = "SUCCESS"
	ClassificationFailure Classification = "FAILURE"
	ClassificationPending Classification = "PENDING"
)

// KYCReminderPayload is the asynq task payload for the pending-verification
// reminder scheduled alongside each minted link.
type KYCReminderPayload struct {
	UserID    string    `json:"userId"`
	LinkID    string    `json:"linkId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
