package kyc

import (
	"context"
	"time"

	userRepo "afrimobile/database/repository/user"
	"afrimobile/models"
)

// KYCService is the business-logic surface of the KYC link lifecycle:
// minting verification links, reading link state from the provider, and
// ingesting webhook results into the user's KYC slice.
type KYCService interface {
	CreateLinkForUser(ctx context.Context, req models.CreateLinkRequest) (*models.LinkDescriptor, error)
	CreateLinksForUsers(ctx context.Context, req models.BulkCreateRequest) (*models.BulkCreateResult, error)
	GetLinkStatus(ctx context.Context, linkID string) (map[string]any, error)
	ProcessWebhook(ctx context.Context, body []byte) error
	VerifyWebhookSignature(signature, timestamp string) bool
	GetUserKYC(ctx context.Context, userID string) (*models.User, error)
}

// ReminderScheduler schedules the pending-verification nudge that
// accompanies each minted link. Implemented by the asynq-backed scheduler in
// services/tasks; failures to schedule never fail link creation.
type ReminderScheduler interface {
	Schedule(payload models.KYCReminderPayload, fireAt time.Time) error
}

// DefaultKYCService is the production implementation.
type DefaultKYCService struct {
	Repo      userRepo.UserRepository
	Gateway   ProviderGateway
	Signer    *Signer
	Reminders ReminderScheduler
}

// VerifyWebhookSignature checks an inbound webhook signature against the
// configured credentials.
func (s *DefaultKYCService) VerifyWebhookSignature(signature, timestamp string) bool {
	return s.Signer.Verify(signature, timestamp)
}

// GetUserKYC reads the persisted KYC slice without provider traffic.
func (s *DefaultKYCService) GetUserKYC(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ValidationError{Reason: "userId is required"}
	}
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, UserNotFoundError{UserID: userID}
	}
	return usr, nil
}
