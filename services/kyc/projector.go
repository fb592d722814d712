package kyc

import (
	"context"
	"time"

	"afrimobile/models"

	"go.uber.org/zap"
)

// projectState drives the per-user KYC state machine. It is the sole writer
// of the user's KYC slice.
//
// Monotonicity rule: once a user is verified, later FAILURE or PENDING
// results for stale jobs are ignored, so a re-triggered old job can never
// demote a completed verification.
func (s *DefaultKYCService) projectState(ctx context.Context, event *models.WebhookEvent, classification models.Classification) error {
	logger := zap.L()

	usr, err := s.Repo.GetByID(event.UserID)
	if err != nil {
		return StateUpdateError{UserID: event.UserID, Err: err}
	}
	if usr == nil {
		return ValidationError{Reason: "webhook referenced unknown user " + event.UserID}
	}

	if usr.KYCStatus == models.KYCStatusVerified && classification != models.ClassificationSuccess {
		logger.Info("Ignoring non-success webhook for verified user",
			zap.String("userId", usr.ID), zap.String("jobId", event.JobID))
		return nil
	}

	now := time.Now()
	var status models.KYCStatus
	data := &models.KYCData{}
	if usr.KYCData != nil {
		*data = *usr.KYCData
	}

	switch classification {
	case models.ClassificationSuccess:
		status = models.KYCStatusVerified
		// Keep the earliest verification instant so duplicate deliveries of
		// the same success stay idempotent.
		if data.VerifiedAt == nil {
			data.VerifiedAt = &now
		}
		data.FailedAt = nil
		data.FailureReason = ""
		data.VerificationMethod = event.IDType
		data.Confidence = event.Confidence
		data.ProviderJobID = event.JobID

	case models.ClassificationFailure:
		status = models.KYCStatusFailed
		data.FailedAt = &now
		data.FailureReason = event.ResultText
		data.ProviderJobID = event.JobID

	default:
		status = models.KYCStatusPending
		data.PendingAt = &now
		data.ProviderJobID = event.JobID
	}

	verified := status == models.KYCStatusVerified
	if err := s.Repo.UpdateKYC(usr.ID, status, verified, data); err != nil {
		return StateUpdateError{UserID: usr.ID, Err: err}
	}

	logger.Info("Projected kyc state",
		zap.String("userId", usr.ID),
		zap.String("from", string(usr.KYCStatus)),
		zap.String("to", string(status)))
	return nil
}
