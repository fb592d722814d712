package kyc

import (
	"context"
	"fmt"
	"time"

	"afrimobile/config"
	"afrimobile/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Link lifetime is a policy of the service, not a per-request knob.
	linkLifetimeDays = 60

	// maxBulkEntries caps one bulk request.
	maxBulkEntries = 50

	// bulkPaceDelay spaces sequential provider calls in a bulk request to
	// avoid rate-limit retaliation.
	bulkPaceDelay = 200 * time.Millisecond
)

// defaultIDTypes is the id-type list applied when the caller supplies none.
func defaultIDTypes() []models.IDType {
	return []models.IDType{{Country: "NG", IDType: "NIN", VerificationMethod: "enhanced_kyc"}}
}

// linkExpiry computes the absolute expiry of a link minted now: 60 days out,
// end of day UTC. Client-supplied expiries are never honored.
func linkExpiry(now time.Time) time.Time {
	d := now.UTC().AddDate(0, 0, linkLifetimeDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999000000, time.UTC)
}

// CreateLinkForUser mints a verification link for one internal user. The
// user must exist before any provider traffic is issued.
func (s *DefaultKYCService) CreateLinkForUser(ctx context.Context, req models.CreateLinkRequest) (*models.LinkDescriptor, error) {
	logger := zap.L()

	if req.UserID == "" {
		return nil, ValidationError{Reason: "userId is required"}
	}

	usr, err := s.Repo.GetByID(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", req.UserID, err)
	}
	if usr == nil {
		return nil, UserNotFoundError{UserID: req.UserID}
	}

	name := req.Name
	if name == "" {
		display := usr.Name
		if display == "" {
			display = usr.Email
		}
		name = "KYC Verification - " + display
	}

	email := req.Email
	if email == "" {
		email = usr.Email
	}

	country := req.Country
	if country == "" {
		country = "NG"
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = config.AppConfig.CompanyName
	}

	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = config.DefaultCallbackURL()
	}

	idTypes := req.IDTypes
	if len(idTypes) == 0 {
		idTypes = defaultIDTypes()
	}

	now := time.Now()
	expiresAt := linkExpiry(now)

	// Partner params are echoed back in webhooks; the required correlation
	// keys are always injected over whatever the caller supplied.
	partnerParams := map[string]string{}
	for k, v := range req.PartnerParams {
		partnerParams[k] = v
	}
	partnerParams["user_id"] = usr.ID
	partnerParams["user_email"] = email
	partnerParams["user_name"] = name
	partnerParams["created_by"] = req.CreatedBy
	partnerParams["timestamp"] = now.UTC().Format(time.RFC3339)

	idTypePayload := make([]map[string]any, 0, len(idTypes))
	for _, t := range idTypes {
		idTypePayload = append(idTypePayload, map[string]any{
			"country":             t.Country,
			"id_type":             t.IDType,
			"verification_method": t.VerificationMethod,
		})
	}

	body := map[string]any{
		"name":                    name,
		"company_name":            companyName,
		"id_types":                idTypePayload,
		"callback_url":            callbackURL,
		"data_privacy_policy_url": config.AppConfig.PrivacyPolicyURL,
		"logo_url":                config.AppConfig.CompanyLogoURL,
		"is_single_use":           true,
		"user_id":                 usr.ID,
		"partner_params":          partnerParams,
		"expires_at":              expiresAt.Format(time.RFC3339),
	}

	linkID, _, err := s.Gateway.CreateLink(ctx, body)
	if err != nil {
		return nil, err
	}

	descriptor := &models.LinkDescriptor{
		LinkID:           linkID,
		PersonalURL:      fmt.Sprintf("%s/%s/%s", s.Gateway.LinkBase(), s.Signer.PartnerID(), linkID),
		UserID:           usr.ID,
		ExpiresAt:        expiresAt,
		SupportedIDTypes: idTypes,
		Country:          country,
	}

	s.scheduleReminder(descriptor)

	logger.Info("Created verification link",
		zap.String("userId", usr.ID), zap.String("linkId", linkID), zap.Time("expiresAt", expiresAt))
	return descriptor, nil
}

// scheduleReminder enqueues a pending-verification nudge a week before the
// link expires. Best effort: scheduling failures never fail link creation.
func (s *DefaultKYCService) scheduleReminder(d *models.LinkDescriptor) {
	if s.Reminders == nil {
		return
	}
	payload := models.KYCReminderPayload{
		UserID:    d.UserID,
		LinkID:    d.LinkID,
		ExpiresAt: d.ExpiresAt,
	}
	if err := s.Reminders.Schedule(payload, d.ExpiresAt.AddDate(0, 0, -7)); err != nil {
		zap.L().Warn("Failed to schedule kyc reminder",
			zap.String("userId", d.UserID), zap.String("linkId", d.LinkID), zap.Error(err))
	}
}

// CreateLinksForUsers mints links for up to 50 users sequentially. Individual
// failures never abort the batch; partial success is the contract.
func (s *DefaultKYCService) CreateLinksForUsers(ctx context.Context, req models.BulkCreateRequest) (*models.BulkCreateResult, error) {
	if len(req.Links) == 0 {
		return nil, ValidationError{Reason: "links must not be empty"}
	}
	if len(req.Links) > maxBulkEntries {
		return nil, ValidationError{Reason: fmt.Sprintf("links must not exceed %d entries", maxBulkEntries)}
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	result := &models.BulkCreateResult{
		BatchID:    batchID,
		Successful: []models.LinkDescriptor{},
		Failed:     []models.BulkEntryError{},
	}

	for i, entry := range req.Links {
		if entry.CompanyName == "" {
			entry.CompanyName = req.CompanyName
		}
		if entry.CallbackURL == "" {
			entry.CallbackURL = req.DefaultCallbackURL
		}
		if len(entry.IDTypes) == 0 {
			entry.IDTypes = req.DefaultIDTypes
		}
		// Copy before injecting batch_id: entry aliases the caller's bound
		// request and its params map must stay untouched.
		params := make(map[string]string, len(entry.PartnerParams)+1)
		for k, v := range entry.PartnerParams {
			params[k] = v
		}
		params["batch_id"] = batchID
		entry.PartnerParams = params

		descriptor, err := s.CreateLinkForUser(ctx, entry)
		if err != nil {
			result.Failed = append(result.Failed, models.BulkEntryError{UserID: entry.UserID, Error: err.Error()})
		} else {
			result.Successful = append(result.Successful, *descriptor)
		}

		// Pace sequential provider calls; nothing to wait for after the last.
		if i < len(req.Links)-1 {
			select {
			case <-ctx.Done():
				// Remaining entries are recorded as failed so the summary
				// still accounts for every request.
				for _, rest := range req.Links[i+1:] {
					result.Failed = append(result.Failed, models.BulkEntryError{UserID: rest.UserID, Error: ctx.Err().Error()})
				}
				result.Summary = models.BulkSummary{
					Total:      len(req.Links),
					Successful: len(result.Successful),
					Failed:     len(result.Failed),
				}
				return result, nil
			case <-time.After(bulkPaceDelay):
			}
		}
	}

	result.Summary = models.BulkSummary{
		Total:      len(req.Links),
		Successful: len(result.Successful),
		Failed:     len(result.Failed),
	}
	return result, nil
}

// GetLinkStatus fetches the provider's current view of a link and annotates
// it with expiry information. Each read hits the provider fresh.
func (s *DefaultKYCService) GetLinkStatus(ctx context.Context, linkID string) (map[string]any, error) {
	if linkID == "" {
		return nil, ValidationError{Reason: "linkId is required"}
	}

	info, err := s.Gateway.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if raw, ok := info["expires_at"].(string); ok {
		if expiresAt, perr := time.Parse(time.RFC3339, raw); perr == nil {
			until := time.Until(expiresAt)
			days := int(until.Hours() / 24)
			info["isExpired"] = until <= 0
			info["daysUntilExpiry"] = days
			switch {
			case until <= 0:
				info["expiryStatus"] = "expired"
			case days <= 7:
				info["expiryStatus"] = "expiring_soon"
			default:
				info["expiryStatus"] = "active"
			}
		}
	}
	return info, nil
}
