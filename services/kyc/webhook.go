package kyc

import (
	"context"
	"encoding/json"
	"fmt"

	"afrimobile/models"

	"go.uber.org/zap"
)

// Result codes the provider reports for enhanced KYC jobs. Anything else,
// including an absent code, is treated as still pending.
const (
	resultCodeSuccess = "2814"
	resultCodeFailure = "2815"
)

// Classify maps a provider result code onto the classification sum type.
func Classify(resultCode string) models.Classification {
	switch resultCode {
	case resultCodeSuccess:
		return models.ClassificationSuccess
	case resultCodeFailure:
		return models.ClassificationFailure
	default:
		return models.ClassificationPending
	}
}

// ParseWebhookEvent decodes a raw provider payload permissively. Field names
// vary between provider versions, so each value is resolved through its
// known aliases in order.
func ParseWebhookEvent(body []byte) (*models.WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ValidationError{Reason: "webhook body is not valid JSON"}
	}

	event := &models.WebhookEvent{
		UserID:     stringField(payload, "user_id"),
		JobID:      stringField(payload, "job_id", "smile_job_id", "SmileJobID"),
		ResultCode: stringField(payload, "result_code", "ResultCode"),
		ResultText: stringField(payload, "result_text", "ResultText"),
		IDType:     stringField(payload, "id_type", "IDType"),
		Country:    stringField(payload, "country", "Country"),
		Timestamp:  stringField(payload, "timestamp"),
	}

	if v, ok := numberField(payload, "confidence", "ConfidenceValue"); ok {
		event.Confidence = &v
	}

	// Fall back to the echoed partner params for user correlation.
	if event.UserID == "" {
		if params, ok := payload["partner_params"].(map[string]any); ok {
			event.UserID = stringField(params, "user_id")
		}
	}

	return event, nil
}

// ProcessWebhook validates, classifies and projects one provider callback.
// A payload without a resolvable user id yields a ValidationError the
// handler logs and acknowledges; the provider is never made to retry
// malformed payloads.
func (s *DefaultKYCService) ProcessWebhook(ctx context.Context, body []byte) error {
	logger := zap.L()

	event, err := ParseWebhookEvent(body)
	if err != nil {
		return err
	}
	if event.UserID == "" {
		return ValidationError{Reason: "webhook carried no user_id"}
	}

	classification := Classify(event.ResultCode)
	logger.Info("Processing verification webhook",
		zap.String("userId", event.UserID),
		zap.String("jobId", event.JobID),
		zap.String("resultCode", event.ResultCode),
		zap.String("classification", string(classification)))

	return s.projectState(ctx, event, classification)
}

// stringField returns the first present alias coerced to a string. Numeric
// result codes arrive as JSON numbers from some provider versions.
func stringField(payload map[string]any, aliases ...string) string {
	for _, key := range aliases {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return fmt.Sprintf("%.0f", t)
		}
	}
	return ""
}

// numberField returns the first present alias as a float64.
func numberField(payload map[string]any, aliases ...string) (float64, bool) {
	for _, key := range aliases {
		if v, ok := payload[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}
