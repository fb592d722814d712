package kyc

import (
	"testing"

	"afrimobile/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, models.ClassificationSuccess, Classify("2814"))
	assert.Equal(t, models.ClassificationFailure, Classify("2815"))
	assert.Equal(t, models.ClassificationPending, Classify("2810"))
	assert.Equal(t, models.ClassificationPending, Classify(""))
	assert.Equal(t, models.ClassificationPending, Classify("0810"))
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"user_id": "u1",
		"job_id": "J9",
		"result_code": "2814",
		"result_text": "Enrollee matched",
		"confidence": 99.7,
		"id_type": "NIN",
		"country": "NG",
		"timestamp": "2026-08-25T10:00:00Z"
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "J9", event.JobID)
	assert.Equal(t, "2814", event.ResultCode)
	assert.Equal(t, "Enrollee matched", event.ResultText)
	assert.Equal(t, "NIN", event.IDType)
	require.NotNil(t, event.Confidence)
	assert.InDelta(t, 99.7, *event.Confidence, 0.001)
}

func TestParseWebhookEventAliases(t *testing.T) {
	// Aliased field names and numeric result codes.
	body := []byte(`{"ResultCode": 2815, "ResultText": "ID mismatch", "SmileJobID": "J2", "partner_params": {"user_id": "u7"}}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "u7", event.UserID)
	assert.Equal(t, "2815", event.ResultCode)
	assert.Equal(t, "ID mismatch", event.ResultText)
	assert.Equal(t, "J2", event.JobID)
}

func TestParseWebhookEventPrefersTopLevelUserID(t *testing.T) {
	body := []byte(`{"user_id": "top", "partner_params": {"user_id": "nested"}}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "top", event.UserID)
}

func TestParseWebhookEventRejectsInvalidJSON(t *testing.T) {
	_, err := ParseWebhookEvent([]byte("not-json"))
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}
