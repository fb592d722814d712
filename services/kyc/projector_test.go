package kyc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"afrimobile/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successWebhook(userID string) []byte {
	return []byte(fmt.Sprintf(`{"user_id": %q, "result_code": "2814", "id_type": "NIN", "confidence": 99.7, "job_id": "J9"}`, userID))
}

func failureWebhook(userID, reason string) []byte {
	return []byte(fmt.Sprintf(`{"user_id": %q, "result_code": "2815", "result_text": %q, "job_id": "J4"}`, userID, reason))
}

func pendingWebhook(userID string) []byte {
	return []byte(fmt.Sprintf(`{"user_id": %q, "result_code": "2810", "job_id": "J5"}`, userID))
}

func TestSuccessWebhookVerifiesUser(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusVerified, usr.KYCStatus)
	assert.True(t, usr.IsVerified)
	require.NotNil(t, usr.KYCData)
	assert.Equal(t, "J9", usr.KYCData.ProviderJobID)
	assert.Equal(t, "NIN", usr.KYCData.VerificationMethod)
	require.NotNil(t, usr.KYCData.Confidence)
	assert.InDelta(t, 99.7, *usr.KYCData.Confidence, 0.001)
	require.NotNil(t, usr.KYCData.VerifiedAt)
	assert.Empty(t, usr.KYCData.FailureReason)
}

func TestFailureWebhookRecordsReason(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "ID number mismatch")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusFailed, usr.KYCStatus)
	assert.False(t, usr.IsVerified)
	require.NotNil(t, usr.KYCData.FailedAt)
	assert.Equal(t, "ID number mismatch", usr.KYCData.FailureReason)
}

func TestPendingWebhookMarksPending(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), pendingWebhook("u1")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusPending, usr.KYCStatus)
	assert.False(t, usr.IsVerified)
	require.NotNil(t, usr.KYCData.PendingAt)
}

func TestVerifiedUserIsNeverDemoted(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))

	// No sequence of later failure or pending results flips the state back.
	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "stale job")))
	require.NoError(t, svc.ProcessWebhook(context.Background(), pendingWebhook("u1")))
	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "stale again")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusVerified, usr.KYCStatus)
	assert.True(t, usr.IsVerified)
	assert.Empty(t, usr.KYCData.FailureReason)
}

func TestStoreDropsStaleDemotingWrites(t *testing.T) {
	// A failure result can race a success between the projector's read and
	// its write; the store's guard drops the demoting write on its own.
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))

	failedAt := new(models.KYCData)
	require.NoError(t, repo.UpdateKYC("u1", models.KYCStatusFailed, false, failedAt))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusVerified, usr.KYCStatus)
	assert.True(t, usr.IsVerified)
	assert.Equal(t, "J9", usr.KYCData.ProviderJobID)
}

func TestDuplicateSuccessKeepsEarliestVerifiedAt(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))
	first, _ := repo.GetByID("u1")

	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))
	second, _ := repo.GetByID("u1")

	assert.Equal(t, first.KYCData, second.KYCData)
	assert.True(t, first.KYCData.VerifiedAt.Equal(*second.KYCData.VerifiedAt))
}

func TestSuccessAfterFailureClearsFailureFields(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "blurred document")))
	require.NoError(t, svc.ProcessWebhook(context.Background(), successWebhook("u1")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusVerified, usr.KYCStatus)
	assert.Empty(t, usr.KYCData.FailureReason)
	assert.Nil(t, usr.KYCData.FailedAt)
}

func TestFailureAfterFailureRefreshesReason(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	svc := newTestService(repo, &fakeGateway{})

	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "first reason")))
	require.NoError(t, svc.ProcessWebhook(context.Background(), failureWebhook("u1", "second reason")))

	usr, _ := repo.GetByID("u1")
	assert.Equal(t, models.KYCStatusFailed, usr.KYCStatus)
	assert.Equal(t, "second reason", usr.KYCData.FailureReason)
}

func TestWebhookWithoutUserIDIsValidationError(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeGateway{})

	err := svc.ProcessWebhook(context.Background(), []byte(`{"result_code": "2814"}`))
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestWebhookForUnknownUserIsValidationError(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeGateway{})

	err := svc.ProcessWebhook(context.Background(), successWebhook("ghost"))
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestStateWriteFailureIsTagged(t *testing.T) {
	repo := newFakeUserRepo(testUser("u1", "Ada", "ada@example.com"))
	repo.updateErr = errors.New("write conflict")
	svc := newTestService(repo, &fakeGateway{})

	err := svc.ProcessWebhook(context.Background(), successWebhook("u1"))
	var stateErr StateUpdateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "u1", stateErr.UserID)
}
