package handlers

import (
	"errors"
	"net/http"
	"time"

	"afrimobile/models"
	"afrimobile/services/kyc"
	"afrimobile/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KYCHandler exposes the KYC link lifecycle over HTTP. It is the only layer
// that translates typed service errors into response envelopes.
type KYCHandler struct {
	Service kyc.KYCService
}

func NewKYCHandler(svc kyc.KYCService) *KYCHandler {
	return &KYCHandler{Service: svc}
}

// respondKYCError maps a typed service error onto the error envelope.
func respondKYCError(c *gin.Context, err error) {
	var (
		validationErr kyc.ValidationError
		notFoundErr   kyc.UserNotFoundError
		providerErr   kyc.ProviderError
		transportErr  kyc.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, validationErr.Reason, "")
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, notFoundErr.Error(), "")
	case errors.As(err, &providerErr):
		status := http.StatusBadRequest
		if providerErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		utils.JSONError(c, status, "Verification provider rejected the request", providerErr.Message)
	case errors.As(err, &transportErr):
		utils.JSONError(c, http.StatusInternalServerError, "Verification provider is unreachable", transportErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// CreateLinkHandler handles POST /api/kyc/create-link.
func (h *KYCHandler) CreateLinkHandler(c *gin.Context) {
	logger := zap.L()

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// The authenticated principal is stamped into the partner params.
	if principal, ok := c.Get("userID"); ok {
		if id, ok := principal.(string); ok {
			req.CreatedBy = id
		}
	}

	descriptor, err := h.Service.CreateLinkForUser(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Link creation failed", zap.String("userId", req.UserID), zap.Error(err))
		respondKYCError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": descriptor})
}

// CreateBulkLinksHandler handles POST /api/kyc/create-bulk-links. The
// envelope succeeds even when some or all entries failed.
func (h *KYCHandler) CreateBulkLinksHandler(c *gin.Context) {
	logger := zap.L()

	var req models.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if principal, ok := c.Get("userID"); ok {
		if id, ok := principal.(string); ok {
			for i := range req.Links {
				req.Links[i].CreatedBy = id
			}
		}
	}

	result, err := h.Service.CreateLinksForUsers(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Bulk link creation rejected", zap.Error(err))
		respondKYCError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

// LinkStatusHandler handles GET /api/kyc/link-status/:linkId.
func (h *KYCHandler) LinkStatusHandler(c *gin.Context) {
	linkID := c.Param("linkId")

	info, err := h.Service.GetLinkStatus(c.Request.Context(), linkID)
	if err != nil {
		respondKYCError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

// UserKYCStatusHandler handles GET /api/kyc/status/:userId — the persisted
// KYC slice, no provider traffic.
func (h *KYCHandler) UserKYCStatusHandler(c *gin.Context) {
	userID := c.Param("userId")

	usr, err := h.Service.GetUserKYC(c.Request.Context(), userID)
	if err != nil {
		respondKYCError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"userId":     usr.ID,
		"kycStatus":  usr.KYCStatus,
		"isVerified": usr.IsVerified,
		"kycData":    usr.KYCData,
	}})
}

// SmileWebhookHandler handles POST /api/kyc/webhook/smileid.
//
// Signature policy is lenient: the provider does not always sign, so the
// check only runs when both headers are present. A mismatch with both
// present is a hard 401 and state stays untouched. Acknowledgment is
// decoupled from state-update success so transient DB issues never cause
// provider retry storms.
func (h *KYCHandler) SmileWebhookHandler(c *gin.Context) {
	logger := zap.L()

	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unable to read webhook body", err.Error())
		return
	}

	signature := firstHeader(c, "X-Signature", "Signature")
	timestamp := firstHeader(c, "X-Timestamp", "Timestamp")
	if signature != "" && timestamp != "" {
		if !h.Service.VerifyWebhookSignature(signature, timestamp) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid webhook signature", "")
			return
		}
	}

	if err := h.Service.ProcessWebhook(c.Request.Context(), body); err != nil {
		var (
			validationErr  kyc.ValidationError
			stateUpdateErr kyc.StateUpdateError
		)
		switch {
		case errors.As(err, &validationErr):
			// Never make the provider retry a malformed payload.
			logger.Warn("Discarding malformed webhook", zap.String("reason", validationErr.Reason))
		case errors.As(err, &stateUpdateErr):
			logger.Error("Webhook accepted but state update failed", zap.Error(stateUpdateErr))
		default:
			logger.Error("Webhook processing failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Webhook processed",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// firstHeader returns the first non-empty header among the given names.
func firstHeader(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.GetHeader(name); v != "" {
			return v
		}
	}
	return ""
}
