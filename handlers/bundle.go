// File: handlers/bundle.go
package handlers

import (
	userRepo "afrimobile/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the HTTP handlers and the repositories the route
// middleware needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	// KYC link lifecycle endpoints.
	CreateLinkHandler      gin.HandlerFunc
	CreateBulkLinksHandler gin.HandlerFunc
	LinkStatusHandler      gin.HandlerFunc
	UserKYCStatusHandler   gin.HandlerFunc
	SmileWebhookHandler    gin.HandlerFunc
}
