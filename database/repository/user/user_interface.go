package userRepo

import (
	"time"

	"afrimobile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository is the slice of the user store the KYC core consumes:
// reads by id plus the single-writer updates of the KYC fields. Account
// creation and profile CRUD live with the account module, not here.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns (nil, nil) when no
	// such user exists.
	GetByID(id string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	// UpdateKYC sets the user's KYC slice (status, verified mirror and
	// metadata) in a single document-level write. Writes that would demote
	// a verified user are dropped.
	UpdateKYC(userID string, status models.KYCStatus, verified bool, data *models.KYCData) error
	// TouchKYCReminder records when a pending-verification reminder fired.
	TouchKYCReminder(userID string, at time.Time) error
}
