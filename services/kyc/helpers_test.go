package kyc

import (
	"context"
	"sync"
	"time"

	"afrimobile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	updateErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	if u.KYCData != nil {
		data := *u.KYCData
		clone.KYCData = &data
	}
	return &clone, nil
}

func (r *fakeUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *fakeUserRepo) UpdateKYC(userID string, status models.KYCStatus, verified bool, data *models.KYCData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	// Mirrors the store's guard: writes that would demote a verified user
	// are dropped.
	if u.KYCStatus == models.KYCStatusVerified && status != models.KYCStatusVerified {
		return nil
	}
	u.KYCStatus = status
	u.IsVerified = verified
	if data != nil {
		clone := *data
		u.KYCData = &clone
	}
	return nil
}

func (r *fakeUserRepo) TouchKYCReminder(userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.KYCRemindedAt = &at
	}
	return nil
}

// fakeGateway is a scripted ProviderGateway.
type fakeGateway struct {
	mu        sync.Mutex
	linkID    string
	createErr error
	getInfo   map[string]any
	getErr    error
	calls     int
	bodies    []map[string]any
}

func (g *fakeGateway) CreateLink(ctx context.Context, body map[string]any) (string, map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.bodies = append(g.bodies, body)
	if g.createErr != nil {
		return "", nil, g.createErr
	}
	return g.linkID, map[string]any{"ref_id": g.linkID}, nil
}

func (g *fakeGateway) GetLink(ctx context.Context, linkID string) (map[string]any, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	info := map[string]any{}
	for k, v := range g.getInfo {
		info[k] = v
	}
	return info, nil
}

func (g *fakeGateway) UpdateLink(ctx context.Context, linkID string, patch map[string]any) (map[string]any, error) {
	return map[string]any{"ref_id": linkID}, nil
}

func (g *fakeGateway) LinkBase() string {
	return "https://links.sandbox.usesmileid.com"
}

func newTestService(repo *fakeUserRepo, gw *fakeGateway) *DefaultKYCService {
	signer, _ := NewSigner("partner-001", "test-api-key")
	return &DefaultKYCService{Repo: repo, Gateway: gw, Signer: signer}
}
