package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	productionAPIBase  = "https://api.smileidentity.com/v1/smile_links"
	sandboxAPIBase     = "https://testapi.smileidentity.com/v1/smile_links"
	productionLinkBase = "https://links.usesmileid.com"
	sandboxLinkBase    = "https://links.sandbox.usesmileid.com"

	providerTimeout = 10 * time.Second
)

// linkIDAliases are tried in order when extracting the provider-assigned
// link identifier from a response body.
var linkIDAliases = []string{"ref_id", "linkId", "id", "smile_link_id"}

// ProviderGateway wraps the provider's link-management HTTP API. All
// operations return typed errors (ProviderError, TransportError); nothing
// panics or escapes past the gateway.
type ProviderGateway interface {
	CreateLink(ctx context.Context, body map[string]any) (string, map[string]any, error)
	GetLink(ctx context.Context, linkID string) (map[string]any, error)
	UpdateLink(ctx context.Context, linkID string, patch map[string]any) (map[string]any, error)
	LinkBase() string
}

// SmileGateway is the production ProviderGateway against Smile ID.
type SmileGateway struct {
	signer     *Signer
	httpClient *http.Client
	apiBase    string
	linkBase   string
}

// NewSmileGateway constructs the long-lived gateway instance. The production
// flag selects base URLs for both the API and the user-facing link host.
func NewSmileGateway(signer *Signer, production bool) *SmileGateway {
	apiBase, linkBase := sandboxAPIBase, sandboxLinkBase
	if production {
		apiBase, linkBase = productionAPIBase, productionLinkBase
	}
	return &SmileGateway{
		signer:     signer,
		httpClient: &http.Client{Timeout: providerTimeout},
		apiBase:    apiBase,
		linkBase:   linkBase,
	}
}

// LinkBase returns the user-facing redirect host for the selected environment.
func (g *SmileGateway) LinkBase() string {
	return g.linkBase
}

// CreateLink mints a verification link and returns the provider-assigned
// link id along with the decoded response body.
func (g *SmileGateway) CreateLink(ctx context.Context, body map[string]any) (string, map[string]any, error) {
	resp, err := g.do(ctx, http.MethodPost, g.apiBase, body)
	if err != nil {
		return "", nil, err
	}
	linkID := extractLinkID(resp)
	if linkID == "" {
		return "", resp, ProviderError{Status: http.StatusOK, Message: "provider response carried no link id"}
	}
	return linkID, resp, nil
}

// GetLink fetches the current state of a link.
func (g *SmileGateway) GetLink(ctx context.Context, linkID string) (map[string]any, error) {
	return g.do(ctx, http.MethodGet, g.apiBase+"/"+linkID, nil)
}

// UpdateLink mutates a live link.
func (g *SmileGateway) UpdateLink(ctx context.Context, linkID string, patch map[string]any) (map[string]any, error) {
	return g.do(ctx, http.MethodPut, g.apiBase+"/"+linkID, patch)
}

// do performs one signed request against the provider. Every outbound body
// embeds partner_id, a fresh timestamp and its matching signature.
func (g *SmileGateway) do(ctx context.Context, method, url string, body map[string]any) (map[string]any, error) {
	logger := zap.L()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	signature := g.signer.Sign(timestamp)

	var reader io.Reader
	if body != nil {
		body["partner_id"] = g.signer.PartnerID()
		body["timestamp"] = timestamp
		body["signature"] = signature

		raw, err := json.Marshal(body)
		if err != nil {
			return nil, TransportError{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// Bodyless requests carry the credentials in the query string instead.
	if body == nil {
		q := req.URL.Query()
		q.Set("partner_id", g.signer.PartnerID())
		q.Set("timestamp", timestamp)
		q.Set("signature", signature)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Warn("Provider request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, TransportError{Err: fmt.Errorf("failed to read provider response: %w", err)}
	}

	var decoded map[string]any
	if len(raw) > 0 {
		// Tolerate non-JSON bodies; the status code decides how to surface them.
		_ = json.Unmarshal(raw, &decoded)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := providerMessage(decoded)
		if msg == "" {
			msg = string(raw)
		}
		logger.Warn("Provider rejected request",
			zap.String("url", url), zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, ProviderError{Status: resp.StatusCode, Message: msg}
	}

	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}

// extractLinkID returns the first non-empty link id alias in the body.
func extractLinkID(body map[string]any) string {
	for _, key := range linkIDAliases {
		if v, ok := body[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// providerMessage pulls a human-readable message out of a provider error body.
func providerMessage(body map[string]any) string {
	for _, key := range []string{"error", "message", "detail"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
