package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cardhaus/deck-checker/internal/metrics"
)

// tokenSafetyMargin is subtracted from the reported token lifetime so a
// token is never handed to an in-flight request moments before expiry.
const tokenSafetyMargin = 5 * time.Minute

// TokenCache exchanges Shopify client credentials for an Admin API
// bearer token and caches it until shortly before expiry. The refresh is
// mutex-guarded, so concurrent callers during expiry trigger one
// exchange, not several.
type TokenCache struct {
	client       *http.Client
	domain       string
	clientID     string
	clientSecret string
	tokenURL     string // overridden in tests

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewTokenCache(domain, clientID, clientSecret string) *TokenCache {
	return &TokenCache{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		domain:       domain,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetAccessToken returns the cached token, refreshing it first when it
// is missing or within the safety margin of expiry.
func (t *TokenCache) GetAccessToken(ctx context.Context) (string, error) {
	var missing []string
	if t.domain == "" {
		missing = append(missing, "SHOPIFY_DOMAIN")
	}
	if t.clientID == "" {
		missing = append(missing, "SHOPIFY_CLIENT_ID")
	}
	if t.clientSecret == "" {
		missing = append(missing, "SHOPIFY_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return "", &ConfigurationError{Missing: missing}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Now().Before(t.expiry.Add(-tokenSafetyMargin)) {
		return t.token, nil
	}

	return t.refresh(ctx)
}

// refresh performs the client-credentials exchange. Caller holds t.mu.
func (t *TokenCache) refresh(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     t.clientID,
		"client_secret": t.clientSecret,
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamAuthError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", &UpstreamAuthError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	t.token = tr.AccessToken
	t.expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	metrics.TokenRefreshesTotal.Inc()
	return t.token, nil
}

func (t *TokenCache) endpoint() string {
	if t.tokenURL != "" {
		return t.tokenURL
	}
	return fmt.Sprintf("https://%s/admin/oauth/access_token", normalizeShopDomain(t.domain))
}

// normalizeShopDomain accepts either the bare shop name or the full
// myshopify host.
func normalizeShopDomain(domain string) string {
	if strings.Contains(domain, ".") {
		return domain
	}
	return domain + ".myshopify.com"
}
