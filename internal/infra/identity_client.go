package infra

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pos-service/internal/domain"

	"github.com/sirupsen/logrus"
)

// IdentityClient asks the external identity provider who a bearer token
// belongs to. The service never sees passwords.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        time.Minute,
	}
}

func (c *IdentityClient) SetCache(cache Cache, ttl time.Duration) {
	c.cache = cache
	c.ttl = ttl
}

// ResolveUser returns nil, nil when the provider does not recognise token.
func (c *IdentityClient) ResolveUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	key := cacheKey(token)

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key).Result(); err == nil {
			var u domain.User
			if err := json.Unmarshal([]byte(cached), &u); err == nil {
				return &u, nil
			}
		}
	}

	u, err := c.fetch(ctx, token)
	if err != nil || u == nil {
		return u, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(u); err == nil {
			if err := c.cache.Set(ctx, key, data, c.ttl).Err(); err != nil {
				logrus.WithError(err).Warn("identity cache write failed")
			}
		}
	}
	return u, nil
}

func (c *IdentityClient) fetch(ctx context.Context, token string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var u domain.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:])
}
