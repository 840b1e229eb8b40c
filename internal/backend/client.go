package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wedhub/internal/metrics"
	"wedhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Client is the typed HTTP client for the wedding-platform REST API.
// Every response uses the {success, data, message} envelope; every call is
// authorized by an explicit session passed by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// envelope is the uniform response wrapper of the backend.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewClient constructs a client with the backend base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// UseRedisCache configures optional Redis read-through caching for
// read-mostly GET endpoints (service catalog, vendor profiles).
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) dropCache(ctx context.Context, keys ...string) {
	if c.redis == nil || len(keys) == 0 {
		return
	}
	_ = c.redis.Del(ctx, keys...).Err()
}

func (c *Client) doGet(ctx context.Context, session *models.Session, endpoint, path string, out any) error {
	return c.doJSON(ctx, session, http.MethodGet, endpoint, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, session *models.Session, method, endpoint, path string, body, out any) error {
	if !session.Valid() {
		return ErrNoSession
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrInvalidResponse, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveBackend(endpoint, "transport_error", elapsed)
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("backend request failed")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveBackend(endpoint, "not_found", elapsed)
		return ErrNotFound
	}
	if resp.StatusCode >= 500 {
		metrics.ObserveBackend(endpoint, "server_error", elapsed)
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// A non-2xx with an undecodable body is still a rejection, not a
		// protocol violation; plenty of stacks emit plain-text error pages.
		if resp.StatusCode >= 300 {
			metrics.ObserveBackend(endpoint, "rejected", elapsed)
			return fmt.Errorf("%w: http %d", ErrRejected, resp.StatusCode)
		}
		metrics.ObserveBackend(endpoint, "decode_error", elapsed)
		return fmt.Errorf("%w: decode envelope: %v", ErrInvalidResponse, err)
	}

	// Non-2xx or success=false are both domain rejections; the server
	// message, when present, is surfaced to the user.
	if resp.StatusCode >= 300 || !env.Success {
		metrics.ObserveBackend(endpoint, "rejected", elapsed)
		if env.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, env.Message)
		}
		return fmt.Errorf("%w: http %d", ErrRejected, resp.StatusCode)
	}

	metrics.ObserveBackend(endpoint, "ok", elapsed)
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrInvalidResponse, err)
	}
	return nil
}
