package identity

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/domain/room"
)

// DefaultCacheTTL is how long a resolved name is reused.
const DefaultCacheTTL = 10 * time.Minute

type bulkUsersResponse struct {
	Users []struct {
		FID         int64  `json:"fid"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	} `json:"users"`
}

type cachedName struct {
	name      string
	expiresAt time.Time
}

// Client resolves owner ids to display names. Every failure degrades to "".
type Client struct {
	http   *resty.Client
	apiKey string
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[int64]cachedName
}

var _ room.NameResolver = (*Client)(nil)

// NewClient creates an identity client. An empty apiKey disables lookups.
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		http:   client,
		apiKey: strings.TrimSpace(apiKey),
		ttl:    DefaultCacheTTL,
		now:    time.Now,
		log:    log.With().Str("component", "identity-client").Logger(),
		cache:  make(map[int64]cachedName),
	}
}

// DisplayName returns the display name (or username) for ownerID.
func (c *Client) DisplayName(ctx context.Context, ownerID int64) string {
	if c.apiKey == "" || ownerID <= 0 {
		return ""
	}
	if name, ok := c.cached(ownerID); ok {
		return name
	}

	var result bulkUsersResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetQueryParam("fids", strconv.FormatInt(ownerID, 10)).
		SetResult(&result).
		Get("/farcaster/user/bulk")
	if err != nil {
		c.log.Debug().Err(err).Int64("fid", ownerID).Msg("identity lookup failed")
		return ""
	}
	if resp.IsError() {
		c.log.Debug().Int("status", resp.StatusCode()).Int64("fid", ownerID).Msg("identity lookup rejected")
		return ""
	}

	name := ""
	for _, user := range result.Users {
		if user.FID != ownerID {
			continue
		}
		name = strings.TrimSpace(user.DisplayName)
		if name == "" {
			name = strings.TrimSpace(user.Username)
		}
		break
	}

	if name != "" {
		c.mu.Lock()
		c.cache[ownerID] = cachedName{name: name, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return name
}

func (c *Client) cached(ownerID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[ownerID]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.cache, ownerID)
		return "", false
	}
	return entry.name, true
}
