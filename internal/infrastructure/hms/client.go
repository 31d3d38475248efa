package hms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
)

// DefaultBaseURL is the 100ms REST API root.
const DefaultBaseURL = "https://api.100ms.live/v2"

// defaultMaxPages bounds cursor pagination against an upstream that never
// ends a listing.
const defaultMaxPages = 500

// ErrPageLimit is returned when a listing does not end within the page limit.
// A truncated listing is never returned as complete.
var ErrPageLimit = errors.New("hms: listing exceeded page limit")

// TokenSource supplies the management bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// UpstreamError is a non-2xx answer from the platform API.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hms %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("hms %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Room is a room as returned by the platform.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description,omitempty"`
	TemplateID  string    `json:"template_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomCode is a short access code bound to a room and role.
type RoomCode struct {
	Code      string    `json:"code"`
	RoomID    string    `json:"room_id"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRoomsParams filters a room listing. Empty fields are not sent.
type ListRoomsParams struct {
	TemplateID string
	Enabled    *bool
	Name       string
}

// CreateRoomParams is the body of a room creation.
type CreateRoomParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TemplateID  string `json:"template_id,omitempty"`
}

type listRoomsResponse struct {
	Limit int    `json:"limit"`
	Data  []Room `json:"data"`
	Last  string `json:"last"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client talks to the 100ms management API.
type Client struct {
	http     *resty.Client
	tokens   TokenSource
	maxPages int
}

// NewClient creates a platform client. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "rooms-api/1.0")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{http: client, tokens: tokens, maxPages: defaultMaxPages}
}

// ListRooms returns every room matching params, following the pagination cursor.
func (c *Client) ListRooms(ctx context.Context, params ListRoomsParams) ([]Room, error) {
	var (
		rooms []Room
		start string
	)
	for page := 0; page < c.maxPages; page++ {
		req, err := c.request(ctx)
		if err != nil {
			return nil, err
		}
		if params.TemplateID != "" {
			req.SetQueryParam("template_id", params.TemplateID)
		}
		if params.Enabled != nil {
			req.SetQueryParam("enabled", strconv.FormatBool(*params.Enabled))
		}
		if params.Name != "" {
			req.SetQueryParam("name", params.Name)
		}
		if start != "" {
			req.SetQueryParam("start", start)
		}

		var result listRoomsResponse
		req.SetResult(&result)
		if err := c.do(req, http.MethodGet, "/rooms", "list_rooms"); err != nil {
			return nil, err
		}

		rooms = append(rooms, result.Data...)
		if len(result.Data) == 0 || result.Last == "" || result.Last == start {
			return rooms, nil
		}
		start = result.Last
	}
	return nil, fmt.Errorf("%w: %d rooms over %d pages", ErrPageLimit, len(rooms), c.maxPages)
}

// FindRoomByName returns the room with exactly this name, or nil when none exists.
func (c *Client) FindRoomByName(ctx context.Context, name string) (*Room, error) {
	rooms, err := c.ListRooms(ctx, ListRoomsParams{Name: name})
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].Name == name {
			return &rooms[i], nil
		}
	}
	return nil, nil
}

// CreateRoom creates a room from a template.
func (c *Client) CreateRoom(ctx context.Context, params CreateRoomParams) (*Room, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result Room
	req.SetBody(params).SetResult(&result)
	if err := c.do(req, http.MethodPost, "/rooms", "create_room"); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetRoomEnabled enables or disables a room.
func (c *Client) SetRoomEnabled(ctx context.Context, roomID string, enabled bool) (*Room, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result Room
	req.SetPathParam("roomID", roomID).
		SetBody(map[string]bool{"enabled": enabled}).
		SetResult(&result)
	if err := c.do(req, http.MethodPost, "/rooms/{roomID}", "set_room_enabled"); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRoomCode mints an access code for role in the room.
func (c *Client) CreateRoomCode(ctx context.Context, roomID, role string) (*RoomCode, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result RoomCode
	req.SetPathParams(map[string]string{"roomID": roomID, "role": role}).
		SetResult(&result)
	if err := c.do(req, http.MethodPost, "/room-codes/room/{roomID}/role/{role}", "create_room_code"); err != nil {
		return nil, err
	}
	if result.Code == "" {
		return nil, &UpstreamError{Operation: "create_room_code", StatusCode: http.StatusOK, Message: "response carried no code"}
	}
	return &result, nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("hms: management token: %w", err)
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&errorResponse{}), nil
}

func (c *Client) do(req *resty.Request, method, path, operation string) error {
	started := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.RecordUpstreamCall(operation, 0, started)
		return fmt.Errorf("hms %s: request failed: %w", operation, err)
	}
	metrics.RecordUpstreamCall(operation, resp.StatusCode(), started)

	if resp.IsError() {
		upstreamErr := &UpstreamError{Operation: operation, StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorResponse); ok && body.Message != "" {
			upstreamErr.Message = body.Message
		} else {
			upstreamErr.Message = strings.TrimSpace(resp.String())
		}
		return upstreamErr
	}
	return nil
}
