package hms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/rooms-api/internal/domain/room"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	Body   map[string]any
}

type fakeUpstream struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
		Auth:   r.Header.Get("Authorization"),
	}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeUpstream) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeUpstream) {
	t.Helper()
	upstream := &fakeUpstream{handler: handler}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, staticTokens{token: "mgmt-token"}), upstream
}

func TestClient_CreateRoomSendsBearerToken(t *testing.T) {
	client, upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "r-1", "name": "room-42", "enabled": true})
	})

	created, err := client.CreateRoom(context.Background(), CreateRoomParams{
		Name:        "room-42",
		Description: "Room for alice",
		TemplateID:  "tmpl",
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", created.ID)
	assert.True(t, created.Enabled)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/rooms", reqs[0].Path)
	assert.Equal(t, "Bearer mgmt-token", reqs[0].Auth)
	assert.Equal(t, "room-42", reqs[0].Body["name"])
	assert.Equal(t, "tmpl", reqs[0].Body["template_id"])
}

func TestClient_ListRoomsFollowsCursor(t *testing.T) {
	client, upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("start") {
		case "":
			writeJSON(w, http.StatusOK, map[string]any{
				"data": []map[string]any{{"id": "a", "name": "room-1", "enabled": true}},
				"last": "cursor-1",
			})
		case "cursor-1":
			writeJSON(w, http.StatusOK, map[string]any{
				"data": []map[string]any{{"id": "b", "name": "room-2", "enabled": true}},
				"last": "cursor-2",
			})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
		}
	})

	enabled := true
	rooms, err := client.ListRooms(context.Background(), ListRoomsParams{TemplateID: "tmpl", Enabled: &enabled})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "a", rooms[0].ID)
	assert.Equal(t, "b", rooms[1].ID)

	reqs := upstream.Requests()
	require.Len(t, reqs, 3)
	for _, req := range reqs {
		assert.Equal(t, "tmpl", req.Query["template_id"])
		assert.Equal(t, "true", req.Query["enabled"])
	}
	assert.Equal(t, "cursor-2", reqs[2].Query["start"])
}

func TestClient_ListRoomsFailsPastPageLimit(t *testing.T) {
	var pages atomic.Int32
	client, upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := pages.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"id": fmt.Sprintf("r%d", page), "name": "room-1", "enabled": true}},
			"last": fmt.Sprintf("cursor-%d", page),
		})
	})
	client.maxPages = 3

	rooms, err := client.ListRooms(context.Background(), ListRoomsParams{TemplateID: "tmpl"})
	require.ErrorIs(t, err, ErrPageLimit)
	assert.Nil(t, rooms)
	assert.Len(t, upstream.Requests(), 3)
}

func TestClient_FindRoomByNameRequiresExactMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"id": "x", "name": "room-420", "enabled": true}},
		})
	})

	found, err := client.FindRoomByName(context.Background(), "room-42")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = client.FindRoomByName(context.Background(), "room-420")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "x", found.ID)
}

func TestClient_MapsErrorResponses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"code": 403, "message": "template not allowed"})
	})

	_, err := client.SetRoomEnabled(context.Background(), "r-1", false)
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "set_room_enabled", upstreamErr.Operation)
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode)
	assert.Equal(t, "template not allowed", upstreamErr.Message)
}

func TestClient_MapsPlainTextErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.CreateRoomCode(context.Background(), "r-1", "viewer")
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
	assert.Equal(t, "bad gateway", upstreamErr.Message)
}

func TestClient_CreateRoomCodePath(t *testing.T) {
	client, upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": "abc-defg-hij", "room_id": "r-1", "role": "creator", "enabled": true})
	})

	code, err := client.CreateRoomCode(context.Background(), "r-1", "creator")
	require.NoError(t, err)
	assert.Equal(t, "abc-defg-hij", code.Code)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/room-codes/room/r-1/role/creator", reqs[0].Path)
}

func TestClient_TokenFailureSkipsRequest(t *testing.T) {
	upstream := &fakeUpstream{handler: func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}}
	server := httptest.NewServer(upstream)
	defer server.Close()

	tokenErr := errors.New("no token")
	client := NewClient(server.URL, time.Second, staticTokens{err: tokenErr})

	_, err := client.CreateRoom(context.Background(), CreateRoomParams{Name: "room-1"})
	assert.ErrorIs(t, err, tokenErr)
	assert.Empty(t, upstream.Requests())
}

func TestClient_RequestTimeout(t *testing.T) {
	upstream := &fakeUpstream{handler: func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{})
	}}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond, staticTokens{token: "t"})
	_, err := client.SetRoomEnabled(context.Background(), "r-1", false)
	require.Error(t, err)

	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr), "transport failures are not upstream answers")
}

func TestPlatform_ListEnabledRoomsDropsDisabled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "a", "name": "room-1", "enabled": true},
				{"id": "b", "name": "room-2", "enabled": false},
			},
		})
	})

	rooms, err := NewPlatform(client).ListEnabledRooms(context.Background(), "tmpl")
	require.NoError(t, err)
	assert.Equal(t, []room.PlatformRoom{{ID: "a", Name: "room-1", Enabled: true}}, rooms)
}
