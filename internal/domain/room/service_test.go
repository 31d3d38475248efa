package room_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/store"
	"github.com/janhq/rooms-api/internal/utils/platformerrors"
)

const (
	ownerAddress = "0xABCDEF0123456789ABCDEF0123456789ABCDEF01"
	otherAddress = "0x0000000000000000000000000000000000000001"
)

// fakePlatform is an in-memory stand-in for the upstream room API.
type fakePlatform struct {
	mu        sync.Mutex
	rooms     map[string]*room.PlatformRoom
	codes     []string
	creates   int
	failCodes bool
	failSet   bool
	nextID    int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{rooms: map[string]*room.PlatformRoom{}}
}

func (p *fakePlatform) ListEnabledRooms(ctx context.Context, templateID string) ([]room.PlatformRoom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []room.PlatformRoom
	for _, r := range p.rooms {
		if r.Enabled {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (p *fakePlatform) FindRoom(ctx context.Context, name string) (*room.PlatformRoom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.rooms {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (p *fakePlatform) CreateRoom(ctx context.Context, name, description, templateID string) (*room.PlatformRoom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates++
	p.nextID++
	r := &room.PlatformRoom{
		ID:        fmt.Sprintf("hms-%d", p.nextID),
		Name:      name,
		Enabled:   true,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	p.rooms[r.ID] = r
	cp := *r
	return &cp, nil
}

func (p *fakePlatform) SetRoomEnabled(ctx context.Context, roomID string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSet {
		return errors.New("upstream unavailable")
	}
	r, ok := p.rooms[roomID]
	if !ok {
		return errors.New("room not found upstream")
	}
	r.Enabled = enabled
	return nil
}

func (p *fakePlatform) CreateRoomCode(ctx context.Context, roomID string, role room.Role) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failCodes {
		return "", errors.New("code service down")
	}
	code := fmt.Sprintf("%s-%s-%d", roomID, role, len(p.codes)+1)
	p.codes = append(p.codes, code)
	return code, nil
}

func (p *fakePlatform) enabled(roomID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.rooms[roomID]
	return ok && r.Enabled
}

type staticNames map[int64]string

func (n staticNames) DisplayName(ctx context.Context, ownerID int64) string {
	return n[ownerID]
}

func newTestService(platform *fakePlatform) (room.Service, *store.MemoryStore) {
	st := store.NewMemoryStore(zerolog.Nop())
	svc := room.NewService(st, platform, staticNames{42: "alice"}, room.ServiceConfig{
		Prefix:     "room",
		TemplateID: "tmpl",
	}, zerolog.Nop())
	return svc, st
}

func requireErrorType(t *testing.T, err error, errorType platformerrors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, errorType), "expected %s, got %v", errorType, err)
}

func TestCreateRoom_ValidatesInput(t *testing.T) {
	svc, _ := newTestService(newFakePlatform())
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 0, OwnerAddress: ownerAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeValidation)

	for _, addr := range []string{"", "0x123", "ABCDEF0123456789ABCDEF0123456789ABCDEF0123", "0xZZCDEF0123456789ABCDEF0123456789ABCDEF01"} {
		_, err = svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: addr})
		requireErrorType(t, err, platformerrors.ErrorTypeValidation)
	}
}

func TestCreateRoom_TwiceReusesRoom(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)
	ctx := context.Background()

	first, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	assert.False(t, first.Existing)
	assert.Equal(t, "room-42", first.RoomName)
	assert.Equal(t, room.RoleCreator, first.Role)
	assert.NotEmpty(t, first.Code)

	second, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	assert.True(t, second.Existing)
	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, 1, platform.creates)
}

func TestCreateRoom_ReenablesDisabledRoom(t *testing.T) {
	platform := newFakePlatform()
	svc, st := newTestService(platform)
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)

	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress})
	require.NoError(t, err)
	assert.False(t, platform.enabled(created.RoomID))

	again, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	assert.True(t, again.Existing)
	assert.Equal(t, created.RoomID, again.RoomID)
	assert.Equal(t, 1, platform.creates, "re-enable never duplicates")
	assert.True(t, platform.enabled(created.RoomID))

	sess, err := st.Get(ctx, created.RoomID)
	require.NoError(t, err)
	assert.False(t, sess.Disabled)
}

func TestCreateRoom_NotReportedWithoutCode(t *testing.T) {
	platform := newFakePlatform()
	platform.failCodes = true
	svc, st := newTestService(platform)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeExternal)

	all, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRoom_FillsAddressOfReconciledRoom(t *testing.T) {
	platform := newFakePlatform()
	svc, st := newTestService(platform)
	ctx := context.Background()

	existing, _ := platform.CreateRoom(ctx, "room-42", "", "tmpl")
	require.NoError(t, st.Replace(ctx, []*room.Session{{RoomID: existing.ID, RoomName: "room-42", OwnerID: 42, LastActivity: time.Now()}}))

	_, err := svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: existing.ID, OwnerID: 42, Address: ownerAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeForbidden)

	_, err = svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)

	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: existing.ID, OwnerID: 42, Address: ownerAddress})
	require.NoError(t, err)
}

func TestJoinRoom_Errors(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)
	ctx := context.Background()

	_, err := svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: "", OwnerID: 1})
	requireErrorType(t, err, platformerrors.ErrorTypeValidation)

	_, err = svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: "x", OwnerID: 1, Address: "nope"})
	requireErrorType(t, err, platformerrors.ErrorTypeValidation)

	_, err = svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: "missing", OwnerID: 1})
	requireErrorType(t, err, platformerrors.ErrorTypeNotFound)

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress})
	require.NoError(t, err)

	_, err = svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: created.RoomID, OwnerID: 7})
	requireErrorType(t, err, platformerrors.ErrorTypeConflict)
}

func TestJoinRoom_OwnerWithoutAddressIsCreator(t *testing.T) {
	svc, _ := newTestService(newFakePlatform())
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)

	joined, err := svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: created.RoomID, OwnerID: 42})
	require.NoError(t, err)
	assert.Equal(t, room.RoleCreator, joined.Role)

	joined, err = svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: otherAddress})
	require.NoError(t, err)
	assert.Equal(t, room.RoleViewer, joined.Role, "a mismatched address downgrades the owner")
}

func TestDisableRoom_UpstreamFailureLeavesRoomActive(t *testing.T) {
	platform := newFakePlatform()
	svc, st := newTestService(platform)
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)

	platform.failSet = true
	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeExternal)

	sess, err := st.Get(ctx, created.RoomID)
	require.NoError(t, err)
	assert.False(t, sess.Disabled)
}

func TestDisableRoom_IdempotentForOwner(t *testing.T) {
	svc, _ := newTestService(newFakePlatform())
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)

	input := room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress}
	first, err := svc.DisableRoom(ctx, input)
	require.NoError(t, err)
	assert.False(t, first.AlreadyDisabled)
	res, err := svc.DisableRoom(ctx, input)
	require.NoError(t, err)
	assert.True(t, res.Disabled)
	assert.True(t, res.AlreadyDisabled)
}

func TestListRooms_DecoratesKnownRooms(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	_, _ = platform.CreateRoom(ctx, "room-7", "", "tmpl")
	_, _ = platform.CreateRoom(ctx, "lobby", "", "tmpl")

	views, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]*room.RoomView{}
	for _, v := range views {
		byID[v.RoomID] = v
	}
	mine := byID[created.RoomID]
	require.NotNil(t, mine)
	assert.True(t, mine.Tracked)
	assert.Equal(t, int64(42), mine.OwnerID)
	assert.Equal(t, ownerAddress, mine.OwnerAddress)
	assert.False(t, mine.LastActivity.IsZero())
}

// Owner 42 creates, joins as creator, 7 joins as viewer and cannot disable,
// 42 disables and later sweeps leave the room alone.
func TestRoomLifecycle_OwnerAndViewer(t *testing.T) {
	platform := newFakePlatform()
	svc, st := newTestService(platform)
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, room.CreateRoomInput{OwnerID: 42, OwnerAddress: ownerAddress})
	require.NoError(t, err)
	assert.Equal(t, "room-42", created.RoomName)

	joined, err := svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress})
	require.NoError(t, err)
	assert.Equal(t, room.RoleCreator, joined.Role)

	joined, err = svc.JoinRoom(ctx, room.JoinRoomInput{
		RoomID:  created.RoomID,
		OwnerID: 42,
		Address: "0xabcdef0123456789abcdef0123456789abcdef01",
	})
	require.NoError(t, err)
	assert.Equal(t, room.RoleCreator, joined.Role, "address comparison ignores case")

	joined, err = svc.JoinRoom(ctx, room.JoinRoomInput{RoomID: created.RoomID, OwnerID: 7})
	require.NoError(t, err)
	assert.Equal(t, room.RoleViewer, joined.Role)

	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 7, Address: ownerAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeForbidden)
	_, err = svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: otherAddress})
	requireErrorType(t, err, platformerrors.ErrorTypeForbidden)

	sess, err := st.Get(ctx, created.RoomID)
	require.NoError(t, err)
	assert.False(t, sess.Disabled, "rejected disables leave state unchanged")
	assert.True(t, platform.enabled(created.RoomID))

	res, err := svc.DisableRoom(ctx, room.DisableRoomInput{RoomID: created.RoomID, OwnerID: 42, Address: ownerAddress})
	require.NoError(t, err)
	assert.True(t, res.Disabled)
	assert.False(t, platform.enabled(created.RoomID))

	sweeper := store.NewSweeper(st, platform, store.SweeperOptions{Prefix: "room", IdleTimeout: time.Minute}, nil, zerolog.Nop())
	result := sweeper.Sweep(ctx, time.Now().Add(time.Hour))
	assert.Zero(t, result.Checked)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "room-42", room.Name("room", 42))

	id, ok := room.ParseOwnerID("room", "room-42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, name := range []string{"room-", "room-4a", "room42", "lobby-42", "room-42-x", "room-0", "room--1"} {
		_, ok := room.ParseOwnerID("room", name)
		assert.False(t, ok, name)
	}
}

func TestAddressMatching(t *testing.T) {
	assert.True(t, room.ValidAddress(ownerAddress))
	assert.False(t, room.ValidAddress("0x123"))
	assert.False(t, room.ValidAddress("ABCDEF0123456789ABCDEF0123456789ABCDEF0123"))

	assert.True(t, room.SameAddress(ownerAddress, "0xabcdef0123456789abcdef0123456789abcdef01"))
	assert.False(t, room.SameAddress("", ""))
	assert.False(t, room.SameAddress(ownerAddress, otherAddress))
}
