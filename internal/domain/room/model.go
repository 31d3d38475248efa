package room

import (
	"errors"
	"time"
)

// State is the lifecycle state of a room record.
type State string

const (
	// StateActive means the room is enabled upstream and accepting joins.
	StateActive State = "active"
	// StateDisabled is terminal for the record; only a new create-room re-enables it.
	StateDisabled State = "disabled"
)

// Role is the access-code role granted to a participant.
type Role string

const (
	RoleCreator Role = "creator"
	RoleViewer  Role = "viewer"
)

var (
	// ErrRoomNotFound is returned when no record exists for a room id.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomDisabled is returned when a disabled record would be touched.
	ErrRoomDisabled = errors.New("room is disabled")
)

// Session is the locally tracked metadata of one upstream room.
type Session struct {
	RoomID       string
	RoomName     string
	OwnerID      int64
	OwnerAddress string
	CreatedAt    time.Time
	LastActivity time.Time
	Disabled     bool
}

// State derives the lifecycle state from the record.
func (s *Session) State() State {
	if s.Disabled {
		return StateDisabled
	}
	return StateActive
}

// UpsertParams describes a create or discovery of a room.
type UpsertParams struct {
	RoomID       string
	RoomName     string
	OwnerID      int64
	OwnerAddress string
	CreatedAt    time.Time
	// Reactivate clears Disabled on an existing record.
	Reactivate bool
}

// PlatformRoom is a room as known to the upstream platform.
type PlatformRoom struct {
	ID        string
	Name      string
	Enabled   bool
	CreatedAt time.Time
}

// RoomView is a listed room decorated with local metadata when known.
type RoomView struct {
	RoomID       string
	RoomName     string
	OwnerID      int64
	Enabled      bool
	Tracked      bool
	OwnerAddress string
	CreatedAt    time.Time
	LastActivity time.Time
}

// CreateRoomInput is the create-room request.
type CreateRoomInput struct {
	OwnerID      int64
	OwnerAddress string
}

// CreateRoomResult is the outcome of a create-room call.
type CreateRoomResult struct {
	RoomID   string
	RoomName string
	Code     string
	Role     Role
	// Existing is true when the owner's room already existed upstream.
	Existing bool
}

// JoinRoomInput is the join-room request. Address is optional.
type JoinRoomInput struct {
	RoomID  string
	OwnerID int64
	Address string
}

// JoinRoomResult carries the access code minted for the joiner.
type JoinRoomResult struct {
	RoomID   string
	RoomName string
	Code     string
	Role     Role
}

// DisableRoomInput is the disable-room request.
type DisableRoomInput struct {
	RoomID  string
	OwnerID int64
	Address string
}

// DisableRoomResult reports the disabled room. AlreadyDisabled is set when
// the call found the room disabled and changed nothing.
type DisableRoomResult struct {
	RoomID          string
	Disabled        bool
	AlreadyDisabled bool
}
