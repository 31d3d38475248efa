// Package roomres contains HTTP response DTOs for room endpoints.
package roomres

import (
	"time"

	domainroom "github.com/janhq/rooms-api/internal/domain/room"
)

// RoomResponse is one listed room.
type RoomResponse struct {
	RoomID       string     `json:"roomId"`
	RoomName     string     `json:"roomName"`
	FID          int64      `json:"fid"`
	Enabled      bool       `json:"enabled"`
	Address      string     `json:"address,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// ListRoomsResponse is the body of GET /rooms.
type ListRoomsResponse struct {
	Rooms []*RoomResponse `json:"rooms"`
}

// CreateRoomResponse is the body of POST /create-room.
type CreateRoomResponse struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Code     string `json:"code"`
	Role     string `json:"role"`
	Existing bool   `json:"existing"`
}

// JoinRoomResponse is the body of POST /join-room.
type JoinRoomResponse struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Code     string `json:"code"`
	Role     string `json:"role"`
}

// DisableRoomResponse is the body of POST /disable-room.
type DisableRoomResponse struct {
	RoomID   string `json:"roomId"`
	Disabled bool   `json:"disabled"`
}

// NewListRoomsResponse converts room views.
func NewListRoomsResponse(views []*domainroom.RoomView) *ListRoomsResponse {
	rooms := make([]*RoomResponse, 0, len(views))
	for _, v := range views {
		resp := &RoomResponse{
			RoomID:   v.RoomID,
			RoomName: v.RoomName,
			FID:      v.OwnerID,
			Enabled:  v.Enabled,
			Address:  v.OwnerAddress,
		}
		if !v.CreatedAt.IsZero() {
			createdAt := v.CreatedAt
			resp.CreatedAt = &createdAt
		}
		if v.Tracked && !v.LastActivity.IsZero() {
			lastActivity := v.LastActivity
			resp.LastActivity = &lastActivity
		}
		rooms = append(rooms, resp)
	}
	return &ListRoomsResponse{Rooms: rooms}
}

// NewCreateRoomResponse converts a create result.
func NewCreateRoomResponse(res *domainroom.CreateRoomResult) *CreateRoomResponse {
	return &CreateRoomResponse{
		RoomID:   res.RoomID,
		RoomName: res.RoomName,
		Code:     res.Code,
		Role:     string(res.Role),
		Existing: res.Existing,
	}
}

// NewJoinRoomResponse converts a join result.
func NewJoinRoomResponse(res *domainroom.JoinRoomResult) *JoinRoomResponse {
	return &JoinRoomResponse{
		RoomID:   res.RoomID,
		RoomName: res.RoomName,
		Code:     res.Code,
		Role:     string(res.Role),
	}
}

// NewDisableRoomResponse converts a disable result.
func NewDisableRoomResponse(res *domainroom.DisableRoomResult) *DisableRoomResponse {
	return &DisableRoomResponse{
		RoomID:   res.RoomID,
		Disabled: res.Disabled,
	}
}
