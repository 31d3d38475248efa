// Package room contains HTTP request DTOs for room endpoints.
package room

// CreateRoomRequest is the body of POST /create-room.
type CreateRoomRequest struct {
	Address string `json:"address" example:"0xABCDEF0123456789ABCDEF0123456789ABCDEF01"`
	FID     int64  `json:"fid" example:"42"`
}

// JoinRoomRequest is the body of POST /join-room. Address is optional and
// only used to confirm the owner.
type JoinRoomRequest struct {
	RoomID  string `json:"roomId" example:"6650a1b2c3d4e5f6a7b8c9d0"`
	FID     int64  `json:"fid" example:"7"`
	Address string `json:"address,omitempty"`
}

// DisableRoomRequest is the body of POST /disable-room.
type DisableRoomRequest struct {
	RoomID  string `json:"roomId" example:"6650a1b2c3d4e5f6a7b8c9d0"`
	Address string `json:"address" example:"0xABCDEF0123456789ABCDEF0123456789ABCDEF01"`
	FID     int64  `json:"fid" example:"42"`
}
