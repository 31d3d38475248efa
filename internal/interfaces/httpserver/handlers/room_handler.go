package handlers

import (
	"context"

	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
)

// RoomHandler handles room-related HTTP requests.
type RoomHandler struct {
	service room.Service
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(service room.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

// ListRooms lists the enabled rooms that follow the naming convention.
func (h *RoomHandler) ListRooms(ctx context.Context) ([]*room.RoomView, error) {
	return h.service.ListRooms(ctx)
}

// CreateRoom creates or reuses the caller's room.
func (h *RoomHandler) CreateRoom(ctx context.Context, input room.CreateRoomInput) (*room.CreateRoomResult, error) {
	res, err := h.service.CreateRoom(ctx, input)
	if err != nil {
		return nil, err
	}
	outcome := "created"
	if res.Existing {
		outcome = "existing"
	}
	metrics.RoomsCreated.WithLabelValues(outcome).Inc()
	metrics.RoomCodesIssued.WithLabelValues(string(res.Role)).Inc()
	return res, nil
}

// JoinRoom mints an access code for the caller.
func (h *RoomHandler) JoinRoom(ctx context.Context, input room.JoinRoomInput) (*room.JoinRoomResult, error) {
	res, err := h.service.JoinRoom(ctx, input)
	if err != nil {
		return nil, err
	}
	metrics.RoomCodesIssued.WithLabelValues(string(res.Role)).Inc()
	return res, nil
}

// DisableRoom disables the caller's room.
func (h *RoomHandler) DisableRoom(ctx context.Context, input room.DisableRoomInput) (*room.DisableRoomResult, error) {
	res, err := h.service.DisableRoom(ctx, input)
	if err != nil {
		return nil, err
	}
	if !res.AlreadyDisabled {
		metrics.RecordRoomDisabled("owner")
	}
	return res, nil
}
