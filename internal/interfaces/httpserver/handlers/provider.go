package handlers

import "github.com/janhq/rooms-api/internal/domain/room"

// Provider holds all HTTP handlers.
type Provider struct {
	Room *RoomHandler
}

// NewProvider creates a new handler provider.
func NewProvider(roomService room.Service) *Provider {
	return &Provider{
		Room: NewRoomHandler(roomService),
	}
}
