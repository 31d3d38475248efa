package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/config"
	"github.com/janhq/rooms-api/internal/domain/room"
)

// ProvideRoomService provides a room service.
func ProvideRoomService(
	store room.Store,
	platform room.Platform,
	names room.NameResolver,
	cfg *config.Config,
	log zerolog.Logger,
) room.Service {
	return room.NewService(store, platform, names, room.ServiceConfig{
		Prefix:     cfg.RoomNamePrefix,
		TemplateID: cfg.HMSTemplateID,
	}, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideRoomService,
)
