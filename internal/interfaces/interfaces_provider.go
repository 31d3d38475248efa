package interfaces

import (
	"github.com/google/wire"

	"github.com/janhq/rooms-api/internal/infrastructure/ratelimit"
	"github.com/janhq/rooms-api/internal/interfaces/httpserver"
	"github.com/janhq/rooms-api/internal/interfaces/httpserver/middlewares"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	wire.Bind(new(middlewares.Admitter), new(*ratelimit.Limiter)),
	httpserver.New,
)
