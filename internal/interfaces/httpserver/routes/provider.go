package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/rooms-api/internal/interfaces/httpserver/handlers"
)

// Provider registers the API routes.
type Provider struct {
	handlers  *handlers.Provider
	rateLimit gin.HandlerFunc
}

// NewProvider creates a route provider. rateLimit may be nil.
func NewProvider(handlerProvider *handlers.Provider, rateLimit gin.HandlerFunc) *Provider {
	return &Provider{
		handlers:  handlerProvider,
		rateLimit: rateLimit,
	}
}

// Register registers all routes on the engine. The rate limit applies to
// room routes only.
func (p *Provider) Register(engine *gin.Engine) {
	group := engine.Group("/")
	if p.rateLimit != nil {
		group.Use(p.rateLimit)
	}
	RegisterRoomRoutes(group, p.handlers.Room)
}
