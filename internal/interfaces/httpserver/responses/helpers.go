package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/janhq/rooms-api/internal/utils/platformerrors"
)

// ErrorResponse documents the error body.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError writes err as {error: message}, with the status derived from
// the platform error type. Untyped errors become 500.
func HandleError(c *gin.Context, err error) {
	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString("request_id")).
		Logger()

	platformerrors.WriteError(c, err, logger)
}

// HandleNewError writes a route-level error such as a malformed body.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	c.JSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{Error: message})
}
