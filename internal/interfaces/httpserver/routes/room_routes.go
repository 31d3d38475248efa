package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainroom "github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/interfaces/httpserver/handlers"
	roomreq "github.com/janhq/rooms-api/internal/interfaces/httpserver/requests/room"
	"github.com/janhq/rooms-api/internal/interfaces/httpserver/responses"
	roomres "github.com/janhq/rooms-api/internal/interfaces/httpserver/responses/room"
	"github.com/janhq/rooms-api/internal/utils/platformerrors"
)

// RegisterRoomRoutes registers the room endpoints.
func RegisterRoomRoutes(router gin.IRoutes, handler *handlers.RoomHandler) {
	router.GET("/rooms", listRooms(handler))
	router.POST("/create-room", createRoom(handler))
	router.POST("/join-room", joinRoom(handler))
	router.POST("/disable-room", disableRoom(handler))
}

// listRooms godoc
// @Summary      List rooms
// @Description  Lists enabled rooms of the configured template, decorated with locally known owner data.
// @Tags         Rooms
// @Produce      json
// @Success      200 {object} roomres.ListRoomsResponse
// @Failure      429 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /rooms [get]
func listRooms(handler *handlers.RoomHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := handler.ListRooms(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, roomres.NewListRoomsResponse(views))
	}
}

// createRoom godoc
// @Summary      Create a room
// @Description  Creates the caller's room, or reuses and re-enables it, and returns a creator access code.
// @Tags         Rooms
// @Accept       json
// @Produce      json
// @Param        request body roomreq.CreateRoomRequest true "Owner identity"
// @Success      200 {object} roomres.CreateRoomResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      429 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /create-room [post]
func createRoom(handler *handlers.RoomHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roomreq.CreateRoomRequest
		if !bindJSON(c, &req) {
			return
		}

		res, err := handler.CreateRoom(c.Request.Context(), domainroom.CreateRoomInput{
			OwnerID:      req.FID,
			OwnerAddress: req.Address,
		})
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, roomres.NewCreateRoomResponse(res))
	}
}

// joinRoom godoc
// @Summary      Join a room
// @Description  Returns an access code; creator when fid and address match the owner, viewer otherwise.
// @Tags         Rooms
// @Accept       json
// @Produce      json
// @Param        request body roomreq.JoinRoomRequest true "Room and caller identity"
// @Success      200 {object} roomres.JoinRoomResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Failure      429 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /join-room [post]
func joinRoom(handler *handlers.RoomHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roomreq.JoinRoomRequest
		if !bindJSON(c, &req) {
			return
		}

		res, err := handler.JoinRoom(c.Request.Context(), domainroom.JoinRoomInput{
			RoomID:  req.RoomID,
			OwnerID: req.FID,
			Address: req.Address,
		})
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, roomres.NewJoinRoomResponse(res))
	}
}

// disableRoom godoc
// @Summary      Disable a room
// @Description  Disables the room upstream. Only the owner (fid and address) may disable it.
// @Tags         Rooms
// @Accept       json
// @Produce      json
// @Param        request body roomreq.DisableRoomRequest true "Room and owner identity"
// @Success      200 {object} roomres.DisableRoomResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      429 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /disable-room [post]
func disableRoom(handler *handlers.RoomHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roomreq.DisableRoomRequest
		if !bindJSON(c, &req) {
			return
		}

		res, err := handler.DisableRoom(c.Request.Context(), domainroom.DisableRoomInput{
			RoomID:  req.RoomID,
			OwnerID: req.FID,
			Address: req.Address,
		})
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, roomres.NewDisableRoomResponse(res))
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
		return false
	}
	return true
}
