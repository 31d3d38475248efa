package handlers

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
)

type disableOnlyService struct {
	room.Service
	disabled map[string]bool
}

func (s *disableOnlyService) DisableRoom(ctx context.Context, input room.DisableRoomInput) (*room.DisableRoomResult, error) {
	already := s.disabled[input.RoomID]
	s.disabled[input.RoomID] = true
	return &room.DisableRoomResult{RoomID: input.RoomID, Disabled: true, AlreadyDisabled: already}, nil
}

func TestRoomHandler_DisableCountsTransitionsOnly(t *testing.T) {
	handler := NewRoomHandler(&disableOnlyService{disabled: map[string]bool{}})
	counter := metrics.RoomsDisabled.WithLabelValues("owner")
	before := testutil.ToFloat64(counter)

	input := room.DisableRoomInput{RoomID: "r1", OwnerID: 42}
	for i := 0; i < 3; i++ {
		res, err := handler.DisableRoom(context.Background(), input)
		require.NoError(t, err)
		assert.True(t, res.Disabled)
	}

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
