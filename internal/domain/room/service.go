package room

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/utils/platformerrors"
)

// Service defines the business operations for room management.
type Service interface {
	ListRooms(ctx context.Context) ([]*RoomView, error)
	CreateRoom(ctx context.Context, input CreateRoomInput) (*CreateRoomResult, error)
	JoinRoom(ctx context.Context, input JoinRoomInput) (*JoinRoomResult, error)
	DisableRoom(ctx context.Context, input DisableRoomInput) (*DisableRoomResult, error)
}

// ServiceConfig carries the naming and template settings.
type ServiceConfig struct {
	Prefix     string
	TemplateID string
}

type service struct {
	store    Store
	platform Platform
	names    NameResolver
	cfg      ServiceConfig
	log      zerolog.Logger
}

// NewService creates a new room service. names may be nil.
func NewService(store Store, platform Platform, names NameResolver, cfg ServiceConfig, log zerolog.Logger) Service {
	return &service{
		store:    store,
		platform: platform,
		names:    names,
		cfg:      cfg,
		log:      log.With().Str("component", "room-service").Logger(),
	}
}

func (s *service) ListRooms(ctx context.Context) ([]*RoomView, error) {
	rooms, err := s.platform.ListEnabledRooms(ctx, s.cfg.TemplateID)
	if err != nil {
		return nil, upstreamError(ctx, "failed to list rooms", err)
	}

	views := make([]*RoomView, 0, len(rooms))
	for _, r := range rooms {
		ownerID, ok := ParseOwnerID(s.cfg.Prefix, r.Name)
		if !ok {
			continue
		}
		view := &RoomView{
			RoomID:    r.ID,
			RoomName:  r.Name,
			OwnerID:   ownerID,
			Enabled:   r.Enabled,
			CreatedAt: r.CreatedAt,
		}
		if record, err := s.store.Get(ctx, r.ID); err == nil {
			view.Tracked = true
			view.OwnerAddress = record.OwnerAddress
			if view.CreatedAt.IsZero() {
				view.CreatedAt = record.CreatedAt
			}
			view.LastActivity = record.LastActivity
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) CreateRoom(ctx context.Context, input CreateRoomInput) (*CreateRoomResult, error) {
	if err := validateOwnerID(ctx, input.OwnerID); err != nil {
		return nil, err
	}
	if !ValidAddress(input.OwnerAddress) {
		return nil, validationError(ctx, "address must be a 0x-prefixed 40 character hex string")
	}

	name := Name(s.cfg.Prefix, input.OwnerID)
	log := s.log.With().Str("room_name", name).Int64("fid", input.OwnerID).Logger()

	target, err := s.platform.FindRoom(ctx, name)
	if err != nil {
		return nil, upstreamError(ctx, "failed to look up room", err)
	}

	existing := target != nil
	switch {
	case existing && target.Enabled:
		log.Debug().Str("room_id", target.ID).Msg("reusing enabled room")
	case existing:
		if err := s.platform.SetRoomEnabled(ctx, target.ID, true); err != nil {
			return nil, upstreamError(ctx, "failed to re-enable room", err)
		}
		target.Enabled = true
		log.Info().Str("room_id", target.ID).Msg("room re-enabled")
	default:
		target, err = s.platform.CreateRoom(ctx, name, s.describe(ctx, input.OwnerID), s.cfg.TemplateID)
		if err != nil {
			return nil, upstreamError(ctx, "failed to create room", err)
		}
		log.Info().Str("room_id", target.ID).Msg("room created")
	}

	code, err := s.platform.CreateRoomCode(ctx, target.ID, RoleCreator)
	if err != nil {
		return nil, upstreamError(ctx, "failed to create room code", err)
	}

	if _, err := s.store.Upsert(ctx, UpsertParams{
		RoomID:       target.ID,
		RoomName:     name,
		OwnerID:      input.OwnerID,
		OwnerAddress: input.OwnerAddress,
		CreatedAt:    target.CreatedAt,
		Reactivate:   true,
	}); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to record room", err)
	}

	return &CreateRoomResult{
		RoomID:   target.ID,
		RoomName: name,
		Code:     code,
		Role:     RoleCreator,
		Existing: existing,
	}, nil
}

func (s *service) JoinRoom(ctx context.Context, input JoinRoomInput) (*JoinRoomResult, error) {
	if input.RoomID == "" {
		return nil, validationError(ctx, "roomId is required")
	}
	if err := validateOwnerID(ctx, input.OwnerID); err != nil {
		return nil, err
	}
	if input.Address != "" && !ValidAddress(input.Address) {
		return nil, validationError(ctx, "address must be a 0x-prefixed 40 character hex string")
	}

	record, err := s.lookup(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if record.Disabled {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "room is disabled", ErrRoomDisabled)
	}

	role := RoleViewer
	if record.OwnerID == input.OwnerID && (input.Address == "" || SameAddress(record.OwnerAddress, input.Address)) {
		role = RoleCreator
	}

	code, err := s.platform.CreateRoomCode(ctx, record.RoomID, role)
	if err != nil {
		return nil, upstreamError(ctx, "failed to create room code", err)
	}

	if err := s.store.Touch(ctx, record.RoomID); err != nil {
		return nil, storeError(ctx, err)
	}

	s.log.Debug().
		Str("room_id", record.RoomID).
		Int64("fid", input.OwnerID).
		Str("role", string(role)).
		Msg("room joined")

	return &JoinRoomResult{
		RoomID:   record.RoomID,
		RoomName: record.RoomName,
		Code:     code,
		Role:     role,
	}, nil
}

func (s *service) DisableRoom(ctx context.Context, input DisableRoomInput) (*DisableRoomResult, error) {
	if input.RoomID == "" {
		return nil, validationError(ctx, "roomId is required")
	}
	if err := validateOwnerID(ctx, input.OwnerID); err != nil {
		return nil, err
	}
	if !ValidAddress(input.Address) {
		return nil, validationError(ctx, "address must be a 0x-prefixed 40 character hex string")
	}

	record, err := s.lookup(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	// An unknown owner address never matches, so reconciled rooms stay
	// locked until the owner calls create-room again.
	if record.OwnerID != input.OwnerID || !SameAddress(record.OwnerAddress, input.Address) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"only the room owner can disable this room", nil,
			map[string]any{"room_id": record.RoomID, "fid": input.OwnerID})
	}

	if record.Disabled {
		return &DisableRoomResult{RoomID: record.RoomID, Disabled: true, AlreadyDisabled: true}, nil
	}

	if err := s.platform.SetRoomEnabled(ctx, record.RoomID, false); err != nil {
		return nil, upstreamError(ctx, "failed to disable room", err)
	}
	if err := s.store.MarkDisabled(ctx, record.RoomID); err != nil {
		return nil, storeError(ctx, err)
	}

	s.log.Info().Str("room_id", record.RoomID).Int64("fid", input.OwnerID).Msg("room disabled by owner")

	return &DisableRoomResult{RoomID: record.RoomID, Disabled: true}, nil
}

func (s *service) lookup(ctx context.Context, roomID string) (*Session, error) {
	record, err := s.store.Get(ctx, roomID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	return record, nil
}

func (s *service) describe(ctx context.Context, ownerID int64) string {
	label := strconv.FormatInt(ownerID, 10)
	if s.names != nil {
		if name := s.names.DisplayName(ctx, ownerID); name != "" {
			label = name
		}
	}
	return fmt.Sprintf("Room for %s", label)
}

func validateOwnerID(ctx context.Context, ownerID int64) error {
	if ownerID <= 0 {
		return validationError(ctx, "fid must be a positive integer")
	}
	return nil
}

func validationError(ctx context.Context, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil)
}

func upstreamError(ctx context.Context, message string, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, message, err)
}

func storeError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "room not found", err)
	case errors.Is(err, ErrRoomDisabled):
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "room is disabled", err)
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "room store failure", err)
	}
}
