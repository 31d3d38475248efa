package hms

import (
	"context"

	"github.com/janhq/rooms-api/internal/domain/room"
)

// Platform adapts Client to the room domain.
type Platform struct {
	client *Client
}

var _ room.Platform = (*Platform)(nil)

// NewPlatform wraps a client.
func NewPlatform(client *Client) *Platform {
	return &Platform{client: client}
}

func (p *Platform) ListEnabledRooms(ctx context.Context, templateID string) ([]room.PlatformRoom, error) {
	enabled := true
	rooms, err := p.client.ListRooms(ctx, ListRoomsParams{TemplateID: templateID, Enabled: &enabled})
	if err != nil {
		return nil, err
	}

	out := make([]room.PlatformRoom, 0, len(rooms))
	for _, r := range rooms {
		if !r.Enabled {
			continue
		}
		out = append(out, toPlatformRoom(&r))
	}
	return out, nil
}

func (p *Platform) FindRoom(ctx context.Context, name string) (*room.PlatformRoom, error) {
	r, err := p.client.FindRoomByName(ctx, name)
	if err != nil || r == nil {
		return nil, err
	}
	found := toPlatformRoom(r)
	return &found, nil
}

func (p *Platform) CreateRoom(ctx context.Context, name, description, templateID string) (*room.PlatformRoom, error) {
	r, err := p.client.CreateRoom(ctx, CreateRoomParams{
		Name:        name,
		Description: description,
		TemplateID:  templateID,
	})
	if err != nil {
		return nil, err
	}
	created := toPlatformRoom(r)
	return &created, nil
}

func (p *Platform) SetRoomEnabled(ctx context.Context, roomID string, enabled bool) error {
	_, err := p.client.SetRoomEnabled(ctx, roomID, enabled)
	return err
}

func (p *Platform) CreateRoomCode(ctx context.Context, roomID string, role room.Role) (string, error) {
	code, err := p.client.CreateRoomCode(ctx, roomID, string(role))
	if err != nil {
		return "", err
	}
	return code.Code, nil
}

func toPlatformRoom(r *Room) room.PlatformRoom {
	return room.PlatformRoom{
		ID:        r.ID,
		Name:      r.Name,
		Enabled:   r.Enabled,
		CreatedAt: r.CreatedAt,
	}
}
