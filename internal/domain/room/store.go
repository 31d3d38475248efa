package room

import (
	"context"
	"time"
)

// Store defines the interface for room session storage.
// Sweeping and reconciliation live in the Sweeper, not here.
type Store interface {
	// Get returns a snapshot of the record, or ErrRoomNotFound.
	Get(ctx context.Context, roomID string) (*Session, error)

	// List returns snapshots of every record.
	List(ctx context.Context) ([]*Session, error)

	// Upsert inserts an active record or refreshes an existing one.
	Upsert(ctx context.Context, params UpsertParams) (*Session, error)

	// Touch refreshes LastActivity of an active record.
	Touch(ctx context.Context, roomID string) error

	// MarkDisabled transitions a record to disabled.
	MarkDisabled(ctx context.Context, roomID string) error

	// Replace rebuilds the table from a reconciled listing.
	Replace(ctx context.Context, sessions []*Session) error

	// Idle returns active records whose LastActivity is before cutoff.
	Idle(ctx context.Context, cutoff time.Time) ([]*Session, error)
}

// Platform is the upstream room API the domain depends on.
type Platform interface {
	// ListEnabledRooms returns every enabled room created from templateID.
	ListEnabledRooms(ctx context.Context, templateID string) ([]PlatformRoom, error)

	// FindRoom returns the room with this exact name, or nil.
	FindRoom(ctx context.Context, name string) (*PlatformRoom, error)

	CreateRoom(ctx context.Context, name, description, templateID string) (*PlatformRoom, error)

	SetRoomEnabled(ctx context.Context, roomID string, enabled bool) error

	// CreateRoomCode mints an access code for role.
	CreateRoomCode(ctx context.Context, roomID string, role Role) (string, error)
}

// NameResolver resolves an owner id to a display name, or "" when unknown.
type NameResolver interface {
	DisplayName(ctx context.Context, ownerID int64) string
}
