package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
)

var (
	// ErrRoomNotFound is returned when a room is not tracked.
	ErrRoomNotFound = room.ErrRoomNotFound
	// ErrRoomDisabled is returned when touching a disabled room.
	ErrRoomDisabled = room.ErrRoomDisabled
)

// record guards one session. The table lock only protects the map itself.
type record struct {
	mu      sync.Mutex
	session room.Session
}

func (r *record) snapshot() *room.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := r.session
	return &cp
}

// MemoryStore is an in-memory room session store.
// Writes to different rooms do not contend.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*record
	now     func() time.Time
	log     zerolog.Logger
}

var _ room.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory room store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*record),
		now:     time.Now,
		log:     log.With().Str("component", "room-store").Logger(),
	}
}

// WithClock overrides the clock used to stamp activity.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) lookup(roomID string) (*record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[roomID]
	return rec, ok
}

// Get returns a snapshot of a room record.
func (s *MemoryStore) Get(ctx context.Context, roomID string) (*room.Session, error) {
	rec, ok := s.lookup(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rec.snapshot(), nil
}

// List returns snapshots of all room records.
func (s *MemoryStore) List(ctx context.Context) ([]*room.Session, error) {
	s.mu.RLock()
	recs := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	result := make([]*room.Session, 0, len(recs))
	for _, rec := range recs {
		result = append(result, rec.snapshot())
	}
	return result, nil
}

// Upsert inserts an active record, or refreshes LastActivity on an existing
// one. Disabled is kept unless params.Reactivate is set.
func (s *MemoryStore) Upsert(ctx context.Context, params room.UpsertParams) (*room.Session, error) {
	now := s.now()

	s.mu.Lock()
	rec, ok := s.records[params.RoomID]
	if !ok {
		createdAt := params.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rec = &record{session: room.Session{
			RoomID:       params.RoomID,
			RoomName:     params.RoomName,
			OwnerID:      params.OwnerID,
			OwnerAddress: params.OwnerAddress,
			CreatedAt:    createdAt,
			LastActivity: now,
		}}
		s.records[params.RoomID] = rec
		s.mu.Unlock()

		s.updateActiveGauge()
		s.log.Debug().Str("room_id", params.RoomID).Int64("owner_id", params.OwnerID).Msg("room tracked")
		return rec.snapshot(), nil
	}
	s.mu.Unlock()

	rec.mu.Lock()
	if now.After(rec.session.LastActivity) {
		rec.session.LastActivity = now
	}
	if params.Reactivate {
		rec.session.Disabled = false
	}
	if rec.session.OwnerAddress == "" && params.OwnerAddress != "" {
		rec.session.OwnerAddress = params.OwnerAddress
	}
	if rec.session.RoomName == "" {
		rec.session.RoomName = params.RoomName
	}
	if rec.session.OwnerID == 0 {
		rec.session.OwnerID = params.OwnerID
	}
	cp := rec.session
	rec.mu.Unlock()

	s.updateActiveGauge()
	return &cp, nil
}

// Touch refreshes LastActivity of an active record. Disabled records are
// left untouched.
func (s *MemoryStore) Touch(ctx context.Context, roomID string) error {
	rec, ok := s.lookup(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	now := s.now()
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.session.Disabled {
		return ErrRoomDisabled
	}
	if now.After(rec.session.LastActivity) {
		rec.session.LastActivity = now
	}
	return nil
}

// MarkDisabled transitions a record to disabled and stamps LastActivity.
func (s *MemoryStore) MarkDisabled(ctx context.Context, roomID string) error {
	rec, ok := s.lookup(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	now := s.now()
	rec.mu.Lock()
	rec.session.Disabled = true
	if now.After(rec.session.LastActivity) {
		rec.session.LastActivity = now
	}
	rec.mu.Unlock()

	s.updateActiveGauge()
	return nil
}

// Replace swaps the whole table for the given sessions.
func (s *MemoryStore) Replace(ctx context.Context, sessions []*room.Session) error {
	records := make(map[string]*record, len(sessions))
	for _, sess := range sessions {
		if sess == nil || sess.RoomID == "" {
			continue
		}
		records[sess.RoomID] = &record{session: *sess}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.updateActiveGauge()
	s.log.Info().Int("rooms", len(records)).Msg("room table replaced")
	return nil
}

// Idle returns active records whose LastActivity is before cutoff.
func (s *MemoryStore) Idle(ctx context.Context, cutoff time.Time) ([]*room.Session, error) {
	sessions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idle := make([]*room.Session, 0)
	for _, sess := range sessions {
		if !sess.Disabled && sess.LastActivity.Before(cutoff) {
			idle = append(idle, sess)
		}
	}
	return idle, nil
}

// ActiveCount returns the number of records that are not disabled.
func (s *MemoryStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := 0
	for _, rec := range s.records {
		rec.mu.Lock()
		if !rec.session.Disabled {
			active++
		}
		rec.mu.Unlock()
	}
	return active
}

func (s *MemoryStore) updateActiveGauge() {
	metrics.ActiveRooms.Set(float64(s.ActiveCount()))
}
