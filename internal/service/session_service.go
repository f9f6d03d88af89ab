package service

import (
	"context"
	"log"
	"time"

	"github.com/australparking/estacionamiento-api/internal/queue"
)

// SessionService exposes parking session operations to the transport
// layer. Open and Close delegate verbatim to the store, which owns the
// occupancy guard and the fee computation; after a successful close the
// service publishes a session.closed event.
type SessionService struct {
	sessions SessionStore
	bays     BayStore
	publish  func(ctx context.Context, ev queue.SessionClosedEvent) error
}

// NewSessionService constructs a SessionService over the given stores.
func NewSessionService(sessions SessionStore, bays BayStore) *SessionService {
	return &SessionService{
		sessions: sessions,
		bays:     bays,
		publish:  queue.PublishSessionClosed,
	}
}

// ListAll returns every visible session without bay details.
func (s *SessionService) ListAll(ctx context.Context) ([]*SessionDTO, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*SessionDTO, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Deleted { // defensive; the store filters these already
			continue
		}
		out = append(out, sessionToDTO(sess))
	}
	return out, nil
}

// GetByID returns one session or the store's not-found error.
func (s *SessionService) GetByID(ctx context.Context, id uint64) (*SessionDTO, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sessionToDTO(sess), nil
}

// ListRecent returns the n most recently entered closed sessions with the
// owning bay inlined. This is the only listing that embeds bay details.
func (s *SessionService) ListRecent(ctx context.Context, n int) ([]*SessionDTO, error) {
	rows, err := s.sessions.ListRecentClosedWithBay(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]*SessionDTO, 0, len(rows))
	for i := range rows {
		if rows[i].Session.Deleted {
			continue
		}
		dto := sessionToDTO(&rows[i].Session)
		dto.Bay = bayToDTO(&rows[i].Bay)
		out = append(out, dto)
	}
	return out, nil
}

// Add creates a session from caller-provided fields and returns its id.
func (s *SessionService) Add(ctx context.Context, dto *SessionDTO) (uint64, error) {
	sess := sessionToEntity(dto)
	if err := s.sessions.Add(ctx, sess); err != nil {
		return 0, err
	}
	return sess.ID, nil
}

// Update overwrites all mutable fields of a session (full replace
// semantics, not a partial patch).
func (s *SessionService) Update(ctx context.Context, dto *SessionDTO) error {
	return s.sessions.Update(ctx, sessionToEntity(dto))
}

// Delete soft-deletes a session.
func (s *SessionService) Delete(ctx context.Context, id uint64) error {
	return s.sessions.SoftDelete(ctx, id)
}

// Open checks a vehicle in, delegating the occupancy guard to the store.
func (s *SessionService) Open(ctx context.Context, plate string, entryUserID, bayID uint64) (uint64, error) {
	return s.sessions.Open(ctx, plate, entryUserID, bayID)
}

// Close checks a vehicle out and publishes a session.closed event. The
// close is already committed when publishing happens, so publish failures
// are logged and dropped rather than surfaced to the caller.
func (s *SessionService) Close(ctx context.Context, plate string, exitUserID uint64) (*SessionDTO, error) {
	sess, err := s.sessions.Close(ctx, plate, exitUserID)
	if err != nil {
		return nil, err
	}

	ev := queue.SessionClosedEvent{
		SessionID:  sess.ID,
		Plate:      sess.Plate,
		BayID:      sess.BayID,
		EntryTime:  sess.EntryTime.Format(time.RFC3339),
		Cost:       sess.Cost.String(),
		ExitUserID: sess.ExitUserID,
	}
	if sess.ExitTime != nil {
		ev.ExitTime = sess.ExitTime.Format(time.RFC3339)
	}
	if bay, err := s.bays.GetByID(ctx, sess.BayID); err == nil {
		ev.BayDescription = bay.Description
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("session-service: publish session.closed failed: %v", err)
	}
	return sessionToDTO(sess), nil
}
