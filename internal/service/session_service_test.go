package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/australparking/estacionamiento-api/internal/model"
	"github.com/australparking/estacionamiento-api/internal/pricing"
	"github.com/australparking/estacionamiento-api/internal/queue"
	"github.com/australparking/estacionamiento-api/internal/repository"
)

// memStore is an in-memory SessionStore that mirrors the SQL repository's
// contract: the occupancy guard in Open, the active-session lookup and fee
// computation in Close, and soft-delete filtering on every read. The clock
// is injectable so elapsed-time branches can be pinned.
type memStore struct {
	now      func() time.Time
	nextID   uint64
	sessions map[uint64]*model.Session
	bays     *memBays
	halfHour decimal.Decimal
	oneHour  decimal.Decimal
	hourly   decimal.Decimal
}

func newMemStore(bays *memBays) *memStore {
	return &memStore{
		now:      func() time.Time { return time.Now().UTC() },
		sessions: map[uint64]*model.Session{},
		bays:     bays,
		halfHour: decimal.NewFromInt(100),
		oneHour:  decimal.NewFromInt(150),
		hourly:   decimal.NewFromInt(80),
	}
}

func (m *memStore) Open(_ context.Context, plate string, entryUserID, bayID uint64) (uint64, error) {
	for _, s := range m.sessions {
		if s.BayID == bayID && s.ExitTime == nil && !s.Deleted {
			return 0, repository.ErrBayOccupied
		}
	}
	m.nextID++
	m.sessions[m.nextID] = &model.Session{
		ID:          m.nextID,
		Plate:       plate,
		EntryTime:   m.now(),
		EntryUserID: entryUserID,
		BayID:       bayID,
		Cost:        decimal.Zero,
	}
	return m.nextID, nil
}

func (m *memStore) Close(_ context.Context, plate string, exitUserID uint64) (*model.Session, error) {
	var active *model.Session
	for _, s := range m.sessions {
		if s.Plate == plate && s.ExitTime == nil && !s.Deleted {
			active = s
			break
		}
	}
	if active == nil {
		return nil, repository.ErrNoActiveSession
	}
	now := m.now()
	minutes := now.Sub(active.EntryTime).Minutes()
	active.Cost = pricing.Fee(minutes, m.halfHour, m.oneHour, m.hourly).Round(2)
	active.ExitTime = &now
	active.ExitUserID = exitUserID
	cp := *active
	return &cp, nil
}

func (m *memStore) ListAll(context.Context) ([]*model.Session, error) {
	out := []*model.Session{}
	for _, s := range m.sessions {
		if !s.Deleted {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok || s.Deleted {
		return nil, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *memStore) Add(_ context.Context, s *model.Session) error {
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, s *model.Session) error {
	old, ok := m.sessions[s.ID]
	if !ok || old.Deleted {
		return repository.ErrSessionNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) SoftDelete(_ context.Context, id uint64) error {
	if s, ok := m.sessions[id]; ok {
		s.Deleted = true
	}
	return nil
}

func (m *memStore) ListRecentClosed(_ context.Context, n int) ([]*model.Session, error) {
	out := []*model.Session{}
	for _, s := range m.sessions {
		if s.ExitTime != nil && !s.Deleted {
			out = append(out, s)
		}
	}
	// Entry time descending, matching the SQL repository's documented order.
	sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.After(out[j].EntryTime) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memStore) ListRecentClosedWithBay(ctx context.Context, n int) ([]repository.SessionWithBay, error) {
	sessions, _ := m.ListRecentClosed(ctx, n)
	out := make([]repository.SessionWithBay, 0, len(sessions))
	for _, s := range sessions {
		sw := repository.SessionWithBay{Session: *s}
		if b, ok := m.bays.items[s.BayID]; ok {
			sw.Bay = *b
		}
		out = append(out, sw)
	}
	return out, nil
}

// memBays is a minimal in-memory BayStore.
type memBays struct {
	nextID uint64
	items  map[uint64]*model.Bay
}

func newMemBays() *memBays { return &memBays{items: map[uint64]*model.Bay{}} }

func (m *memBays) Create(_ context.Context, b *model.Bay) error {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.items[b.ID] = &cp
	return nil
}

func (m *memBays) GetByID(_ context.Context, id uint64) (*model.Bay, error) {
	b, ok := m.items[id]
	if !ok || b.Deleted {
		return nil, repository.ErrBayNotFound
	}
	return b, nil
}

func (m *memBays) ListAll(context.Context) ([]*model.Bay, error) {
	out := []*model.Bay{}
	for _, b := range m.items {
		if !b.Deleted {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBays) Update(_ context.Context, b *model.Bay) error {
	old, ok := m.items[b.ID]
	if !ok || old.Deleted {
		return repository.ErrBayNotFound
	}
	cp := *b
	m.items[b.ID] = &cp
	return nil
}

func (m *memBays) SoftDelete(_ context.Context, id uint64) error {
	if b, ok := m.items[id]; ok {
		b.Deleted = true
	}
	return nil
}

func newTestService(t *testing.T) (*SessionService, *memStore, *memBays, *[]queue.SessionClosedEvent) {
	t.Helper()
	bays := newMemBays()
	store := newMemStore(bays)
	svc := NewSessionService(store, bays)
	published := &[]queue.SessionClosedEvent{}
	svc.publish = func(_ context.Context, ev queue.SessionClosedEvent) error {
		*published = append(*published, ev)
		return nil
	}
	return svc, store, bays, published
}

func TestOpenGuardsOccupiedBay(t *testing.T) {
	svc, store, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	id, err := svc.Open(ctx, "AB123CD", 7, 1)
	if err != nil {
		t.Fatalf("open free bay: %v", err)
	}
	s := store.sessions[id]
	if s.ExitTime != nil {
		t.Fatal("new session must have no exit time")
	}
	if !s.Cost.IsZero() {
		t.Fatalf("new session cost = %s, want 0", s.Cost)
	}

	if _, err := svc.Open(ctx, "ZZ999ZZ", 7, 1); !errors.Is(err, repository.ErrBayOccupied) {
		t.Fatalf("open occupied bay: err = %v, want ErrBayOccupied", err)
	}
}

func TestCloseWithoutActiveSession(t *testing.T) {
	svc, _, _, published := newTestService(t)
	if _, err := svc.Close(context.Background(), "AB123CD", 9); !errors.Is(err, repository.ErrNoActiveSession) {
		t.Fatalf("err = %v, want ErrNoActiveSession", err)
	}
	if len(*published) != 0 {
		t.Fatal("no event may be published for a failed close")
	}
}

func TestCheckoutScenarioFortyFiveMinutes(t *testing.T) {
	// Tariffs {halfHour:100, oneHour:150, hourly:80}; open at T, close at
	// T+45min -> cost 150. Closing the same plate again fails.
	svc, store, bays, published := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	entry := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return entry }
	if _, err := svc.Open(ctx, "AB123CD", 7, 1); err != nil {
		t.Fatalf("open: %v", err)
	}

	store.now = func() time.Time { return entry.Add(45 * time.Minute) }
	dto, err := svc.Close(ctx, "AB123CD", 9)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !dto.Cost.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("cost = %s, want 150", dto.Cost)
	}
	if dto.ExitTime == nil || !dto.ExitTime.Equal(entry.Add(45*time.Minute)) {
		t.Fatalf("exit time = %v, want entry+45m", dto.ExitTime)
	}
	if dto.ExitUserID != 9 {
		t.Fatalf("exit user = %d, want 9", dto.ExitUserID)
	}

	if len(*published) != 1 {
		t.Fatalf("published %d events, want 1", len(*published))
	}
	ev := (*published)[0]
	if ev.Plate != "AB123CD" || ev.Cost != "150" || ev.BayDescription != "bay 1" {
		t.Fatalf("unexpected event %+v", ev)
	}

	if _, err := svc.Close(ctx, "AB123CD", 9); !errors.Is(err, repository.ErrNoActiveSession) {
		t.Fatalf("second close: err = %v, want ErrNoActiveSession", err)
	}
}

func TestImmediateCloseBillsHalfHour(t *testing.T) {
	svc, store, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	at := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }
	if _, err := svc.Open(ctx, "XX000XX", 1, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	dto, err := svc.Close(ctx, "XX000XX", 1)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !dto.Cost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("cost = %s, want the half-hour fee", dto.Cost)
	}
}

func TestBayFreedAfterClose(t *testing.T) {
	svc, _, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	if _, err := svc.Open(ctx, "AA111AA", 1, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Close(ctx, "AA111AA", 1); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Open(ctx, "BB222BB", 1, 1); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
}

func TestListRecentOrderingAndLimit(t *testing.T) {
	svc, store, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	base := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	mk := func(id uint64, entry time.Time, closed, deleted bool) {
		s := &model.Session{ID: id, Plate: "P", EntryTime: entry, BayID: 1, Deleted: deleted, Cost: decimal.Zero}
		if closed {
			exit := entry.Add(10 * time.Minute)
			s.ExitTime = &exit
		}
		store.sessions[id] = s
		if id > store.nextID {
			store.nextID = id
		}
	}
	mk(1, base, true, false)
	mk(2, base.Add(2*time.Hour), true, false)
	mk(3, base.Add(1*time.Hour), true, false)
	mk(4, base.Add(3*time.Hour), false, false) // still active, excluded
	mk(5, base.Add(4*time.Hour), true, true)   // deleted, excluded

	got, err := svc.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Entry-time descending: session 2 (base+2h) before session 3 (base+1h).
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("order = [%d %d], want [2 3]", got[0].ID, got[1].ID)
	}
	for _, dto := range got {
		if dto.ExitTime == nil {
			t.Fatalf("session %d has no exit time in recent listing", dto.ID)
		}
		if dto.Bay == nil || dto.Bay.Description != "bay 1" {
			t.Fatalf("session %d is missing inlined bay details", dto.ID)
		}
	}
}

func TestSoftDeletedSessionsAreInvisible(t *testing.T) {
	svc, store, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})

	id, err := svc.Open(ctx, "AB123CD", 1, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("GetByID after delete: err = %v, want ErrSessionNotFound", err)
	}
	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("deleted session still listed: %d entries", len(all))
	}
	if _, ok := store.sessions[id]; !ok {
		t.Fatal("soft delete must keep the row")
	}
}

func TestClosePublishFailureDoesNotFailCheckout(t *testing.T) {
	svc, _, bays, _ := newTestService(t)
	ctx := context.Background()
	_ = bays.Create(ctx, &model.Bay{Description: "bay 1"})
	svc.publish = func(context.Context, queue.SessionClosedEvent) error {
		return errors.New("broker down")
	}

	if _, err := svc.Open(ctx, "AB123CD", 1, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Close(ctx, "AB123CD", 1); err != nil {
		t.Fatalf("close must succeed when publishing fails: %v", err)
	}
}
