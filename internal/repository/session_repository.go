// This file contains the parking session repository: standard
// soft-delete-filtered CRUD plus the two domain operations, Open and Close.
// Open enforces the one-active-session-per-bay invariant and Close derives
// the cost from the elapsed time and the current tariffs. Both are
// check-then-act sequences, so each runs inside a single transaction with
// locking reads; two concurrent check-ins for the same bay serialize on the
// row lock instead of both passing the occupancy check.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/australparking/estacionamiento-api/internal/model"
	"github.com/australparking/estacionamiento-api/internal/pricing"
)

// SessionRepo encapsulates all database queries related to parking
// sessions. It carries a TariffRepo because checkout pricing re-reads the
// tariff table on every call.
type SessionRepo struct {
	db      *sql.DB
	tariffs *TariffRepo
}

// NewSessionRepo constructs a SessionRepo bound to the given database and
// tariff repository.
func NewSessionRepo(db *sql.DB, tariffs *TariffRepo) *SessionRepo {
	return &SessionRepo{db: db, tariffs: tariffs}
}

const sessionCols = `id, plate, entry_time, exit_time, cost, entry_user_id, exit_user_id, bay_id, deleted`

// scanSession reads one session row from any row scanner. exit_time is the
// only nullable column.
func scanSession(scan func(dest ...any) error) (*model.Session, error) {
	var s model.Session
	var exit sql.NullTime
	if err := scan(&s.ID, &s.Plate, &s.EntryTime, &exit, &s.Cost,
		&s.EntryUserID, &s.ExitUserID, &s.BayID, &s.Deleted); err != nil {
		return nil, err
	}
	if exit.Valid {
		t := exit.Time.UTC()
		s.ExitTime = &t
	}
	s.EntryTime = s.EntryTime.UTC()
	return &s, nil
}

// Open checks a vehicle in. It fails with ErrBayOccupied when the bay
// already holds a non-deleted session without an exit time; otherwise it
// inserts a new session with entry time = now, no exit time and zero cost,
// and returns its identity. The occupancy check and the insert share one
// transaction, with the check issued as a locking read, so the invariant
// holds under concurrent check-ins.
func (r *SessionRepo) Open(ctx context.Context, plate string, entryUserID, bayID uint64) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // no-op once committed

	const occupied = `SELECT id FROM parking_sessions
	                  WHERE bay_id = ? AND exit_time IS NULL AND deleted = 0
	                  LIMIT 1 FOR UPDATE`
	var existing uint64
	err = tx.QueryRowContext(ctx, occupied, bayID).Scan(&existing)
	if err == nil {
		return 0, ErrBayOccupied
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	const ins = `INSERT INTO parking_sessions (plate, entry_time, cost, entry_user_id, bay_id)
	             VALUES (?, ?, 0, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, plate, time.Now().UTC(), entryUserID, bayID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Close checks a vehicle out. It locates the unique active session for the
// plate (ErrNoActiveSession when none exists), computes the fee from the
// fractional elapsed minutes and the current tariff values, then writes
// exit time, exiting user and cost in one update. Exactly one session
// transitions per call; the lookup locks the row so a duplicate checkout
// for the same plate observes the first one's exit time. The updated
// session is returned for event publishing and API responses.
func (r *SessionRepo) Close(ctx context.Context, plate string, exitUserID uint64) (*model.Session, error) {
	halfHour, oneHour, hourly, err := r.tariffs.CheckoutRates(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const active = `SELECT ` + sessionCols + ` FROM parking_sessions
	                WHERE plate = ? AND exit_time IS NULL AND deleted = 0
	                LIMIT 1 FOR UPDATE`
	s, err := scanSession(tx.QueryRowContext(ctx, active, plate).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	now := time.Now().UTC()
	minutes := now.Sub(s.EntryTime).Minutes()
	// Round to cents only at the persistence boundary; the fee itself keeps
	// full fractional-hour precision.
	cost := pricing.Fee(minutes, halfHour, oneHour, hourly).Round(2)

	const upd = `UPDATE parking_sessions SET exit_time = ?, exit_user_id = ?, cost = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, now, exitUserID, cost, s.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.ExitTime = &now
	s.ExitUserID = exitUserID
	s.Cost = cost
	return s, nil
}

// ListAll returns all non-deleted sessions ordered by id.
func (r *SessionRepo) ListAll(ctx context.Context) ([]*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM parking_sessions WHERE deleted = 0 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a session by id, excluding soft-deleted rows. It returns
// ErrSessionNotFound when no visible row exists.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM parking_sessions WHERE id = ? AND deleted = 0`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// Add inserts a session with caller-provided fields. It exists for the
// plain CRUD surface; normal check-ins go through Open. On success the
// session's ID is populated.
func (r *SessionRepo) Add(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO parking_sessions (plate, entry_time, exit_time, cost, entry_user_id, exit_user_id, bay_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var exit any
	if s.ExitTime != nil {
		exit = s.ExitTime.UTC()
	}
	res, err := r.db.ExecContext(ctx, q, s.Plate, s.EntryTime.UTC(), exit, s.Cost, s.EntryUserID, s.ExitUserID, s.BayID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update overwrites all mutable fields of a session (full replace
// semantics). ErrSessionNotFound is returned when no visible row is
// affected.
func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
	const q = `UPDATE parking_sessions
	           SET plate = ?, entry_time = ?, exit_time = ?, cost = ?, entry_user_id = ?, exit_user_id = ?, bay_id = ?
	           WHERE id = ? AND deleted = 0`
	var exit any
	if s.ExitTime != nil {
		exit = s.ExitTime.UTC()
	}
	res, err := r.db.ExecContext(ctx, q, s.Plate, s.EntryTime.UTC(), exit, s.Cost, s.EntryUserID, s.ExitUserID, s.BayID, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SoftDelete flips the deleted flag and never removes the row. Deleting an
// absent or already-deleted session is a no-op.
func (r *SessionRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE parking_sessions SET deleted = 1 WHERE id = ? AND deleted = 0`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListRecentClosed returns the n most recently entered sessions among those
// already checked out (non-NULL exit time, not deleted). The ordering key
// is the ENTRY time, descending — not the exit time the name might suggest.
// That matches the facility's long-standing reporting behavior and is kept
// deliberately.
func (r *SessionRepo) ListRecentClosed(ctx context.Context, n int) ([]*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM parking_sessions
	           WHERE exit_time IS NOT NULL AND deleted = 0
	           ORDER BY entry_time DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionWithBay pairs a closed session with its owning bay for the recent
// transactions listing, where the bay is inlined in the response.
type SessionWithBay struct {
	Session model.Session
	Bay     model.Bay
}

// ListRecentClosedWithBay is ListRecentClosed with the owning bay joined
// in. Sessions whose bay was soft-deleted in the meantime still appear; the
// join is on the foreign key alone, mirroring the plain listing.
func (r *SessionRepo) ListRecentClosedWithBay(ctx context.Context, n int) ([]SessionWithBay, error) {
	const q = `SELECT s.id, s.plate, s.entry_time, s.exit_time, s.cost,
	                  s.entry_user_id, s.exit_user_id, s.bay_id, s.deleted,
	                  b.id, b.description, b.disabled, b.deleted
	           FROM parking_sessions s
	           JOIN bays b ON b.id = s.bay_id
	           WHERE s.exit_time IS NOT NULL AND s.deleted = 0
	           ORDER BY s.entry_time DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionWithBay, 0, n)
	for rows.Next() {
		var sw SessionWithBay
		var exit sql.NullTime
		if err := rows.Scan(&sw.Session.ID, &sw.Session.Plate, &sw.Session.EntryTime, &exit, &sw.Session.Cost,
			&sw.Session.EntryUserID, &sw.Session.ExitUserID, &sw.Session.BayID, &sw.Session.Deleted,
			&sw.Bay.ID, &sw.Bay.Description, &sw.Bay.Disabled, &sw.Bay.Deleted); err != nil {
			return nil, err
		}
		if exit.Valid {
			t := exit.Time.UTC()
			sw.Session.ExitTime = &t
		}
		sw.Session.EntryTime = sw.Session.EntryTime.UTC()
		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
