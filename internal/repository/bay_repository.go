// This file defines repository methods for parking bays. Bays are the
// facility's physical spots; they are created and edited by administrators
// and only ever soft-deleted, so every read filters the tombstone flag in
// one place.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/australparking/estacionamiento-api/internal/model"
)

// BayRepo encapsulates all database queries related to bays. It depends on
// a sql.DB connection which is configured at startup.
type BayRepo struct {
	db *sql.DB
}

// NewBayRepo constructs a BayRepo with the provided DB handle. This allows
// dependency injection of the database in tests and at startup.
func NewBayRepo(db *sql.DB) *BayRepo { return &BayRepo{db: db} }

// notDeleted is the shared soft-delete predicate. Keeping it in one
// constant means a forgotten filter shows up as a missing identifier, not a
// silent data leak.
const bayNotDeleted = "deleted = 0"

// Create inserts a new bay. On success the bay's ID field is populated with
// the auto-generated value.
func (r *BayRepo) Create(ctx context.Context, b *model.Bay) error {
	const q = `INSERT INTO bays (description, disabled) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.Description, b.Disabled)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a bay by its ID, excluding soft-deleted rows. It returns
// ErrBayNotFound if no visible row exists.
func (r *BayRepo) GetByID(ctx context.Context, id uint64) (*model.Bay, error) {
	const q = `SELECT id, description, disabled, deleted FROM bays WHERE id = ? AND ` + bayNotDeleted
	var b model.Bay
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Description, &b.Disabled, &b.Deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBayNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListAll returns all non-deleted bays ordered by id.
func (r *BayRepo) ListAll(ctx context.Context) ([]*model.Bay, error) {
	const q = `SELECT id, description, disabled, deleted FROM bays WHERE ` + bayNotDeleted + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Bay
	for rows.Next() {
		b := new(model.Bay)
		if err := rows.Scan(&b.ID, &b.Description, &b.Disabled, &b.Deleted); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable fields of a bay (full replace, not a
// partial patch). It returns ErrBayNotFound when no visible row is
// affected.
func (r *BayRepo) Update(ctx context.Context, b *model.Bay) error {
	const q = `UPDATE bays SET description = ?, disabled = ? WHERE id = ? AND ` + bayNotDeleted
	res, err := r.db.ExecContext(ctx, q, b.Description, b.Disabled, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBayNotFound
	}
	return nil
}

// SoftDelete flips the deleted flag; the row is never physically removed.
// Deleting an absent or already-deleted bay is a no-op.
func (r *BayRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE bays SET deleted = 1 WHERE id = ? AND ` + bayNotDeleted
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
