package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/australparking/estacionamiento-api/internal/model"
)

// TariffRepo reads the tariff reference data. Tariffs are seeded by
// operators and never written through the API, so only lookups live here.
type TariffRepo struct {
	db *sql.DB
}

// NewTariffRepo constructs a TariffRepo with the provided DB handle.
func NewTariffRepo(db *sql.DB) *TariffRepo { return &TariffRepo{db: db} }

// ListAll returns every tariff row ordered by id.
func (r *TariffRepo) ListAll(ctx context.Context) ([]*model.Tariff, error) {
	const q = `SELECT id, description, value FROM tariffs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tariff
	for rows.Next() {
		t := new(model.Tariff)
		if err := rows.Scan(&t.ID, &t.Description, &t.Value); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByDescription fetches a single tariff by its description key. It
// returns ErrTariffNotConfigured when the row is absent.
func (r *TariffRepo) GetByDescription(ctx context.Context, description string) (*model.Tariff, error) {
	const q = `SELECT id, description, value FROM tariffs WHERE description = ? LIMIT 1`
	var t model.Tariff
	if err := r.db.QueryRowContext(ctx, q, description).Scan(&t.ID, &t.Description, &t.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTariffNotConfigured
		}
		return nil, err
	}
	return &t, nil
}

// CheckoutRates loads the three tariff values the fee calculation needs.
// Rates are fetched fresh on every checkout; call volume is low enough that
// a cache would buy nothing. ErrTariffNotConfigured is returned when any of
// the named rows is missing.
func (r *TariffRepo) CheckoutRates(ctx context.Context) (halfHour, oneHour, hourly decimal.Decimal, err error) {
	const q = `SELECT description, value FROM tariffs
	           WHERE description IN (?, ?, ?)`
	rows, err := r.db.QueryContext(ctx, q, model.TariffHalfHour, model.TariffOneHour, model.TariffHourly)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	defer rows.Close()

	found := map[string]decimal.Decimal{}
	for rows.Next() {
		var desc string
		var val decimal.Decimal
		if err := rows.Scan(&desc, &val); err != nil {
			return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
		}
		found[desc] = val
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	if len(found) != 3 {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, ErrTariffNotConfigured
	}
	return found[model.TariffHalfHour], found[model.TariffOneHour], found[model.TariffHourly], nil
}
