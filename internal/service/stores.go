// Package service translates between persisted entities and the
// transport-facing DTOs, delegating business calls to the repositories. No
// business rules live here beyond defensively filtering already-deleted
// records; the occupancy guard and the fee computation belong to the
// repository layer.
package service

import (
	"context"

	"github.com/australparking/estacionamiento-api/internal/model"
	"github.com/australparking/estacionamiento-api/internal/repository"
)

// SessionStore is the slice of the session repository the service layer
// consumes. *repository.SessionRepo satisfies it; tests substitute an
// in-memory implementation.
type SessionStore interface {
	Open(ctx context.Context, plate string, entryUserID, bayID uint64) (uint64, error)
	Close(ctx context.Context, plate string, exitUserID uint64) (*model.Session, error)
	ListAll(ctx context.Context) ([]*model.Session, error)
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	Add(ctx context.Context, s *model.Session) error
	Update(ctx context.Context, s *model.Session) error
	SoftDelete(ctx context.Context, id uint64) error
	ListRecentClosed(ctx context.Context, n int) ([]*model.Session, error)
	ListRecentClosedWithBay(ctx context.Context, n int) ([]repository.SessionWithBay, error)
}

// BayStore is the bay repository surface the service layer consumes.
type BayStore interface {
	Create(ctx context.Context, b *model.Bay) error
	GetByID(ctx context.Context, id uint64) (*model.Bay, error)
	ListAll(ctx context.Context) ([]*model.Bay, error)
	Update(ctx context.Context, b *model.Bay) error
	SoftDelete(ctx context.Context, id uint64) error
}
