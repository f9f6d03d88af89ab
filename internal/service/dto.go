package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/australparking/estacionamiento-api/internal/model"
)

// BayDTO is the transport representation of a bay.
type BayDTO struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Disabled    bool   `json:"disabled"`
	Deleted     bool   `json:"deleted"`
}

// SessionDTO is the transport representation of a parking session. The
// field set mirrors the entity; Bay is inlined only in the recent
// transactions variant and omitted everywhere else.
type SessionDTO struct {
	ID          uint64          `json:"id"`
	Plate       string          `json:"plate"`
	EntryTime   time.Time       `json:"entry_time"`
	ExitTime    *time.Time      `json:"exit_time"`
	Cost        decimal.Decimal `json:"cost"`
	EntryUserID uint64          `json:"entry_user_id"`
	ExitUserID  uint64          `json:"exit_user_id"`
	BayID       uint64          `json:"bay_id"`
	Deleted     bool            `json:"deleted"`
	Bay         *BayDTO         `json:"bay,omitempty"`
}

func bayToDTO(b *model.Bay) *BayDTO {
	if b == nil {
		return nil
	}
	return &BayDTO{
		ID:          b.ID,
		Description: b.Description,
		Disabled:    b.Disabled,
		Deleted:     b.Deleted,
	}
}

func bayToEntity(d *BayDTO) *model.Bay {
	return &model.Bay{
		ID:          d.ID,
		Description: d.Description,
		Disabled:    d.Disabled,
		Deleted:     d.Deleted,
	}
}

func sessionToDTO(s *model.Session) *SessionDTO {
	return &SessionDTO{
		ID:          s.ID,
		Plate:       s.Plate,
		EntryTime:   s.EntryTime,
		ExitTime:    s.ExitTime,
		Cost:        s.Cost,
		EntryUserID: s.EntryUserID,
		ExitUserID:  s.ExitUserID,
		BayID:       s.BayID,
		Deleted:     s.Deleted,
	}
}

func sessionToEntity(d *SessionDTO) *model.Session {
	return &model.Session{
		ID:          d.ID,
		Plate:       d.Plate,
		EntryTime:   d.EntryTime,
		ExitTime:    d.ExitTime,
		Cost:        d.Cost,
		EntryUserID: d.EntryUserID,
		ExitUserID:  d.ExitUserID,
		BayID:       d.BayID,
		Deleted:     d.Deleted,
	}
}
