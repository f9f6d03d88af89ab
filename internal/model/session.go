package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session represents one vehicle stay ("estacionamiento") in the
// `parking_sessions` table. A session is active while ExitTime is nil and
// becomes closed at checkout, when the exit timestamp, exiting user and
// cost are written in a single update. Cost stays zero until then and is
// never mutated afterwards through normal flow.
//
// Fields:
//
//	ID          – primary key identifier.
//	Plate       – vehicle licence plate.
//	EntryTime   – check-in timestamp (UTC).
//	ExitTime    – check-out timestamp, nil while the session is active.
//	Cost        – tariff-derived fee, set exactly once at checkout.
//	EntryUserID – operator who checked the vehicle in.
//	ExitUserID  – operator who checked it out; zero until checkout.
//	BayID       – owning bay (parking_sessions.bay_id → bays.id).
//	Deleted     – soft-delete tombstone.
type Session struct {
	ID          uint64          // parking_sessions.id
	Plate       string          // parking_sessions.plate
	EntryTime   time.Time       // parking_sessions.entry_time
	ExitTime    *time.Time      // parking_sessions.exit_time (nullable)
	Cost        decimal.Decimal // parking_sessions.cost
	EntryUserID uint64          // parking_sessions.entry_user_id
	ExitUserID  uint64          // parking_sessions.exit_user_id
	BayID       uint64          // parking_sessions.bay_id
	Deleted     bool            // parking_sessions.deleted
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	return s.ExitTime == nil && !s.Deleted
}
