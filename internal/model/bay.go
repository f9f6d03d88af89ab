package model

// Bay represents a single parking bay ("cochera") as stored in the `bays`
// table. A bay owns zero or more parking sessions through the
// parking_sessions.bay_id foreign key; the relation is never embedded as an
// object graph, callers join on demand.
//
// Fields:
//
//	ID          – primary key identifier.
//	Description – free-text label shown to operators.
//	Disabled    – bay temporarily taken out of service.
//	Deleted     – soft-delete tombstone; rows are never physically removed.
type Bay struct {
	ID          uint64 // bays.id
	Description string // bays.description
	Disabled    bool   // bays.disabled
	Deleted     bool   // bays.deleted
}
