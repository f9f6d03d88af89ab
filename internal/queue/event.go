// Package queue defines message payloads exchanged over the message broker.
package queue

// SessionClosedEvent is published after a checkout commits. It carries
// enough information for downstream consumers to log or feed reporting
// without querying the primary database.
type SessionClosedEvent struct {
	SessionID      uint64 `json:"session_id"`
	Plate          string `json:"plate"`
	BayID          uint64 `json:"bay_id"`
	BayDescription string `json:"bay_description,omitempty"`
	EntryTime      string `json:"entry_time"`
	ExitTime       string `json:"exit_time"`
	Cost           string `json:"cost"` // decimal rendered as string to avoid float drift
	ExitUserID     uint64 `json:"exit_user_id"`
}
