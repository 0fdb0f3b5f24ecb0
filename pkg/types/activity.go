package types

import (
	"encoding/json"
	"time"

	"github.com/kolamarket/shopdesk/pkg/enums"
)

// FieldChange records the before/after values of one shop field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ActivityLogEntry is a server-owned audit record. The client only renders it.
type ActivityLogEntry struct {
	ID         int64                `json:"id"`
	Timestamp  time.Time            `json:"timestamp"`
	ActionType enums.ActivityAction `json:"action_type"`
	ActorName  string               `json:"actor_name"`
	Changes    json.RawMessage      `json:"changes,omitempty"`
}

// FieldChanges decodes the changes payload as a field -> {old,new} map.
// Entries whose changes are a plain message return ok=false.
func (e ActivityLogEntry) FieldChanges() (map[string]FieldChange, bool) {
	if len(e.Changes) == 0 {
		return nil, false
	}
	var changes map[string]FieldChange
	if err := json.Unmarshal(e.Changes, &changes); err != nil {
		return nil, false
	}
	return changes, true
}

// Message decodes the changes payload as a free-text {msg} record.
func (e ActivityLogEntry) Message() (string, bool) {
	if len(e.Changes) == 0 {
		return "", false
	}
	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Changes, &payload); err != nil || payload.Msg == "" {
		return "", false
	}
	return payload.Msg, true
}
