package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/orca-public-api/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	ID          string          `json:"id"`
	TargetID    string          `json:"target_id"`
	TargetName  string          `json:"target_name"`
	Kind        string          `json:"kind"`
	Chain       string          `json:"chain"`
	Snapshot    domain.Snapshot `json:"snapshot"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given target + snapshot.
func NewEvent(targetID, targetName string, snap domain.Snapshot) Event {
	return Event{
		ID:          uuid.NewString(),
		TargetID:    targetID,
		TargetName:  targetName,
		Kind:        snap.Kind,
		Chain:       snap.Chain,
		Snapshot:    snap,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached as message attributes on queue/topic sinks.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"target_id": e.TargetID,
		"kind":      e.Kind,
		"chain":     e.Chain,
	}
}
