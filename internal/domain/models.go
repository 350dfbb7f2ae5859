package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is one observation of an upstream endpoint for a watch target.
// ID fingerprints the target and payload, so repeated identical observations
// of one target share it.
type Snapshot struct {
	ID        string          `json:"id"`
	TargetID  string          `json:"target_id"`
	Kind      string          `json:"kind"`
	Chain     string          `json:"chain"`
	Address   string          `json:"address,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}
