package watcher

import (
	"context"

	"github.com/samvad-hq/orca-public-api/pkg/publishers"
)

// EventPublisher publishes snapshot events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// DeliveryStore remembers the fingerprint last delivered for each target.
type DeliveryStore interface {
	Last(targetID string) (fingerprint string, ok bool, err error)
	Record(targetID, fingerprint string) error
}
