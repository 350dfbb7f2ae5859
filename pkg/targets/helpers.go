package targets

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samvad-hq/orca-public-api/internal/domain"
)

// fingerprint identifies a snapshot by the target and what was observed, not when.
func fingerprint(t Target, payload []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|", t.ID, t.Kind, t.Chain, t.Address)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func buildSnapshot(t Target, result any, fetchedAt time.Time) (domain.Snapshot, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("encode %s snapshot: %w", t.Kind, err)
	}
	return domain.Snapshot{
		ID:        fingerprint(t, payload),
		TargetID:  t.ID,
		Kind:      t.Kind,
		Chain:     t.Chain,
		Address:   t.Address,
		Payload:   payload,
		FetchedAt: fetchedAt.UTC(),
	}, nil
}
