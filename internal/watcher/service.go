// Package watcher runs observation passes over configured targets and
// publishes snapshots that changed since the last delivery.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/orca-public-api/internal/domain"
	"github.com/samvad-hq/orca-public-api/internal/logger"
	"github.com/samvad-hq/orca-public-api/pkg/publishers"
	"github.com/samvad-hq/orca-public-api/pkg/targets"
)

// Outcome describes what happened to a single target during a pass.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// Service coordinates fetching and publishing across targets.
type Service struct {
	registry  targets.FetcherRegistry
	publisher EventPublisher
	store     DeliveryStore
	log       logger.Logger
	wait      func(ctx context.Context, d time.Duration) bool
}

// NewService wires a watcher with the fetcher registry, publisher and store.
// A nil store disables deduplication.
func NewService(reg targets.FetcherRegistry, pub EventPublisher, log logger.Logger, store DeliveryStore) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		registry:  reg,
		publisher: pub,
		store:     store,
		log:       log,
		wait:      sleepCtx,
	}
}

// Run executes one pass over all targets. Per-target failures are joined into
// the returned error; cancellation ends the pass early without error.
func (s *Service) Run(ctx context.Context, list []targets.Target) error {
	if s == nil || s.registry == nil || s.publisher == nil {
		return fmt.Errorf("watcher service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no targets configured for watching")
	}

	errs := s.runAll(ctx, list)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []targets.Target) []error {
	var errs []error
	counts := map[Outcome]int{}

	for i, t := range list {
		if ctx.Err() != nil {
			s.log.InfoObj("watch pass interrupted", "watch_pass", map[string]any{
				"remaining": len(list) - i,
			})
			break
		}

		outcome, err := s.runTarget(ctx, t)
		if err != nil && ctx.Err() != nil {
			break
		}
		counts[outcome]++
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("target watch failed", "target_error", map[string]any{
				"target_id": t.ID,
				"error":     err.Error(),
			})
		}

		if i < len(list)-1 && !s.wait(ctx, t.RequestDelay()) {
			break
		}
	}

	s.log.InfoObj("watch pass summary", "watch_pass", map[string]any{
		"targets":   len(list),
		"published": counts[OutcomePublished],
		"unchanged": counts[OutcomeUnchanged],
		"failed":    counts[OutcomeFailed],
	})
	return errs
}

func (s *Service) runTarget(ctx context.Context, t targets.Target) (Outcome, error) {
	fetcher, err := s.registry.FetcherFor(t)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("resolve fetcher for target %s: %w", t.ID, err)
	}

	snap, err := fetcher.Fetch(ctx, t)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch target %s: %w", t.ID, err)
	}

	if s.unchanged(t, snap) {
		s.log.DebugObj("snapshot unchanged", "target_result", map[string]any{
			"target_id":   t.ID,
			"snapshot_id": snap.ID,
		})
		return OutcomeUnchanged, nil
	}

	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(t.ID, t.Name, snap))
	if delivered > 0 {
		s.record(t, snap)
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("publish target %s (%d delivered): %w", t.ID, delivered, err)
	}

	s.log.InfoObj("snapshot published", "target_result", map[string]any{
		"target_id":   t.ID,
		"kind":        t.Kind,
		"snapshot_id": snap.ID,
		"delivered":   delivered,
	})
	return OutcomePublished, nil
}

// unchanged reports whether snap matches the last delivery of t. A failed
// lookup counts as changed.
func (s *Service) unchanged(t targets.Target, snap domain.Snapshot) bool {
	if s.store == nil {
		return false
	}
	last, ok, err := s.store.Last(t.ID)
	if err != nil {
		s.log.WarnObj("delivery lookup failed", "store_error", map[string]any{
			"target_id":   t.ID,
			"snapshot_id": snap.ID,
			"error":       err.Error(),
		})
		return false
	}
	return ok && last == snap.ID
}

func (s *Service) record(t targets.Target, snap domain.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Record(t.ID, snap.ID); err != nil {
		s.log.WarnObj("delivery record failed", "store_error", map[string]any{
			"target_id":   t.ID,
			"snapshot_id": snap.ID,
			"error":       err.Error(),
		})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
