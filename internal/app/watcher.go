package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/orca-public-api/internal/config"
	"github.com/samvad-hq/orca-public-api/internal/logger"
	"github.com/samvad-hq/orca-public-api/internal/storage"
	"github.com/samvad-hq/orca-public-api/internal/watcher"
	"github.com/samvad-hq/orca-public-api/pkg/orca"
	"github.com/samvad-hq/orca-public-api/pkg/publishers"
	"github.com/samvad-hq/orca-public-api/pkg/targets"
)

// Watcher is the snapshot watcher runtime. It owns the watch loop, the
// publisher connections and the snapshot store.
type Watcher struct {
	cfg           *config.Config
	targetReg     *targets.Registry
	fanout        *publishers.Fanout
	service       *watcher.Service
	watchInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewOrcaClient builds an API client from config.
func NewOrcaClient(cfg *config.Config, log logger.Logger) *orca.Client {
	opts := []orca.Option{
		orca.WithBaseURL(cfg.OrcaBaseURL),
		orca.WithTimeout(cfg.OrcaTimeout),
	}
	if cfg.OrcaUserAgent != "" {
		opts = append(opts, orca.WithHeaders(map[string]string{"User-Agent": cfg.OrcaUserAgent}))
	}
	if log != nil {
		opts = append(opts, orca.WithLogger(log))
	}
	return orca.New(opts...)
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetList := targetReg.All()
	targetIDs := make([]string, 0, len(targetList))
	for _, t := range targetList {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	api := NewOrcaClient(cfg, log)
	service := watcher.NewService(targets.DefaultFetcherRegistry(api), fanout, log, store)

	return &Watcher{
		cfg:           cfg,
		targetReg:     targetReg,
		fanout:        fanout,
		service:       service,
		watchInterval: cfg.WatchInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.Close()

	list := w.targetReg.All()
	w.log.InfoObj("watch loop starting", "watcher_state", map[string]any{
		"targets_count":    len(list),
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.watchInterval.String(),
	})

	if err := w.RunOnce(ctx); err != nil {
		w.log.ErrorObj("initial watch pass failed", "error", err.Error())
	}

	ticker := time.NewTicker(w.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watch loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled watch pass failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single pass across all targets.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	list := w.targetReg.All()
	start := time.Now()
	w.log.InfoObj("watch pass started", "watch_meta", map[string]any{
		"targets_count": len(list),
		"started_at":    start.UTC(),
	})
	if err := w.service.Run(ctx, list); err != nil {
		return err
	}
	w.log.InfoObj("watch pass completed", "watch_meta", map[string]any{
		"targets_count": len(list),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// Close releases publisher connections and the storage backend.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var errs []error
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err.Error())
		errs = append(errs, err)
	}
	w.fanout = nil
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err.Error())
			errs = append(errs, err)
		}
		w.store = nil
	}
	return errors.Join(errs...)
}
