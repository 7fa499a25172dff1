package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/water-insights/internal/config"
	"github.com/mr1hm/water-insights/internal/dataset"
	"github.com/mr1hm/water-insights/internal/models"
)

// Snapshot is one loaded dataset plus the lookups derived from it.
type Snapshot struct {
	Dataset   models.Dataset
	Countries []string
	LoadedAt  time.Time
}

func newSnapshot(ds models.Dataset) *Snapshot {
	return &Snapshot{
		Dataset:   ds,
		Countries: dataset.DistinctCountries(ds),
		LoadedAt:  time.Now(),
	}
}

type fetchFunc func(ctx context.Context, source string) (models.Dataset, error)

// Manager owns the current dataset snapshot and optionally reloads it.
type Manager struct {
	cfg     config.DatasetConfig
	fetch   fetchFunc
	current atomic.Pointer[Snapshot]
	wg      sync.WaitGroup
}

func NewManager(cfg config.DatasetConfig) *Manager {
	return &Manager{
		cfg:   cfg,
		fetch: fetchSource,
	}
}

// Start performs the initial load and, when a reload interval is configured,
// starts a poller that swaps in fresh snapshots until ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	ds, err := m.fetch(ctx, m.cfg.Source)
	if err != nil {
		return fmt.Errorf("error loading dataset from %s: %w", m.cfg.Source, err)
	}
	m.current.Store(newSnapshot(ds))
	slog.Info("dataset loaded", "source", m.cfg.Source, "rows", len(ds))

	if m.cfg.ReloadInterval > 0 {
		m.wg.Add(1)
		go m.runPoller(ctx)
	}
	return nil
}

// Current returns the latest snapshot, or nil before Start succeeds.
func (m *Manager) Current() *Snapshot {
	return m.current.Load()
}

func (m *Manager) runPoller(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting dataset poller", "source", m.cfg.Source, "interval", m.cfg.ReloadInterval)

	ticker := time.NewTicker(m.cfg.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset poller shutting down", "source", m.cfg.Source)
			return
		case <-ticker.C:
			m.reload(ctx)
		}
	}
}

// reload keeps the previous snapshot when the source fails to load.
func (m *Manager) reload(ctx context.Context) {
	slog.Debug("reloading dataset", "source", m.cfg.Source)

	ds, err := m.fetch(ctx, m.cfg.Source)
	if err != nil {
		slog.Error("dataset reload failed", "source", m.cfg.Source, "error", err)
		return
	}

	m.current.Store(newSnapshot(ds))
	slog.Info("dataset reloaded", "source", m.cfg.Source, "rows", len(ds))
}

func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("dataset manager stopped")
}

func fetchSource(ctx context.Context, source string) (models.Dataset, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchHTTP(ctx, source)
	}
	return dataset.LoadFile(source)
}
