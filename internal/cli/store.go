package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/sqlite"
)

// workspace is an attached store and the logger it reports to. The
// caller must call Close.
type workspace struct {
	store *sqlite.Backend
	log   *zap.Logger
}

// openWorkspace builds the diagnostic logger and attaches the configured
// backend, creating missing tables.
func (a *app) openWorkspace() (*workspace, error) {
	log, err := logging.NewLogger(a.settings.LogLevel, a.settings.LogFormat)
	if err != nil {
		return nil, sysError(fmt.Errorf("building logger: %w", err))
	}
	store := sqlite.NewBackend(sqlite.WithLogger(log), sqlite.WithClock(a.now))
	if err := store.Attach(a.settings.Store); err != nil {
		_ = log.Sync()
		return nil, sysError(fmt.Errorf("attaching %s backend: %w", a.settings.Store.Backend, err))
	}
	return &workspace{store: store, log: log}, nil
}

func (w *workspace) Close() error {
	defer func() { _ = w.log.Sync() }()
	if err := w.store.Detach(); err != nil {
		return sysError(fmt.Errorf("detaching backend: %w", err))
	}
	return nil
}
