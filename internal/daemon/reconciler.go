package daemon

import (
	"log/slog"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/platform"
)

// WindowLister returns the top-level windows that currently exist.
type WindowLister func() ([]platform.WindowID, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Logger *slog.Logger
}

// Reconciler checks the tracked clients against the windows the server
// still has and drops the ones whose DestroyNotify we never saw.
type Reconciler struct {
	state       *clientstate.State
	listWindows WindowLister
	remove      func(clientstate.Window)
	logger      *slog.Logger
}

// NewReconciler creates a reconciler. remove is called for every tracked
// client that no longer exists.
func NewReconciler(cfg ReconcilerConfig, state *clientstate.State, listWindows WindowLister, remove func(clientstate.Window)) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		state:       state,
		listWindows: listWindows,
		remove:      remove,
		logger:      logger,
	}
}

// reconcile performs a single reconciliation pass and reports how many
// clients were dropped.
func (r *Reconciler) reconcile() (removed int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	tracked := r.state.Clients()
	if len(tracked) == 0 {
		return 0
	}

	actualWindowIDs, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return 0
	}

	actualIDs := make(map[clientstate.Window]bool, len(actualWindowIDs))
	for _, wid := range actualWindowIDs {
		actualIDs[clientstate.Window(wid)] = true
	}

	for _, w := range tracked {
		if actualIDs[w] {
			continue
		}
		desktop, _ := r.state.FindDesktop(w)
		r.logger.Info("reconciler: orphaned client detected",
			"window_id", w,
			"desktop", desktop)
		r.remove(w)
		removed++
	}
	return removed
}

// ReconcileNow runs a reconciliation pass immediately.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
