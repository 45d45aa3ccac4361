package daemon

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/platform"
)

func newTrackedState(t *testing.T, windows ...clientstate.Window) *clientstate.State {
	t.Helper()
	s, err := clientstate.New(clientstate.Options{MaxDesktops: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, w := range windows {
		if err := s.Register(w, clientstate.Hints{}); err != nil {
			t.Fatalf("Register(%d): %v", w, err)
		}
	}
	return s
}

func TestReconciler_RemovesMissing(t *testing.T) {
	s := newTrackedState(t, 1, 2, 3)
	list := func() ([]platform.WindowID, error) {
		return []platform.WindowID{1, 3, 99}, nil
	}
	var removed []clientstate.Window
	r := NewReconciler(ReconcilerConfig{}, s, list, func(w clientstate.Window) {
		removed = append(removed, w)
		s.Remove(w)
	})

	if n := r.ReconcileNow(); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if len(removed) != 1 || removed[0] != 2 {
		t.Fatalf("removed = %v", removed)
	}
	if n := r.ReconcileNow(); n != 0 {
		t.Fatalf("second pass removed %d", n)
	}
}

func TestReconciler_ListErrorKeepsClients(t *testing.T) {
	var logs bytes.Buffer
	s := newTrackedState(t, 1)
	list := func() ([]platform.WindowID, error) { return nil, errors.New("connection lost") }
	r := NewReconciler(ReconcilerConfig{Logger: slog.New(slog.NewTextHandler(&logs, nil))}, s, list, func(clientstate.Window) {
		t.Fatal("remove called")
	})

	if n := r.ReconcileNow(); n != 0 {
		t.Fatalf("removed %d", n)
	}
	if !strings.Contains(logs.String(), "connection lost") {
		t.Fatalf("error not logged: %s", logs.String())
	}
}

func TestReconciler_RecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	s := newTrackedState(t, 1)
	list := func() ([]platform.WindowID, error) { panic("boom") }
	r := NewReconciler(ReconcilerConfig{Logger: slog.New(slog.NewTextHandler(&logs, nil))}, s, list, nil)

	r.ReconcileNow()
	if !strings.Contains(logs.String(), "reconciler panic recovered") {
		t.Fatalf("panic not logged: %s", logs.String())
	}
}
