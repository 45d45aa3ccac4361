package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/layerwm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketName(t *testing.T) {
	tests := []struct {
		display string
		env     string
		want    string
	}{
		{display: ":0", want: "layerwm-_0.sock"},
		{display: "localhost:10.0", want: "layerwm-localhost_10.0.sock"},
		{display: "", env: ":1", want: "layerwm-_1.sock"},
		{display: "", env: "", want: "layerwm.sock"},
		{display: "/tmp/.X11-unix/X0", want: "layerwm-tmp.X11-unixX0.sock"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Setenv("DISPLAY", tt.env)
			if got := SocketName(tt.display); got != tt.want {
				t.Fatalf("SocketName(%q) = %q, want %q", tt.display, got, tt.want)
			}
		})
	}
}

func TestSocketPath_InsideRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath(":3")
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "layerwm-_3.sock"); socket != want {
		t.Fatalf("SocketPath() = %q, want %q", socket, want)
	}
}
