package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/ipc"
)

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		CurrentDesktop: 2,
		MaxDesktops:    4,
		Focused:        0x400001,
		ClientCount:    3,
		UptimeSeconds:  90,
		DaemonRunning:  true,
	}, plainStyles())

	out := buf.String()
	for _, want := range []string{"current_desktop: 2/4", "focused:         0x400001", "clients:         3", "uptime:          1m30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gesture") {
		t.Fatalf("gesture shown while idle:\n%s", out)
	}
}

func TestPrintClients(t *testing.T) {
	var buf bytes.Buffer
	printClients(&buf, []ipc.ClientInfo{
		{Window: 0x10, Desktop: "1", Layer: 5, Width: 640, Height: 480, X: 10, Y: 20, Class: "XTerm", Title: "shell"},
		{Window: 0x20, Desktop: "icons", Layer: 5, Width: 100, Height: 100, Title: strings.Repeat("x", 60)},
	}, plainStyles())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "WINDOW") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "640x480+10+20") || !strings.Contains(lines[1], "XTerm") {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "…") {
		t.Fatalf("long title not truncated: %q", lines[2])
	}
}

func TestPrintClients_Empty(t *testing.T) {
	var buf bytes.Buffer
	printClients(&buf, nil, plainStyles())
	if got := strings.TrimSpace(buf.String()); got != "no managed windows" {
		t.Fatalf("output = %q", got)
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"42", 42, true},
		{"0x400001", 0x400001, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"window", 0, false},
		{"0x1ffffffff", 0, false},
	}
	for _, tt := range tests {
		got, err := parseWindow(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("parseWindow(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceFile, File: "/etc/layerwm.yaml", Line: 3, Column: 5}, "file:/etc/layerwm.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/etc/layerwm.yaml"}, "file:/etc/layerwm.yaml"},
		{config.Source{}, "unknown"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestNewLogger_Levels(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = t.TempDir() + "/wm.log"

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closeLog()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug level not enabled")
	}
}
