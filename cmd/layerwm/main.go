package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/daemon"
	"github.com/1broseidon/layerwm/internal/hotkeys"
	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/1broseidon/layerwm/internal/runtimepath"
	"github.com/1broseidon/layerwm/internal/x11"
)

const wmName = "layerwm"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "clients":
		os.Exit(runClients(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "desktop":
		os.Exit(runDesktop(os.Args[2:]))
	case "send":
		os.Exit(runSend(os.Args[2:]))
	case "layer":
		os.Exit(runLayer(os.Args[2:]))
	case "focus", "iconify", "deiconify", "sticky", "close", "raise", "lower":
		os.Exit(runWindowCommand(os.Args[1], os.Args[2:]))
	case "quit":
		os.Exit(runQuit(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: layerwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  clients             List managed windows")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  desktop <n>         Switch to desktop n")
	fmt.Fprintln(w, "  send <n> [window]   Move a window to desktop n")
	fmt.Fprintln(w, "  layer <n> [window]  Put a window on stacking layer n")
	fmt.Fprintln(w, "  raise [window]      Move a window one layer up")
	fmt.Fprintln(w, "  lower [window]      Move a window one layer down")
	fmt.Fprintln(w, "  focus <window>      Focus a window")
	fmt.Fprintln(w, "  sticky [window]     Toggle showing a window on every desktop")
	fmt.Fprintln(w, "  iconify [window]    Iconify a window")
	fmt.Fprintln(w, "  deiconify <window>  Restore an iconified window")
	fmt.Fprintln(w, "  close [window]      Close a window")
	fmt.Fprintln(w, "  quit                Stop the window manager")
	fmt.Fprintln(w, "  menu                Pick a window from a rofi/dmenu window list")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Windows default to the focused window. Run 'layerwm <command> --help'")
	fmt.Fprintln(w, "for command-specific options.")
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/layerwm/config.yaml)")
	display := fs.String("display", "", "X display (default: config display, then $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: layerwm run [--config PATH] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the window manager in the foreground. Send SIGINT or SIGTERM,")
		fmt.Fprintln(os.Stderr, "or run 'layerwm quit', to stop it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()
	for _, f := range res.Files {
		logger.Debug("config file loaded", "path", f)
	}

	if err := serve(cfg, logger); err != nil {
		logger.Error("window manager stopped", "error", err)
		return 1
	}
	return 0
}

// serve runs the window manager until it is told to quit.
func serve(cfg *config.Config, logger *slog.Logger) error {
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, platform.LinuxOptions{
		BorderWidth:      cfg.BorderWidth,
		PlaceholderPixel: cfg.FocusedBorderPixel(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	if err := backend.BecomeWM(wmName, cfg.MaxDesktops, cfg.MoveModifier); err != nil {
		if errors.Is(err, x11.ErrAnotherWM) {
			return err
		}
		return fmt.Errorf("failed to take over the display: %w", err)
	}

	keys, err := hotkeys.NewHandler(backend, cfg.Hotkeys, logger)
	if err != nil {
		return err
	}
	keys.Grab()
	defer keys.Ungrab()

	source := daemon.NewSource(backend, daemon.SourceConfig{
		ReconcileInterval: time.Duration(cfg.ReconcileIntervalSeconds) * time.Second,
		Logger:            logger,
	})

	wm, err := daemon.New(backend, source, daemon.Options{
		Config:  cfg,
		Hotkeys: keys,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	socketPath, err := runtimepath.SocketPath(cfg.Display)
	if err != nil {
		return err
	}
	ipcServer := ipc.NewServer(socketPath, source, logger)
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source.Start()
	defer source.Close()

	logger.Info("layerwm started", "display", cfg.Display, "socket", socketPath)
	err = wm.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down on signal")
		return nil
	}
	if err == nil {
		logger.Info("shutting down")
	}
	return err
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// newLogger builds the process logger from the configured level and file.
// The returned func closes the log file, if any.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}
