package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cleave/src/config"
	"cleave/src/daemon"
	"cleave/src/hotkey"
	"cleave/src/keycode"
	"cleave/src/notification"
	"cleave/src/process"
	"cleave/src/runtimeinit"
	"cleave/src/session"
	"cleave/src/singleinstance"
	"cleave/src/tray"
)

type daemonOptions struct {
	hotkey       string
	sleepMs      int
	persistent   bool
	extendedKeys bool
	backend      string
	inProcess    bool
	tray         bool
	trigger      bool
	stop         bool
	envPath      string
}

// settings is the merged command line and configuration.
type settings struct {
	target     hotkey.HotKey
	interval   time.Duration
	persistent bool
	extended   bool
	backend    string
	inProcess  bool
	tray       bool
	capture    string
	forward    []string
	ports      singleinstance.PortRange
}

type deps struct {
	stdout    io.Writer
	spawner   process.Spawner
	newClient func(singleinstance.PortRange) singleinstance.Client
	newServer func(singleinstance.PortRange) singleinstance.Server
	detect    func(context.Context, singleinstance.PortRange) (int, bool)
	listen    func(context.Context, settings) (<-chan hotkey.KeyAction, error)
	setupLog  func(enableFileLogging bool, name string)
	// runSession serves an in-process hand-off.
	runSession func(ctx context.Context, cfg *config.Config) error
}

func defaultDeps() deps {
	return deps{
		stdout:     os.Stdout,
		spawner:    process.ExecSpawner{},
		newClient:  singleinstance.NewClient,
		newServer:  singleinstance.NewServer,
		detect:     singleinstance.DetectResidentPort,
		listen:     listen,
		runSession: runSession,
	}
}

func main() {
	runtime.LockOSThread()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		notification.ShowError("cleave-daemon", err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runWithArgs(ctx, os.Args, defaultDeps())
}

func runWithArgs(ctx context.Context, args []string, d deps) error {
	if len(args) == 0 {
		args = []string{"cleave-daemon"}
	}
	opts := &daemonOptions{}
	cmd := newRootCmd(opts, d)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *daemonOptions, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleave-daemon [flags] [-- cleave flags]",
		Short: "Wait for a global hotkey and start cleave",
		Long: "cleave-daemon listens for a global hotkey and starts a cleave capture when it is pressed. " +
			"Arguments after -- are passed to cleave.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), cmd, *opts, args, d)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.hotkey, "hotkey", "m", config.DefaultHotkey, "Hotkey that starts a capture")
	f.IntVarP(&opts.sleepMs, "sleep", "s", int(config.DefaultPollInterval/time.Millisecond), "Milliseconds between key polls")
	f.BoolVarP(&opts.persistent, "persistent", "p", false, "Keep running after each capture")
	f.BoolVar(&opts.extendedKeys, "extended-keys", false, "Allow Pause, PrintScreen, lock and media keys")
	f.StringVar(&opts.backend, "backend", config.BackendHook, "Key source: hook (global keyboard hook) or registered (OS hotkey)")
	f.BoolVar(&opts.inProcess, "in-process", false, "Run captures inside the daemon instead of spawning cleave")
	f.BoolVar(&opts.tray, "tray", false, "Show a tray icon")
	f.BoolVar(&opts.trigger, "trigger", false, "Ask the running daemon to capture now and exit")
	f.BoolVar(&opts.stop, "stop", false, "Ask the running daemon to quit and exit")
	f.StringVar(&opts.envPath, "env", "", "Path to a .env file (highest precedence)")
	cmd.MarkFlagsMutuallyExclusive("trigger", "stop")

	return cmd
}

// resolveSettings merges flags over cfg. Flags win only when given.
func resolveSettings(cmd *cobra.Command, opts daemonOptions, forward []string, cfg *config.Config) (settings, error) {
	f := cmd.Flags()
	s := settings{
		interval:   cfg.PollInterval,
		persistent: opts.persistent || cfg.Persistent,
		extended:   opts.extendedKeys || cfg.ExtendedKeys,
		backend:    cfg.TriggerBackend,
		inProcess:  cfg.Handoff == config.HandoffInProcess,
		tray:       opts.tray || cfg.EnableTray,
		capture:    cfg.CaptureExecutable,
		forward:    forward,
		ports:      singleinstance.PortRange{Start: cfg.PortStart, End: cfg.PortEnd}.Normalize(),
	}

	text := cfg.Hotkey
	if f.Changed("hotkey") {
		text = opts.hotkey
	}
	if strings.TrimSpace(text) == "" {
		return s, errors.New("hotkey cannot be empty")
	}
	h, err := hotkey.Parse(text)
	if err != nil {
		return s, err
	}
	s.target = h

	if f.Changed("sleep") {
		if opts.sleepMs <= 0 {
			return s, errors.New("sleep must be greater than 0")
		}
		s.interval = time.Duration(opts.sleepMs) * time.Millisecond
	}
	if f.Changed("backend") {
		switch b := strings.ToLower(opts.backend); b {
		case config.BackendHook, config.BackendRegistered:
			s.backend = b
		default:
			return s, fmt.Errorf("unknown backend %q (expected %s or %s)", opts.backend, config.BackendHook, config.BackendRegistered)
		}
	}
	if f.Changed("in-process") {
		s.inProcess = opts.inProcess
	}

	if h.Extended() && !s.extended {
		return s, fmt.Errorf("hotkey %s uses an extended key; pass --extended-keys or set EXTENDED_KEYS=true", h)
	}
	if s.inProcess && s.tray {
		log.Printf("Tray needs the main thread, captures will be spawned")
		s.inProcess = false
	}
	return s, nil
}

func runDaemon(ctx context.Context, cmd *cobra.Command, opts daemonOptions, forward []string, d deps) error {
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  config.LoadOptions{EnvPath: opts.envPath},
		LogName:      "cleave-daemon",
		SetupLogging: d.setupLog,
	})
	if err != nil {
		return err
	}

	if opts.trigger || opts.stop {
		ports := singleinstance.PortRange{Start: cfg.PortStart, End: cfg.PortEnd}
		kind := singleinstance.Capture
		if opts.stop {
			kind = singleinstance.Quit
		}
		return sendToResident(ctx, d, ports, kind)
	}

	s, err := resolveSettings(cmd, opts, forward, cfg)
	if err != nil {
		return err
	}

	if port, ok := d.detect(ctx, s.ports); ok {
		return fmt.Errorf("cleave-daemon is already running on port %d", port)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := d.newServer(s.ports)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to claim resident port %d: %w", s.ports.Start, err)
	}
	defer server.Close()

	edges, err := d.listen(ctx, s)
	if err != nil {
		return err
	}

	var (
		queue   *session.Queue
		handoff daemon.HandoffFunc
	)
	if s.inProcess {
		queue = session.NewQueue()
		handoff = func() error {
			if err := queue.Handoff(); err != nil {
				log.Printf("Hand-off skipped: %v", err)
			}
			return nil
		}
	} else {
		handoff = func() error {
			log.Printf("Handing off to %s %v", s.capture, s.forward)
			if err := d.spawner.Spawn(s.capture, s.forward); err != nil {
				return process.Describe(s.capture, err)
			}
			return nil
		}
	}

	dm := daemon.New(daemon.Config{Target: s.target, Interval: s.interval, Persistent: s.persistent}, edges, handoff)
	go serveResident(ctx, server, dm, cancel)

	fmt.Fprintf(d.stdout, "Listening for %s\n", s.target)

	switch {
	case s.tray:
		return runWithTray(ctx, cancel, dm, s)
	case s.inProcess:
		return runInProcess(ctx, dm, queue, func(ctx context.Context) error {
			return d.runSession(ctx, cfg)
		})
	default:
		return finish(dm.Run(ctx))
	}
}

// finish maps a stopped daemon to the process result.
func finish(err error) error {
	if errors.Is(err, context.Canceled) {
		log.Printf("Daemon stopped")
		return nil
	}
	return err
}

func sendToResident(ctx context.Context, d deps, ports singleinstance.PortRange, kind singleinstance.Kind) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	delegated, msg, err := d.newClient(ports).Send(ctx, kind)
	if err != nil {
		return fmt.Errorf("resident rejected %s: %w", kind, err)
	}
	if !delegated {
		return errors.New("no cleave-daemon is running")
	}
	if msg != "" {
		fmt.Fprintln(d.stdout, msg)
	}
	return nil
}

// serveResident answers requests from other cleave-daemon invocations.
func serveResident(ctx context.Context, server singleinstance.Server, dm *daemon.Daemon, stop context.CancelFunc) {
	for {
		conn, err := server.Next(ctx)
		if err != nil {
			return
		}
		switch conn.Request().Kind {
		case singleinstance.Capture:
			dm.Trigger()
			_ = conn.RespondSuccess("capture requested")
		case singleinstance.Quit:
			_ = conn.RespondSuccess("stopping")
			stop()
		}
		_ = conn.Close()
	}
}

func runWithTray(ctx context.Context, cancel context.CancelFunc, dm *daemon.Daemon, s settings) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- dm.Run(ctx)
		tray.Quit()
	}()
	go func() {
		<-ctx.Done()
		tray.Quit()
	}()
	tray.Run(tray.Menu{
		Title:     "cleave",
		Hotkey:    s.target.String(),
		OnCapture: dm.Trigger,
		OnQuit:    cancel,
	})
	cancel()
	return finish(<-errCh)
}

// runInProcess runs the daemon on a goroutine and sessions on the calling
// one, which owns the main thread.
func runInProcess(ctx context.Context, dm *daemon.Daemon, q *session.Queue, run func(context.Context) error) error {
	errCh := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		errCh <- dm.Run(ctx)
		close(stop)
	}()
	if err := q.Serve(ctx, stop, run); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return finish(<-errCh)
}

func runSession(ctx context.Context, cfg *config.Config) error {
	opts, err := session.FromConfig(cfg)
	if err != nil {
		return err
	}
	res, err := session.Execute(ctx, opts)
	if errors.Is(err, session.ErrSelectionCancelled) {
		log.Printf("Selection cancelled")
		return nil
	}
	if err != nil {
		notification.ShowError("cleave", err.Error())
		return err
	}
	if res.Path != "" {
		log.Printf("Capture saved to %s", res.Path)
	}
	return nil
}

func listen(ctx context.Context, s settings) (<-chan hotkey.KeyAction, error) {
	if s.backend == config.BackendRegistered {
		return hotkey.ListenRegistered(ctx, s.target)
	}
	return hotkey.Listen(ctx, keycode.NewCanonicalizer(s.extended)), nil
}
