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
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cleave/src/clipboard"
	"cleave/src/config"
	"cleave/src/export"
	"cleave/src/hotkey"
	"cleave/src/process"
	"cleave/src/runtimeinit"
	"cleave/src/screenshot"
	"cleave/src/selection"
	"cleave/src/session"
)

type mainOptions struct {
	outputDir   string
	format      string
	mode        string
	monitor     int
	allMonitors bool
	region      string
	filename    string
	delayMs     int
	monitorList bool
	scale       float64
	filter      string

	daemonHotkey string
	persistent   bool
	sleepMs      int
	tray         bool
	inProcess    bool

	envPath string
}

// deps are the collaborators runCapture talks to.
type deps struct {
	stdout   io.Writer
	spawner  process.Spawner
	monitors func() ([]screenshot.Monitor, error)
	execute  func(ctx context.Context, opts session.Options) (export.Result, error)
	setupLog func(enableFileLogging bool, name string)

	// holdClipboard keeps a copied image alive before the process exits.
	holdClipboard func(ctx context.Context, timeout time.Duration) bool
}

func defaultDeps() deps {
	return deps{
		stdout:   os.Stdout,
		spawner:  process.ExecSpawner{},
		monitors: screenshot.Monitors,
		execute:  session.Execute,

		holdClipboard: clipboard.Hold,
	}
}

func main() {
	// The selection window must be driven from the main thread.
	runtime.LockOSThread()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args), defaultDeps())
}

func runWithArgs(args []string, d deps) error {
	if len(args) == 0 {
		args = []string{"cleave"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts, d)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cleave",
		Short:         "Select a region of the screen and save or copy it",
		Long:          "cleave captures the screen, lets you select a region and copies it to the clipboard or saves it to a directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, *opts, d)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory to save the capture to (default: copy to clipboard)")
	f.StringVar(&opts.format, "format", "", "Image format when saving: bmp, gif, jpeg, png, tiff")
	f.StringVarP(&opts.mode, "mode", "m", "", "Initial selection mode: move, resize, inverse-resize")
	f.IntVar(&opts.monitor, "monitor", screenshot.PrimaryMonitor, "Monitor index to capture (default: primary)")
	f.BoolVar(&opts.allMonitors, "all-monitors", false, "Capture the bounding box of every monitor")
	f.StringVarP(&opts.region, "region", "i", "", "Capture x,y,width,height without interactive selection")
	f.StringVarP(&opts.filename, "filename", "f", "", "Filename prefix when saving (default: cleave)")
	f.IntVarP(&opts.delayMs, "delay", "d", 0, "Delay in milliseconds before capturing")
	f.BoolVarP(&opts.monitorList, "monitor-list", "l", false, "List available monitors and exit")
	f.Float64VarP(&opts.scale, "scale", "r", 0, "Scale the capture by this factor")
	f.StringVarP(&opts.filter, "filter", "q", "", "Scaling filter: Nearest, Triangle, CatmullRom, Gaussian, Lanczos3")

	f.StringVar(&opts.daemonHotkey, "daemon-hotkey", "", "Start cleave-daemon listening for this hotkey and exit")
	f.BoolVarP(&opts.persistent, "persistent", "p", false, "Keep the daemon running after each capture")
	f.IntVarP(&opts.sleepMs, "sleep", "s", int(config.DefaultPollInterval/time.Millisecond), "Daemon key poll interval in milliseconds")
	f.BoolVar(&opts.tray, "tray", false, "Show a tray icon for the daemon")
	f.BoolVar(&opts.inProcess, "in-process", false, "Let the daemon run captures in its own process")

	f.StringVar(&opts.envPath, "env", "", "Path to a .env file (highest precedence)")

	return cmd
}

// captureRequest collects the command line for validation.
func captureRequest(cmd *cobra.Command, opts mainOptions) (config.CaptureRequest, error) {
	changed := cmd.Flags().Changed
	req := config.CaptureRequest{
		MonitorList:     opts.monitorList,
		OutputDir:       opts.outputDir,
		ImageFormat:     opts.format,
		Filename:        opts.filename,
		ScaleSet:        changed("scale"),
		Scale:           opts.scale,
		Delay:           time.Duration(opts.delayMs) * time.Millisecond,
		DaemonHotkeySet: changed("daemon-hotkey"),
		DaemonHotkey:    opts.daemonHotkey,
		Persistent:      opts.persistent,
	}
	if opts.delayMs < 0 {
		return req, errors.New("delay must not be negative")
	}
	if changed("region") {
		r, err := config.ParseRegion(opts.region)
		if err != nil {
			return req, err
		}
		req.Region = &r
	}
	return req, nil
}

func runCapture(cmd *cobra.Command, opts mainOptions, d deps) error {
	req, err := captureRequest(cmd, opts)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  config.LoadOptions{EnvPath: opts.envPath},
		LogName:      "cleave",
		SetupLogging: d.setupLog,
	})
	if err != nil {
		return err
	}

	switch {
	case req.MonitorList:
		return listMonitors(d)
	case req.DaemonHotkeySet:
		return startDaemon(cfg, opts, d)
	}

	sessOpts, err := sessionOptions(cmd, opts, req, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := d.execute(ctx, sessOpts)
	if errors.Is(err, session.ErrSelectionCancelled) {
		log.Printf("Selection cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	if res.Path != "" {
		fmt.Fprintln(d.stdout, res.Path)
	}
	if res.Copied && d.holdClipboard != nil {
		d.holdClipboard(ctx, cfg.ClipboardHold)
	}
	return nil
}

func listMonitors(d deps) error {
	monitors, err := d.monitors()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}
	for _, m := range monitors {
		fmt.Fprintln(d.stdout, m)
	}
	return nil
}

// daemonArgs builds the cleave-daemon command line for h.
func daemonArgs(h hotkey.HotKey, opts mainOptions) []string {
	args := []string{"--hotkey", h.String(), "--sleep", strconv.Itoa(opts.sleepMs)}
	if opts.persistent {
		args = append(args, "--persistent")
	}
	if opts.tray {
		args = append(args, "--tray")
	}
	if opts.inProcess {
		args = append(args, "--in-process")
	}
	if opts.envPath != "" {
		args = append(args, "--env", opts.envPath)
	}
	return args
}

func startDaemon(cfg *config.Config, opts mainOptions, d deps) error {
	h, err := hotkey.Parse(opts.daemonHotkey)
	if err != nil {
		return err
	}
	if opts.sleepMs <= 0 {
		return errors.New("sleep must be greater than 0")
	}

	name := cfg.DaemonExecutable
	if err := d.spawner.Spawn(name, daemonArgs(h, opts)); err != nil {
		return process.Describe(name, err)
	}
	fmt.Fprintf(d.stdout, "Daemon started, press %s to capture the screen\n", h)
	return nil
}

// sessionOptions applies the command line over the configuration and
// builds the capture session from the result.
func sessionOptions(cmd *cobra.Command, opts mainOptions, req config.CaptureRequest, cfg *config.Config) (session.Options, error) {
	merged := *cfg
	f := cmd.Flags()
	if f.Changed("output-dir") {
		merged.OutputDir = opts.outputDir
	}
	if f.Changed("format") {
		merged.ImageFormat = opts.format
	}
	if f.Changed("filter") {
		merged.Filter = opts.filter
	}
	if f.Changed("mode") {
		merged.SelectionMode = opts.mode
	}
	if f.Changed("filename") {
		merged.Filename = strings.TrimSpace(opts.filename)
	}
	if req.ScaleSet {
		merged.Scale = req.Scale
	}
	if f.Changed("delay") {
		merged.Delay = req.Delay
	}
	switch {
	case opts.allMonitors:
		merged.Monitor = screenshot.AllMonitors
	case f.Changed("monitor"):
		merged.Monitor = opts.monitor
	}

	sessOpts, err := session.FromConfig(&merged)
	if err != nil {
		return session.Options{}, err
	}
	if req.Region != nil {
		sessOpts.Region = &selection.Rect{X: req.Region.X, Y: req.Region.Y, W: req.Region.W, H: req.Region.H}
	}
	return sessOpts, nil
}

// normalizeLegacyArgs rewrites single-dash long flags (-output-dir) to the
// double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		name := strings.TrimPrefix(arg, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		if legacyFlags[name] {
			normalized[i] = "-" + arg
		}
	}

	return normalized
}

var legacyFlags = map[string]bool{
	"output-dir": true, "format": true, "mode": true, "monitor": true,
	"all-monitors": true, "region": true, "filename": true, "delay": true,
	"monitor-list": true, "scale": true, "filter": true, "daemon-hotkey": true,
	"persistent": true, "sleep": true, "tray": true, "in-process": true, "env": true,
}
