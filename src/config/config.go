package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvPathVar names an alternative .env file used when none sits next to
	// the executable.
	EnvPathVar = "CLEAVE_ENV"

	DefaultHotkey            = "Shift+X"
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultCaptureExecutable = "cleave"
	DefaultDaemonExecutable  = "cleave-daemon"
	DefaultClipboardHold     = 30 * time.Second

	BackendHook       = "hook"
	BackendRegistered = "registered"

	HandoffSpawn     = "spawn"
	HandoffInProcess = "inprocess"
)

// LoadOptions overrides how configuration is located.
type LoadOptions struct {
	// EnvPath, when set, is loaded instead of the discovered .env file.
	EnvPath string
}

// Config holds the settings shared by cleave and cleave-daemon.
type Config struct {
	Hotkey       string
	PollInterval time.Duration
	Persistent   bool
	ExtendedKeys bool

	TriggerBackend    string
	Handoff           string
	CaptureExecutable string
	DaemonExecutable  string
	EnableTray        bool

	OutputDir     string
	ImageFormat   string
	Filename      string
	Scale         float64
	Filter        string
	SelectionMode string
	Monitor       int
	Delay         time.Duration
	// ClipboardHold bounds how long cleave keeps serving a copied image on
	// platforms where the clipboard dies with its owner.
	ClipboardHold time.Duration

	EnableFileLogging bool

	// PortStart and PortEnd bound the loopback ports used to find the
	// resident daemon. Zero means the built-in default.
	PortStart int
	PortEnd   int
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) the explicit path from opts
	// 2) .env in the executable directory
	// 3) the file named by CLEAVE_ENV
	// Process environment values are never overwritten by the file.
	envPath := strings.TrimSpace(opts.EnvPath)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Failed to load %s: %v", envPath, err)
		}
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		PollInterval:      getEnvMillis("POLL_INTERVAL_MS", DefaultPollInterval),
		Persistent:        getEnvBool("PERSISTENT"),
		ExtendedKeys:      getEnvBool("EXTENDED_KEYS"),
		TriggerBackend:    resolveChoice("TRIGGER_BACKEND", BackendHook, BackendRegistered),
		Handoff:           resolveChoice("HANDOFF", HandoffSpawn, HandoffInProcess),
		CaptureExecutable: getEnvWithDefault("CAPTURE_EXECUTABLE", DefaultCaptureExecutable),
		DaemonExecutable:  getEnvWithDefault("DAEMON_EXECUTABLE", DefaultDaemonExecutable),
		EnableTray:        getEnvBool("ENABLE_TRAY"),
		OutputDir:         strings.TrimSpace(os.Getenv("OUTPUT_DIR")),
		ImageFormat:       strings.TrimSpace(os.Getenv("IMAGE_FORMAT")),
		Filename:          strings.TrimSpace(os.Getenv("FILENAME")),
		Scale:             getEnvFloat("SCALE", 0),
		Filter:            strings.TrimSpace(os.Getenv("FILTER")),
		SelectionMode:     getEnvWithDefault("SELECTION_MODE", "move"),
		Monitor:           getEnvInt("MONITOR", -1),
		Delay:             getEnvMillis("DELAY_MS", 0),
		ClipboardHold:     getEnvMillis("CLIPBOARD_HOLD_MS", DefaultClipboardHold),
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING"),
		PortStart:         getEnvInt("SINGLEINSTANCE_PORT_START", 0),
		PortEnd:           getEnvInt("SINGLEINSTANCE_PORT_END", 0),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func getEnvInt(key string, defaultValue int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Ignoring invalid %s=%q", key, v)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Ignoring invalid %s=%q", key, v)
	}
	return defaultValue
}

// getEnvMillis reads a non-negative millisecond count.
func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Millisecond
	}
	return defaultValue
}

// resolveChoice returns the lower-cased value of key when it is one of
// choices, else the first choice.
func resolveChoice(key string, choices ...string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	for _, c := range choices {
		if v == c {
			return c
		}
	}
	if v != "" {
		log.Printf("Ignoring unknown %s=%q, using %s", key, v, choices[0])
	}
	return choices[0]
}
