package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB   = 10
	maxArchives = 3
	maxAgeDays  = 14
)

// Setup routes the standard logger to a rotating file (10 MB, 3 archives)
// when enabled. When disabled, logs are discarded to keep stdout and stderr
// clean for the user.
func Setup(enableFileLogging bool, name string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return
	}
	path := LogPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxArchives,
		MaxAge:     maxAgeDays,
	})
}

// LogPath returns the log file location for name, under the user cache
// directory when one is available.
func LogPath(name string) string {
	file := name + ".log"
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", file)
	}
	return filepath.Join(dir, "cleave", file)
}

// Sanitize makes user supplied text safe to embed in a single log line.
func Sanitize(text string) string {
	const maxLogLength = 100
	if len(text) > maxLogLength {
		text = text[:maxLogLength] + "..."
	}

	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteString("\\n")
		case r == '\t':
			b.WriteString("\\t")
		case r < 32 || r == 127:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
