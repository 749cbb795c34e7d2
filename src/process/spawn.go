// Package process starts the helper executables cleave hands off to.
package process

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os/exec"
	"strings"
)

// ErrNotFound is returned when the executable cannot be located.
var ErrNotFound = errors.New("executable not found")

// SpawnError reports a failure to create the child process for any reason
// other than a missing executable.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Spawner starts an executable with arguments. Spawn returns once the
// process has been created, it does not wait for it to finish.
type Spawner interface {
	Spawn(name string, args []string) error
}

// ExecSpawner starts processes with os/exec.
type ExecSpawner struct {
	// LookPath resolves name to a path. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Spawn implements Spawner. A missing executable yields an error wrapping
// ErrNotFound, other failures a *SpawnError.
func (s ExecSpawner) Spawn(name string, args []string) error {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(name)
	if err != nil {
		return classify(name, err)
	}

	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return classify(name, err)
	}
	log.Printf("Spawned %s (pid %d) with args %v", path, cmd.Process.Pid, args)

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("%s (pid %d) exited: %v", name, cmd.Process.Pid, err)
		}
	}()
	return nil
}

// classify maps a lookup or start failure to ErrNotFound or *SpawnError.
// Names with a path separator are stat'ed rather than searched, so a missing
// file surfaces as fs.ErrNotExist.
func classify(name string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}
	return &SpawnError{Name: name, Err: err}
}

// Describe rewords a Spawn error for the user. Both forms wrap err.
func Describe(name string, err error) error {
	if errors.Is(err, ErrNotFound) {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("could not find %s: %w", name, err)
		}
		return fmt.Errorf("could not find %s in PATH: %w", name, err)
	}
	return fmt.Errorf("could not start %s: %w", name, err)
}
