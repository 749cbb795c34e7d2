package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cleave/src/config"
	"cleave/src/daemon"
	"cleave/src/hotkey"
	"cleave/src/keycode"
	"cleave/src/process"
	"cleave/src/singleinstance"
)

type fakeSpawner struct {
	mu    sync.Mutex
	calls [][]string
	name  string
	err   error
}

func (f *fakeSpawner) Spawn(name string, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
	f.calls = append(f.calls, args)
	return f.err
}

type fakeConn struct {
	req  singleinstance.Request
	resp string
}

func (c *fakeConn) Request() singleinstance.Request { return c.req }
func (c *fakeConn) RespondSuccess(msg string) error { c.resp = "ok:" + msg; return nil }
func (c *fakeConn) RespondError(msg string) error   { c.resp = "err:" + msg; return nil }
func (c *fakeConn) Close() error                    { return nil }

type fakeServer struct {
	conns    chan singleinstance.Conn
	startErr error
	closed   bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{conns: make(chan singleinstance.Conn, 4)}
}

func (s *fakeServer) Start(ctx context.Context) error { return s.startErr }
func (s *fakeServer) Port() int                       { return 0 }
func (s *fakeServer) Close() error                    { s.closed = true; return nil }
func (s *fakeServer) Next(ctx context.Context) (singleinstance.Conn, error) {
	select {
	case c := <-s.conns:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeClient struct {
	delegated bool
	msg       string
	err       error
	kind      singleinstance.Kind
}

func (c *fakeClient) Send(ctx context.Context, kind singleinstance.Kind) (bool, string, error) {
	c.kind = kind
	return c.delegated, c.msg, c.err
}

func press(keys ...keycode.Key) <-chan hotkey.KeyAction {
	ch := make(chan hotkey.KeyAction, len(keys))
	for _, k := range keys {
		ch <- hotkey.KeyAction{Key: k, Pressed: true}
	}
	return ch
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"HOTKEY", "POLL_INTERVAL_MS", "PERSISTENT", "EXTENDED_KEYS", "TRIGGER_BACKEND",
		"HANDOFF", "CAPTURE_EXECUTABLE", "ENABLE_TRAY", "SINGLEINSTANCE_PORT_START", "SINGLEINSTANCE_PORT_END"} {
		t.Setenv(k, "")
	}
	return filepath.Join(t.TempDir(), "missing.env")
}

func testDeps(out *bytes.Buffer, sp process.Spawner, server singleinstance.Server, edges <-chan hotkey.KeyAction) deps {
	return deps{
		stdout:    out,
		spawner:   sp,
		newClient: func(singleinstance.PortRange) singleinstance.Client { return &fakeClient{} },
		newServer: func(singleinstance.PortRange) singleinstance.Server { return server },
		detect:    func(context.Context, singleinstance.PortRange) (int, bool) { return 0, false },
		listen: func(context.Context, settings) (<-chan hotkey.KeyAction, error) {
			return edges, nil
		},
		setupLog: func(bool, string) {},
		runSession: func(context.Context, *config.Config) error {
			return errors.New("unexpected in-process session")
		},
	}
}

func withTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestOneShotSpawnsCaptureWithForwardedArgs(t *testing.T) {
	env := isolateEnv(t)
	var out bytes.Buffer
	sp := &fakeSpawner{}
	server := newFakeServer()
	d := testDeps(&out, sp, server, press(keycode.ShiftLeft, keycode.KeyX))

	args := []string{"cleave-daemon", "--env", env, "--hotkey", "Shift+X", "--sleep", "1", "--", "--output-dir", "/tmp/shots"}
	if err := runWithArgs(withTimeout(t), args, d); err != nil {
		t.Fatalf("runWithArgs: %v", err)
	}
	if sp.name != "cleave" || len(sp.calls) != 1 {
		t.Fatalf("spawn calls = %v (%q)", sp.calls, sp.name)
	}
	if got := strings.Join(sp.calls[0], " "); got != "--output-dir /tmp/shots" {
		t.Errorf("forwarded args = %q", got)
	}
	if out.String() != "Listening for shift+keyx\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if !server.closed {
		t.Error("resident server not closed")
	}
}

func TestSpawnNotFoundIsFatal(t *testing.T) {
	env := isolateEnv(t)
	sp := &fakeSpawner{err: process.ErrNotFound}
	d := testDeps(&bytes.Buffer{}, sp, newFakeServer(), press(keycode.ShiftLeft, keycode.KeyX))

	err := runWithArgs(withTimeout(t), []string{"cleave-daemon", "--env", env, "--sleep", "1", "--persistent"}, d)
	if !errors.Is(err, process.ErrNotFound) || !strings.Contains(err.Error(), "could not find cleave in PATH") {
		t.Fatalf("error = %v", err)
	}
}

func TestRefusesSecondResident(t *testing.T) {
	env := isolateEnv(t)
	d := testDeps(&bytes.Buffer{}, &fakeSpawner{}, newFakeServer(), press())
	d.detect = func(context.Context, singleinstance.PortRange) (int, bool) { return 49610, true }

	err := runWithArgs(withTimeout(t), []string{"cleave-daemon", "--env", env}, d)
	if err == nil || !strings.Contains(err.Error(), "already running on port 49610") {
		t.Fatalf("error = %v", err)
	}
}

func TestTriggerAndStop(t *testing.T) {
	env := isolateEnv(t)
	tests := []struct {
		name    string
		flag    string
		client  *fakeClient
		kind    singleinstance.Kind
		wantErr string
		wantOut string
	}{
		{"trigger delivered", "--trigger", &fakeClient{delegated: true, msg: "capture requested"}, singleinstance.Capture, "", "capture requested\n"},
		{"stop delivered", "--stop", &fakeClient{delegated: true}, singleinstance.Quit, "", ""},
		{"no resident", "--trigger", &fakeClient{}, singleinstance.Capture, "no cleave-daemon is running", ""},
		{"rejected", "--trigger", &fakeClient{delegated: true, err: errors.New("busy")}, singleinstance.Capture, "busy", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d := testDeps(&out, &fakeSpawner{}, newFakeServer(), press())
			d.newClient = func(singleinstance.PortRange) singleinstance.Client { return tt.client }

			err := runWithArgs(withTimeout(t), []string{"cleave-daemon", "--env", env, tt.flag}, d)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("error = %v, expected %q", err, tt.wantErr)
			}
			if tt.client.kind != tt.kind {
				t.Errorf("sent %v, expected %v", tt.client.kind, tt.kind)
			}
			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, expected %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestResolveSettings(t *testing.T) {
	isolateEnv(t)
	cfg := &config.Config{
		Hotkey:            "Ctrl+Alt+S",
		PollInterval:      50 * time.Millisecond,
		TriggerBackend:    config.BackendHook,
		Handoff:           config.HandoffInProcess,
		CaptureExecutable: "cleave",
	}

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, s settings)
		wantErr string
	}{
		{"config values", nil, func(t *testing.T, s settings) {
			if s.target != hotkey.NewHotKey(hotkey.Control|hotkey.Alt, keycode.KeyS) || s.interval != 50*time.Millisecond || !s.inProcess {
				t.Errorf("settings = %+v", s)
			}
			if s.ports != singleinstance.DefaultPortRange() {
				t.Errorf("ports = %+v", s.ports)
			}
		}, ""},
		{"flags win", []string{"--hotkey", "Super+F2", "--sleep", "10", "--backend", "Registered", "--in-process=false"}, func(t *testing.T, s settings) {
			if s.target != hotkey.NewHotKey(hotkey.Super, keycode.F2) || s.interval != 10*time.Millisecond {
				t.Errorf("settings = %+v", s)
			}
			if s.backend != config.BackendRegistered || s.inProcess {
				t.Errorf("backend/in-process = %s/%v", s.backend, s.inProcess)
			}
		}, ""},
		{"tray forces spawn", []string{"--tray"}, func(t *testing.T, s settings) {
			if !s.tray || s.inProcess {
				t.Errorf("tray/in-process = %v/%v", s.tray, s.inProcess)
			}
		}, ""},
		{"extended key allowed", []string{"--hotkey", "PrintScreen", "--extended-keys"}, func(t *testing.T, s settings) {
			if s.target.Key != keycode.PrintScreen {
				t.Errorf("key = %v", s.target.Key)
			}
		}, ""},
		{"extended key rejected", []string{"--hotkey", "Ctrl+PrintScreen"}, nil, "extended key"},
		{"bad hotkey", []string{"--hotkey", "Ctrl+Nope"}, nil, "unsupported key"},
		{"empty hotkey", []string{"--hotkey", " "}, nil, "empty"},
		{"bad sleep", []string{"--sleep", "0"}, nil, "sleep"},
		{"bad backend", []string{"--backend", "poll"}, nil, "unknown backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &daemonOptions{}
			cmd := newRootCmd(opts, deps{})
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			s, err := resolveSettings(cmd, *opts, nil, cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, expected %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveSettings: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestServeResident(t *testing.T) {
	ctx, cancel := context.WithCancel(withTimeout(t))
	defer cancel()

	handoffs := 0
	dm := daemon.New(daemon.Config{Target: hotkey.NewHotKey(hotkey.Shift, keycode.KeyX), Persistent: true},
		make(chan hotkey.KeyAction), func() error { handoffs++; return nil })

	server := newFakeServer()
	capture := &fakeConn{req: singleinstance.Request{Kind: singleinstance.Capture}}
	quit := &fakeConn{req: singleinstance.Request{Kind: singleinstance.Quit}}
	server.conns <- capture
	server.conns <- quit

	done := make(chan struct{})
	go func() {
		serveResident(ctx, server, dm, cancel)
		close(done)
	}()
	<-done

	if capture.resp != "ok:capture requested" || quit.resp != "ok:stopping" {
		t.Errorf("responses = %q, %q", capture.resp, quit.resp)
	}
	if ctx.Err() == nil {
		t.Error("quit request should cancel the daemon")
	}
	if _, err := dm.Tick(); err != nil {
		t.Fatal(err)
	}
	if handoffs != 1 {
		t.Errorf("handoffs = %d, expected the triggered capture", handoffs)
	}
}

func TestInProcessHandoffRunsSession(t *testing.T) {
	env := isolateEnv(t)
	sp := &fakeSpawner{}
	d := testDeps(&bytes.Buffer{}, sp, newFakeServer(), press(keycode.ShiftLeft, keycode.KeyX))
	sessions := 0
	d.runSession = func(context.Context, *config.Config) error {
		sessions++
		return nil
	}

	if err := runWithArgs(withTimeout(t), []string{"cleave-daemon", "--env", env, "--sleep", "1", "--in-process"}, d); err != nil {
		t.Fatalf("runWithArgs: %v", err)
	}
	if sessions != 1 {
		t.Errorf("sessions = %d, expected 1", sessions)
	}
	if len(sp.calls) != 0 {
		t.Errorf("in-process hand-off must not spawn, got %v", sp.calls)
	}
}
