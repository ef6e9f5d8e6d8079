package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ConnKeeper/internal/cli/auth"
	"ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/middleware"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	// зарегистрированы tree/show/import/list/get/... из init()
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "ConnKeeper CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"tree", "show", "import", "list", "get", "sources", "token", "push", "status"} {
		if _, ok := Get(name); !ok {
			t.Fatalf("command %q must be registered", name)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"help", "tree"}) })
	if code != 0 || !strings.Contains(out, "tree [--reveal]") {
		t.Fatalf("expected tree usage, got %d %q", code, out)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"}) })
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected")
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if code != 1 || !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %d %s", code, out)
	}
}

func TestDispatcher_DecodeErrorHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"hauth", fmt.Errorf("open: %w", connfile.ErrAuthenticationFailed), "hint: the document is protected"},
		{"hterm", &connfile.DecodeError{Kind: connfile.ErrAuthenticationFailed, Cause: auth.ErrNoTerminal}, "hint: no terminal"},
		{"hver", &connfile.DecodeError{Kind: connfile.ErrUnsupportedVersion, Version: 290}, "up to schema 2.8"},
		{"hnode", &connfile.DecodeError{Kind: connfile.ErrMalformedDocument, Node: "n-db", Attribute: "Port"}, `see node "n-db"`},
	}
	for _, tt := range tests {
		err := tt.err
		RegisterCmd(fakeCmd{name: tt.name, usage: tt.name, run: func(_ context.Context, _ *config.Config, _ []string) error { return err }})
		var code int
		out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{tt.name}) })
		if code != ExitError || !strings.Contains(out, tt.want) {
			t.Fatalf("%s: expected exit 1 and %q, got %d %q", tt.name, tt.want, code, out)
		}
	}

	// обычная ошибка без подсказки
	RegisterCmd(fakeCmd{name: "plain", usage: "plain", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }})
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"plain"}) })
	if strings.Contains(out, "hint:") {
		t.Fatalf("unexpected hint: %q", out)
	}
}

func TestDispatcher_InterruptedAndWrappedUsage(t *testing.T) {
	RegisterCmd(fakeCmd{name: "slow", usage: "slow", run: func(ctx context.Context, _ *config.Config, _ []string) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(ctx, &config.Config{}, []string{"slow"}) })
	if code != ExitError || !strings.Contains(out, "slow interrupted") {
		t.Fatalf("interrupt expected, got %d %q", code, out)
	}

	RegisterCmd(fakeCmd{name: "wu", usage: "wu <file>", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return fmt.Errorf("parse: %w", ErrUsage)
	}})
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"wu"}) })
	if code != ExitUsage || !strings.Contains(out, "Usage: wu <file>") {
		t.Fatalf("wrapped usage expected, got %d %q", code, out)
	}

	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"help", "import"}) })
	if code != ExitOK || !strings.Contains(out, "Usage: import [<file>]") {
		t.Fatalf("command help expected, got %d %q", code, out)
	}
}

func TestStatus_Run_Success_Errors_and_Usage(t *testing.T) {
	cfg := withTempConfig(t)
	if err := (fs.TokenFSStore{Path: cfg.TokenFile}).Save("tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	_ = fs.SaveLastPushAt(cfg.Profile, "2026-01-02T03:04:05Z")

	// успех: 200 и корректный JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("token must be sent")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","authenticated":true,"subject":"alice"}`))
	}))
	defer ts.Close()
	cfg.ServerURL = ts.URL
	out := withStdoutCapture(t, func() {
		if err := (statusCmd{}).Run(context.Background(), cfg, []string{}); err != nil {
			t.Fatalf("status ok failed: %v", err)
		}
	})
	if !strings.Contains(out, "Authorized as: alice") || !strings.Contains(out, "Last push: 2026-01-02T03:04:05Z") {
		t.Fatalf("unexpected status output: %q", out)
	}

	// non-200
	ts500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts500.Close()
	if err := (statusCmd{}).Run(context.Background(), &config.Config{ServerURL: ts500.URL}, []string{}); err == nil {
		t.Fatalf("status should fail on non-200")
	}

	// битый JSON
	tsBad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{"))
	}))
	defer tsBad.Close()
	if err := (statusCmd{}).Run(context.Background(), &config.Config{ServerURL: tsBad.URL}, []string{}); err == nil {
		t.Fatalf("status must fail on bad json")
	}

	// ErrUsage при лишних аргументах
	if err := (statusCmd{}).Run(context.Background(), cfg, []string{"extra"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestToken_Run(t *testing.T) {
	cfg := withTempConfig(t)
	out := withStdoutCapture(t, func() {
		if err := (tokenCmd{}).Run(context.Background(), cfg, []string{"--ttl", "1h", "alice"}); err != nil {
			t.Fatalf("token: %v", err)
		}
	})
	if !strings.Contains(out, `"alice"`) {
		t.Fatalf("unexpected output: %q", out)
	}
	tok, err := (fs.TokenFSStore{Path: cfg.TokenFile}).Load()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if sub, err := middleware.ParseToken(tok, cfg.AuthSecret); err != nil || sub != "alice" {
		t.Fatalf("token must verify with AUTH_SECRET: %q %v", sub, err)
	}

	for _, args := range [][]string{{}, {"a", "b"}, {"--ttl", "bad", "a"}} {
		if err := (tokenCmd{}).Run(context.Background(), cfg, args); err != ErrUsage {
			t.Fatalf("args %v: expected ErrUsage, got %v", args, err)
		}
	}
}
