package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"ConnKeeper/internal/cli/repo/fs"
	reposqlite "ConnKeeper/internal/cli/repo/sqlite"
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/middleware"
)

func TestImportListGet_Flow(t *testing.T) {
	cfg := withTempConfig(t)
	path := writeSample(t, "")

	out := withStdoutCapture(t, func() {
		if err := (importCmd{}).Run(context.Background(), cfg, []string{path}); err != nil {
			t.Fatalf("import: %v", err)
		}
	})
	if !strings.Contains(out, "created: 2") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (listCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(out, "Prod/web") || !strings.Contains(out, "Всего: 2") {
		t.Fatalf("unexpected list output: %q", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (getCmd{}).Run(context.Background(), cfg, []string{"Prod/web"}); err != nil {
			t.Fatalf("get: %v", err)
		}
	})
	if !strings.Contains(out, "n-web") || strings.Contains(out, "prod-pw") {
		t.Fatalf("unexpected get output: %q", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (getCmd{}).Run(context.Background(), cfg, []string{"--reveal", "n-web"}); err != nil {
			t.Fatalf("get reveal: %v", err)
		}
	})
	if !strings.Contains(out, "Password:") || !strings.Contains(out, "prod-pw") {
		t.Fatalf("--reveal must print secrets: %q", out)
	}

	// повторный импорт обновляет записи
	out = withStdoutCapture(t, func() {
		if err := (importCmd{}).Run(context.Background(), cfg, []string{path}); err != nil {
			t.Fatalf("re-import: %v", err)
		}
	})
	if !strings.Contains(out, "updated: 2") {
		t.Fatalf("unexpected re-import output: %q", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (sourcesCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("sources: %v", err)
		}
	})
	if !strings.Contains(out, path) || !strings.Contains(out, "schema=2.6") {
		t.Fatalf("unexpected sources output: %q", out)
	}
}

func TestList_JSON_Empty_And_Get_NotFound(t *testing.T) {
	cfg := withTempConfig(t)
	cfg.OutputFormat = config.FormatJSON
	out := withStdoutCapture(t, func() {
		if err := (listCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	var list []entryView
	if err := json.Unmarshal([]byte(out), &list); err != nil || len(list) != 0 {
		t.Fatalf("expected empty json list, got %q (%v)", out, err)
	}

	if err := (getCmd{}).Run(context.Background(), cfg, []string{"nope"}); !errors.Is(err, reposqlite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := (getCmd{}).Run(context.Background(), cfg, nil); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if err := (listCmd{}).Run(context.Background(), cfg, []string{"x"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if err := (importCmd{}).Run(context.Background(), cfg, []string{"a", "b"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestCatalog_InvalidProfile(t *testing.T) {
	cfg := withTempConfig(t)
	cfg.Profile = "../evil"
	if err := (listCmd{}).Run(context.Background(), cfg, nil); err == nil {
		t.Fatalf("invalid profile must fail")
	}
}

func TestPush_Run(t *testing.T) {
	cfg := withTempConfig(t)
	path := writeSample(t, "")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if sub, err := middleware.ParseToken(tok, cfg.AuthSecret); err != nil || sub != "alice" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Fatalf("gzip: %v", err)
		}
		b, _ := io.ReadAll(zr)
		if !strings.Contains(string(b), "<Connections") {
			t.Fatalf("document expected, got %q", string(b))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"source_id":"abc","schema_version":"2.6","created":true,"entries":2}`))
	}))
	defer ts.Close()
	cfg.ServerURL = ts.URL

	// без токена
	withStdoutCapture(t, func() {
		if err := (pushCmd{}).Run(context.Background(), cfg, []string{path}); err == nil {
			t.Fatalf("push without token must fail")
		}
	})

	withStdoutCapture(t, func() {
		if err := (tokenCmd{}).Run(context.Background(), cfg, []string{"alice"}); err != nil {
			t.Fatalf("token: %v", err)
		}
	})
	out := withStdoutCapture(t, func() {
		if err := (pushCmd{}).Run(context.Background(), cfg, []string{path}); err != nil {
			t.Fatalf("push: %v", err)
		}
	})
	if !strings.Contains(out, "записей: 2") {
		t.Fatalf("unexpected push output: %q", out)
	}
	if last, err := fs.LoadLastPushAt(cfg.Profile); err != nil || last == "" {
		t.Fatalf("last push time must be saved: %q %v", last, err)
	}

	if err := (pushCmd{}).Run(context.Background(), cfg, []string{"a", "b"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}
