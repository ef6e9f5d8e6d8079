package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"ConnKeeper/internal/cli/model"
	"ConnKeeper/internal/config"
)

func TestOpenCatalogRepo_SuccessAndCleanup(t *testing.T) {
	cfg := &config.Config{ClientDBPath: t.TempDir(), Profile: "default"}
	r, done, err := OpenCatalogRepo(cfg)
	if err != nil {
		t.Fatalf("OpenCatalogRepo: %v", err)
	}
	// репозиторий должен быть рабочим — попробуем сохранить источник
	if err := r.SaveSource(model.Source{ID: "abc", Path: "/tmp/a.xml", Name: "Connections", SchemaVersion: "2.6", ImportedAt: 1}); err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ClientDBPath, "default", "catalog.sqlite")); err != nil {
		t.Fatalf("catalog file must exist: %v", err)
	}
	if err := done(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	// повторный вызов cleanup не должен паниковать
	_ = done()
}

func TestOpenCatalogRepo_InvalidProfile(t *testing.T) {
	cfg := &config.Config{ClientDBPath: t.TempDir(), Profile: "../escape"}
	if _, _, err := OpenCatalogRepo(cfg); err == nil {
		t.Fatalf("expected error for invalid profile")
	}
	if _, _, err := OpenCatalogRepo(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

// Доп.кейс: ClientDBPath указывает на обычный файл
func TestOpenCatalogRepo_FailsWhenClientDBPathIsFile(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "not_dir")
	if err := os.WriteFile(tmpFile, []byte("x"), 0o600); err != nil {
		t.Fatalf("prepare tmp file: %v", err)
	}
	cfg := &config.Config{ClientDBPath: tmpFile, Profile: "default"}
	if _, _, err := OpenCatalogRepo(cfg); err == nil {
		t.Fatalf("expected error when ClientDBPath points to file, got nil")
	}
}
