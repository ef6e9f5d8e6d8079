package commands

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile/connfiletest"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/каталог/отметки push) создавались в temp.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	// интерактивного ввода в тестах нет
	old := passphraseRequestor
	passphraseRequestor = func(context.Context) (string, bool, error) { return "", false, nil }
	t.Cleanup(func() { passphraseRequestor = old })

	return &config.Config{
		ClientDBPath: filepath.Join(dir, "profiles"),
		TokenFile:    filepath.Join(dir, "token"),
		Profile:      "default",
		OutputFormat: config.FormatText,
		AuthSecret:   "test-secret",
	}
}

// writeSample пишет тестовый документ во временный файл.
func writeSample(t *testing.T, passphrase string) string {
	t.Helper()
	data, err := connfiletest.SampleDocument(passphrase)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	p := filepath.Join(t.TempDir(), "confCons.xml")
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return p
}
