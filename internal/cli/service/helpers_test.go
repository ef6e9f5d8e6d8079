package service

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ConnKeeper/internal/cli/model"
	crepo "ConnKeeper/internal/cli/repo"
	fsrepo "ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/connfile/connfiletest"
)

// --- Мок репозитория каталога ---
type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) SaveSource(src model.Source) error {
	return m.Called(src).Error(0)
}
func (m *mockCatalogRepo) UpsertEntry(e model.Entry) (bool, error) {
	args := m.Called(e)
	return args.Bool(0), args.Error(1)
}
func (m *mockCatalogRepo) ListEntries() ([]model.Entry, error) {
	args := m.Called()
	if v, ok := args.Get(0).([]model.Entry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCatalogRepo) GetEntry(ref string) (*model.Entry, error) {
	args := m.Called(ref)
	if v, ok := args.Get(0).(*model.Entry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCatalogRepo) ListSources() ([]model.Source, error) {
	args := m.Called()
	if v, ok := args.Get(0).([]model.Source); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ crepo.CatalogRepository = (*mockCatalogRepo)(nil)

// --- FS helpers ---
func withTempUserConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// os.UserConfigDir() зависит от ОС. Для Windows нужно APPDATA, для Unix — XDG_CONFIG_HOME.
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// tokenStore сохраняет токен во временный файл.
func tokenStore(t *testing.T, token string) fsrepo.TokenFSStore {
	t.Helper()
	s := fsrepo.TokenFSStore{Path: filepath.Join(t.TempDir(), "auth_token")}
	if token != "" {
		require.NoError(t, s.Save(token))
	}
	return s
}

// sampleDoc кодирует и декодирует тестовое дерево.
func sampleDoc(t *testing.T, passphrase string) ([]byte, *connfile.Document) {
	t.Helper()
	data, err := connfiletest.SampleDocument(passphrase)
	require.NoError(t, err)
	doc, err := connfile.NewDeserializer(connfile.Options{Passphrase: passphrase}).Deserialize(context.Background(), data)
	require.NoError(t, err)
	return data, doc
}

func writeSample(t *testing.T, passphrase string) string {
	t.Helper()
	data, err := connfiletest.SampleDocument(passphrase)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "confCons.xml")
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}
