package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"ConnKeeper/internal/cli/repo"
)

// TokenFSStore — файловое хранилище bearer-токена и отметок push для CLI.
// Пустой Path означает <UserConfigDir>/ConnKeeper/auth_token.
type TokenFSStore struct {
	Path string
}

var _ repo.TokenStore = TokenFSStore{}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "ConnKeeper")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s TokenFSStore) tokenPath() (string, error) {
	if s.Path != "" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
			return "", err
		}
		return s.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth_token"), nil
}

func lastPushAtPath(profile string) (string, error) {
	if profile == "" {
		return "", errors.New("empty profile for last_push_at")
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	// per-profile, чтобы поддерживать несколько каталогов
	return filepath.Join(dir, "last_push_at_"+profile), nil
}

// readTrimmed читает файл и обрезает завершающие переводы строки/пробелы.
func readTrimmed(p, what string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(b), " \t\r\n")
	if s == "" {
		return "", errors.New("empty " + what + " file")
	}
	return s, nil
}

// Save сохраняет auth‑токен в файл.
func (s TokenFSStore) Save(token string) error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s TokenFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "token")
}

// SaveLastPushAt сохраняет время последней отправки (RFC3339) для профиля.
func SaveLastPushAt(profile, ts string) error {
	p, err := lastPushAtPath(profile)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(ts), 0o600)
}

// LoadLastPushAt читает время последней отправки для профиля.
func LoadLastPushAt(profile string) (string, error) {
	p, err := lastPushAtPath(profile)
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "last_push_at")
}
