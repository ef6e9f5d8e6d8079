package bootstrap

import (
	"errors"
	"fmt"

	"ConnKeeper/internal/cli/repo"
	reposqlite "ConnKeeper/internal/cli/repo/sqlite"
	"ConnKeeper/internal/config"
)

// OpenCatalogRepo открывает локальный каталог профиля из cfg,
// выполняет миграции и возвращает (repo, cleanup, error).
// cleanup необходимо вызвать после окончания работы с репозиторием, чтобы закрыть соединение с БД.
func OpenCatalogRepo(cfg *config.Config) (repo.CatalogRepository, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("nil config")
	}
	r, _, err := reposqlite.OpenForProfile(cfg.ClientDBPath, cfg.Profile)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("migrate catalog db: %w", err)
	}
	cleanup := func() error { return r.Close() }
	return r, cleanup, nil
}
