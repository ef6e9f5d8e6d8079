package commands

import (
	"context"
	"os"

	"ConnKeeper/internal/cli/auth"
	"ConnKeeper/internal/cli/bootstrap"
	"ConnKeeper/internal/cli/crypto"
	"ConnKeeper/internal/cli/service"
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
)

// passphraseRequestor спрашивает пароль документа; в тестах подменяется.
var passphraseRequestor connfile.PassphraseRequestor = auth.TerminalRequestor(os.Stderr)

// decode читает документ из path (или CONNECTIONS_FILE) и декодирует его.
func decode(ctx context.Context, cfg *config.Config, path string) ([]byte, *connfile.Document, error) {
	return service.DecodeFile(ctx, cfg, path, passphraseRequestor, logger)
}

// openCatalog открывает каталог профиля вместе с его ключом.
func openCatalog(cfg *config.Config) (service.CatalogService, func() error, error) {
	r, done, err := bootstrap.OpenCatalogRepo(cfg)
	if err != nil {
		return nil, nil, err
	}
	key, err := crypto.LoadOrCreateKey(cfg.ClientDBPath, cfg.Profile)
	if err != nil {
		_ = done()
		return nil, nil, err
	}
	return service.NewCatalogServiceLocal(r, key), done, nil
}
