package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
)

// ErrNoDocument — не задан ни аргумент, ни CONNECTIONS_FILE.
var ErrNoDocument = errors.New("no connections document: pass a file or set CONNECTIONS_FILE")

// ResolvePath выбирает путь документа: аргумент команды, иначе cfg.ConnectionsFile.
func ResolvePath(cfg *config.Config, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if cfg != nil && cfg.ConnectionsFile != "" {
		return cfg.ConnectionsFile, nil
	}
	return "", ErrNoDocument
}

// DecodeFile читает и декодирует документ. Пароль берётся из
// cfg.Passphrase; без него requestor спрашивается, если не подошёл пароль по умолчанию.
func DecodeFile(ctx context.Context, cfg *config.Config, path string, requestor connfile.PassphraseRequestor, logger *zap.SugaredLogger) ([]byte, *connfile.Document, error) {
	if cfg == nil {
		return nil, nil, errors.New("nil config")
	}
	p, err := ResolvePath(cfg, path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", p, err)
	}
	d := connfile.NewDeserializer(connfile.Options{
		Passphrase: cfg.Passphrase,
		Requestor:  requestor,
		Settings:   connfile.Settings{LegacyFullFileDecrypt: cfg.LegacyFullFileDecrypt},
		Logger:     logger,
	})
	doc, err := d.Deserialize(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	return data, doc, nil
}
