package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ConnKeeper/internal/codec"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/repo"
)

// ErrEmptyDocument — тело запроса пустое.
var ErrEmptyDocument = errors.New("empty document")

// CatalogService декодирует документы подключений и ведёт серверный каталог.
type CatalogService struct {
	entries  repo.CatalogRepository
	sources  repo.SourceRepository
	settings connfile.Settings
	logger   *zap.SugaredLogger
}

func NewCatalogService(entries repo.CatalogRepository, sources repo.SourceRepository, settings connfile.Settings, logger *zap.SugaredLogger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CatalogService{entries: entries, sources: sources, settings: settings, logger: logger}
}

// ImportResult — итог импорта одного документа.
type ImportResult struct {
	SourceID      string `json:"source_id"`
	SchemaVersion string `json:"schema_version"`
	Created       bool   `json:"created"`
	Entries       int    `json:"entries"`
}

// Decode декодирует документ. Сервер не может спросить пароль, поэтому
// без passphrase пробуется только пароль по умолчанию.
func (s *CatalogService) Decode(ctx context.Context, data []byte, passphrase string) (*connfile.Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	d := connfile.NewDeserializer(connfile.Options{
		Passphrase: passphrase,
		Settings:   s.settings,
		Logger:     s.logger,
	})
	return d.Deserialize(ctx, data)
}

// Import декодирует документ и сохраняет действующие значения каждого
// подключения в каталог владельца. Секреты в каталог не попадают.
func (s *CatalogService) Import(ctx context.Context, owner string, data []byte, passphrase string) (ImportResult, error) {
	doc, err := s.Decode(ctx, data, passphrase)
	if err != nil {
		return ImportResult{}, err
	}

	digest := codec.SourceDigest(data).String()
	created, err := s.sources.CreateIfAbsent(ctx, &model.Source{
		ID:            digest,
		Name:          doc.Name,
		SchemaVersion: doc.Version.String(),
		Size:          len(data),
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("save source: %w", err)
	}

	entries := Entries(doc, digest)
	if err := s.entries.Upsert(ctx, owner, entries); err != nil {
		return ImportResult{}, fmt.Errorf("save catalog: %w", err)
	}
	s.logger.Infow("catalog import",
		"owner", owner,
		"source_id", digest,
		"schema_version", doc.Version.String(),
		"entries", len(entries),
		"new_source", created,
	)
	return ImportResult{
		SourceID:      digest,
		SchemaVersion: doc.Version.String(),
		Created:       created,
		Entries:       len(entries),
	}, nil
}

// List возвращает каталог владельца.
func (s *CatalogService) List(ctx context.Context, owner string) ([]model.CatalogEntry, error) {
	return s.entries.List(ctx, owner)
}

// Get возвращает запись каталога по ID узла.
func (s *CatalogService) Get(ctx context.Context, owner, nodeID string) (*model.CatalogEntry, error) {
	return s.entries.GetByNodeID(ctx, owner, nodeID)
}

// Entries превращает подключения документа в записи каталога с
// действующими (разрешёнными через наследование) значениями.
func Entries(doc *connfile.Document, sourceID string) []model.CatalogEntry {
	conns := doc.Connections()
	out := make([]model.CatalogEntry, 0, len(conns))
	for _, n := range conns {
		info := n.EffectiveInfo()
		info.Password = ""
		info.RDGatewayPassword = ""
		info.VNCProxyPassword = ""
		out = append(out, model.CatalogEntry{
			NodeID:   n.ID,
			SourceID: sourceID,
			Path:     n.Path(),
			Name:     info.Name,
			Hostname: info.Hostname,
			Protocol: info.Protocol.String(),
			Port:     info.Port,
			Info:     *info,
		})
	}
	return out
}
