package service

import (
	"errors"
	"fmt"
	"time"

	"ConnKeeper/internal/cli/crypto"
	"ConnKeeper/internal/cli/model"
	view "ConnKeeper/internal/cli/model/view"
	"ConnKeeper/internal/cli/repo"
	"ConnKeeper/internal/codec"
	"ConnKeeper/internal/connfile"
	cmodel "ConnKeeper/internal/model"
)

// ErrPayloadDecrypt — payload записи не расшифровывается ключом профиля.
var ErrPayloadDecrypt = errors.New("cannot decrypt catalog entry")

// CatalogService описывает юзкейс-уровень работы с локальным каталогом для CLI.
type CatalogService interface {
	// Import сохраняет действующие записи всех подключений документа.
	Import(path string, data []byte, doc *connfile.Document) (ImportResult, error)

	// List возвращает записи каталога, отсортированные по пути.
	List() ([]model.Entry, error)

	// Get расшифровывает запись по ID, ID узла или пути. Секреты
	// возвращаются только при reveal.
	Get(ref string, reveal bool) (*view.DecryptedEntry, error)

	// Sources возвращает импортированные документы.
	Sources() ([]model.Source, error)
}

// ImportResult — итог локального импорта.
type ImportResult struct {
	SourceID      string `json:"source_id" yaml:"source_id"`
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Created       int    `json:"created" yaml:"created"`
	Updated       int    `json:"updated" yaml:"updated"`
}

// CatalogServiceLocal — локальная реализация CatalogService.
// key — ключ профиля (см. crypto.LoadOrCreateKey).
type CatalogServiceLocal struct {
	repo repo.CatalogRepository
	key  []byte
}

// NewCatalogServiceLocal создаёт сервис каталога поверх репозитория и ключа профиля.
func NewCatalogServiceLocal(r repo.CatalogRepository, key []byte) CatalogService {
	return &CatalogServiceLocal{repo: r, key: key}
}

// Import: payload каждой записи — CBOR действующей записи подключения,
// зашифрованный AES-GCM с ID узла в качестве associated data.
func (s *CatalogServiceLocal) Import(path string, data []byte, doc *connfile.Document) (ImportResult, error) {
	if doc == nil {
		return ImportResult{}, errors.New("nil document")
	}
	res := ImportResult{
		SourceID:      codec.SourceDigest(data).String(),
		SchemaVersion: doc.Version.String(),
	}
	if err := s.repo.SaveSource(model.Source{
		ID:            res.SourceID,
		Path:          path,
		Name:          doc.Name,
		SchemaVersion: res.SchemaVersion,
		ImportedAt:    time.Now().Unix(),
	}); err != nil {
		return ImportResult{}, fmt.Errorf("save source: %w", err)
	}

	for _, n := range doc.Connections() {
		info := n.EffectiveInfo()
		plain, err := codec.Marshal(info)
		if err != nil {
			return res, fmt.Errorf("encode %s: %w", n.Path(), err)
		}
		c, nonce, err := crypto.Encrypt(plain, s.key, []byte(n.ID))
		if err != nil {
			return res, fmt.Errorf("encrypt %s: %w", n.Path(), err)
		}
		created, err := s.repo.UpsertEntry(model.Entry{
			NodeID:        n.ID,
			SourceID:      res.SourceID,
			Path:          n.Path(),
			Name:          info.Name,
			Hostname:      info.Hostname,
			Protocol:      info.Protocol.String(),
			PayloadCipher: c,
			PayloadNonce:  nonce,
		})
		if err != nil {
			return res, fmt.Errorf("save %s: %w", n.Path(), err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// List entries.
func (s *CatalogServiceLocal) List() ([]model.Entry, error) {
	return s.repo.ListEntries()
}

// Sources lists imported documents.
func (s *CatalogServiceLocal) Sources() ([]model.Source, error) {
	return s.repo.ListSources()
}

// Get: читает сырую запись и расшифровывает payload.
func (s *CatalogServiceLocal) Get(ref string, reveal bool) (*view.DecryptedEntry, error) {
	e, err := s.repo.GetEntry(ref)
	if err != nil {
		return nil, err
	}
	dto := &view.DecryptedEntry{
		ID:        e.ID,
		NodeID:    e.NodeID,
		Path:      e.Path,
		Source:    e.SourceID,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
	plain, err := crypto.Decrypt(e.PayloadCipher, e.PayloadNonce, s.key, []byte(e.NodeID))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrPayloadDecrypt, e.Path, err)
	}
	if err := codec.Unmarshal(plain, &dto.Info); err != nil {
		return nil, fmt.Errorf("decode %q: %w", e.Path, err)
	}
	for _, f := range cmodel.SecretFields() {
		v, _ := dto.Info.Get(f).(string)
		if reveal && v != "" {
			if dto.Secrets == nil {
				dto.Secrets = map[string]string{}
			}
			dto.Secrets[f.String()] = v
		}
		_ = dto.Info.Set(f, "")
	}
	return dto, nil
}
