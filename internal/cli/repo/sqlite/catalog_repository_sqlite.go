package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ConnKeeper/internal/cli/model"
	"ConnKeeper/internal/cli/repo"
)

// ErrNotFound — записи нет в каталоге.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogRepositorySQLite — репозиторий локального каталога (SQLite).
type CatalogRepositorySQLite struct {
	db      *sql.DB
	profile string
}

var _ repo.CatalogRepository = (*CatalogRepositorySQLite)(nil)

var profileRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateProfile проверяет, что имя профиля безопасно как имя каталога.
func ValidateProfile(profile string) error {
	if profile == "" {
		return errors.New("profile is required")
	}
	if !profileRe.MatchString(profile) || profile == "." || profile == ".." {
		return fmt.Errorf("invalid profile: %q (allowed: letters, digits, . _ -)", profile)
	}
	return nil
}

// ProfileDir возвращает (и создаёт) каталог профиля внутри base.
func ProfileDir(base, profile string) (string, error) {
	if err := ValidateProfile(profile); err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New("empty catalog base directory")
	}
	dir := filepath.Join(base, profile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// OpenForProfile открывает (и создаёт при необходимости) файл каталога профиля
// и возвращает репозиторий. Вторым значением возвращается путь к БД.
func OpenForProfile(base, profile string) (*CatalogRepositorySQLite, string, error) {
	dir, err := ProfileDir(base, profile)
	if err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "catalog.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &CatalogRepositorySQLite{db: db, profile: profile}, dbPath, nil
}

// Close закрывает соединение с БД.
func (r *CatalogRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
func (r *CatalogRepositorySQLite) Migrate() error {
	_, err := r.db.Exec(initialDDL())
	return err
}

// SaveSource вставляет документ или обновляет путь и время импорта.
func (r *CatalogRepositorySQLite) SaveSource(src model.Source) error {
	if src.ImportedAt == 0 {
		src.ImportedAt = time.Now().Unix()
	}
	_, err := r.db.Exec(`INSERT INTO sources(id, path, name, schema_version, imported_at)
    VALUES(?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET path = excluded.path, imported_at = excluded.imported_at`,
		src.ID, src.Path, src.Name, src.SchemaVersion, src.ImportedAt,
	)
	return err
}

// UpsertEntry вставляет запись или обновляет существующую по node_id.
func (r *CatalogRepositorySQLite) UpsertEntry(e model.Entry) (bool, error) {
	if e.NodeID == "" {
		return false, errors.New("entry without node id")
	}
	now := time.Now().Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRow(`SELECT id FROM entries WHERE node_id = ?`, e.NodeID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`INSERT INTO entries(
        id, node_id, source_id, path, name, hostname, protocol,
        created_at, updated_at, version, payload_cipher, payload_nonce
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			uuid.NewString(), e.NodeID, e.SourceID, e.Path, e.Name, e.Hostname, e.Protocol,
			now, now, e.PayloadCipher, e.PayloadNonce,
		)
		if err != nil {
			return false, err
		}
		return true, tx.Commit()
	case err != nil:
		return false, err
	}

	_, err = tx.Exec(`UPDATE entries SET
        source_id = ?, path = ?, name = ?, hostname = ?, protocol = ?,
        updated_at = ?, version = version + 1, payload_cipher = ?, payload_nonce = ?
    WHERE id = ?`,
		e.SourceID, e.Path, e.Name, e.Hostname, e.Protocol,
		now, e.PayloadCipher, e.PayloadNonce, id,
	)
	if err != nil {
		return false, err
	}
	return false, tx.Commit()
}

const entryColumns = `id, node_id, source_id, path, name, hostname, protocol,
     created_at, updated_at, version, payload_cipher, payload_nonce`

func scanEntry(s interface{ Scan(...any) error }) (model.Entry, error) {
	var e model.Entry
	err := s.Scan(&e.ID, &e.NodeID, &e.SourceID, &e.Path, &e.Name, &e.Hostname, &e.Protocol,
		&e.CreatedAt, &e.UpdatedAt, &e.Version, &e.PayloadCipher, &e.PayloadNonce)
	return e, err
}

// ListEntries возвращает все записи, отсортированные по пути.
func (r *CatalogRepositorySQLite) ListEntries() ([]model.Entry, error) {
	rows, err := r.db.Query(`SELECT ` + entryColumns + ` FROM entries ORDER BY path ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// GetEntry возвращает запись по id, node_id или точному пути.
func (r *CatalogRepositorySQLite) GetEntry(ref string) (*model.Entry, error) {
	if ref == "" {
		return nil, errors.New("entry reference is required")
	}
	e, err := scanEntry(r.db.QueryRow(`SELECT `+entryColumns+` FROM entries
    WHERE id = ? OR node_id = ? OR path = ?
    ORDER BY CASE WHEN id = ? THEN 0 WHEN node_id = ? THEN 1 ELSE 2 END
    LIMIT 1`, ref, ref, ref, ref, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
		}
		return nil, err
	}
	return &e, nil
}

// ListSources возвращает импортированные документы, новые первыми.
func (r *CatalogRepositorySQLite) ListSources() ([]model.Source, error) {
	rows, err := r.db.Query(`SELECT id, path, name, schema_version, imported_at FROM sources ORDER BY imported_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Source
	for rows.Next() {
		var s model.Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Name, &s.SchemaVersion, &s.ImportedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
