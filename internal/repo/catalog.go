package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ConnKeeper/internal/model"
)

// ErrNotFound — записи нет или она принадлежит другому владельцу.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogRepository определяет контракт доступа к записям каталога.
type CatalogRepository interface {
	// Upsert вставляет записи владельца; существующие (по NodeID) обновляются
	// с увеличением Version.
	Upsert(ctx context.Context, owner string, entries []model.CatalogEntry) error
	// List возвращает записи владельца, упорядоченные по пути.
	List(ctx context.Context, owner string) ([]model.CatalogEntry, error)
	// GetByNodeID возвращает запись владельца по ID узла документа.
	GetByNodeID(ctx context.Context, owner, nodeID string) (*model.CatalogEntry, error)
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepository создаёт реализацию репозитория каталога.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) Upsert(ctx context.Context, owner string, entries []model.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			e := &entries[i]
			e.Owner = owner
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			if e.Version == 0 {
				e.Version = 1
			}
			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "owner"}, {Name: "node_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"source_id":  e.SourceID,
					"path":       e.Path,
					"name":       e.Name,
					"hostname":   e.Hostname,
					"protocol":   e.Protocol,
					"port":       e.Port,
					"info":       gorm.Expr("excluded.info"),
					"version":    gorm.Expr("catalog_entries.version + 1"),
					"updated_at": gorm.Expr("excluded.updated_at"),
				}),
			}).Create(e)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}

func (r *catalogRepo) List(ctx context.Context, owner string) ([]model.CatalogEntry, error) {
	var out []model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("path ASC").
		Find(&out).Error
	return out, err
}

func (r *catalogRepo) GetByNodeID(ctx context.Context, owner, nodeID string) (*model.CatalogEntry, error) {
	var e model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("owner = ? AND node_id = ?", owner, nodeID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
