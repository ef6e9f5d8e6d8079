package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ConnKeeper/internal/model"
)

// SourceRepository — доступ к импортированным документам.
type SourceRepository interface {
	// CreateIfAbsent создаёт запись, если документа с таким дайджестом ещё нет.
	// Возвращает created=true, если запись была создана в этой операции.
	CreateIfAbsent(ctx context.Context, src *model.Source) (created bool, err error)
}

type sourceRepo struct {
	db *gorm.DB
}

// NewSourceRepository создаёт реализацию репозитория для Source.
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepo{db: db}
}

func (r *sourceRepo) CreateIfAbsent(ctx context.Context, src *model.Source) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(src)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
