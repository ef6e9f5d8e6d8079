package repo

import "ConnKeeper/internal/cli/model"

// CatalogRepository определяет порт доступа к локальному каталогу подключений.
type CatalogRepository interface {
	// SaveSource запоминает импортированный документ; повторное сохранение обновляет путь и время.
	SaveSource(src model.Source) error

	// UpsertEntry вставляет запись или обновляет существующую с тем же NodeID
	// (Version растёт). created=true, если запись новая.
	UpsertEntry(e model.Entry) (created bool, err error)

	// ListEntries возвращает все записи, отсортированные по пути.
	ListEntries() ([]model.Entry, error)

	// GetEntry находит запись по ID записи, ID узла или пути.
	GetEntry(ref string) (*model.Entry, error)

	// ListSources возвращает импортированные документы, новые первыми.
	ListSources() ([]model.Source, error)
}
