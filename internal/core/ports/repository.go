package ports

import (
	"context"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// EntitySource определяет порт для получения плоского списка сущностей
type EntitySource interface {
	Entities(ctx context.Context) ([]domain.Entity, error)
}

// ItemIndex определяет порт поискового индекса для построенной иерархии
type ItemIndex interface {
	Table() string
	EnsureItemsTable(ctx context.Context) error
	TruncateTable(ctx context.Context, tableName string) error
	BulkInsertItems(ctx context.Context, items []domain.HierarchyItem) error
	GetTableCount(ctx context.Context, tableName string) (int64, error)
}
