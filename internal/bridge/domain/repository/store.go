package repository

import (
	"context"

	"cms-bridge/internal/bridge/domain/model"
)

// DocumentStore is the uniform CRUD contract. The adapter core and the
// primary store delegate both implement it, so callers never branch on
// which backend owns a collection.
type DocumentStore interface {
	Connect(ctx context.Context) error
	Init(ctx context.Context) error
	Find(ctx context.Context, collection string, query model.Query) ([]*model.Document, error)
	FindOne(ctx context.Context, collection string, query model.Query) (*model.Document, error)
	FindByID(ctx context.Context, collection string, id string) (*model.Document, error)
	Create(ctx context.Context, collection string, data *model.Document) (*model.Document, error)
	Update(ctx context.Context, collection string, id string, data *model.Document) (*model.Document, error)
	Delete(ctx context.Context, collection string, id string) (*model.Document, error)
	Close(ctx context.Context) error
}

// LegacyStore is the typed query surface over the legacy relational
// schema. Every query is parameterized; entity reads left-join the
// attribute table and tolerate zero attribute rows. Writes are individual
// statements with no cross-statement transaction: an entity write followed
// by N attribute writes can fail partway and leave partial attributes.
type LegacyStore interface {
	Connect(ctx context.Context) error
	Close() error
	FindEntities(ctx context.Context, entityType string, limit, offset int) ([]model.JoinedRow, error)
	FindEntityByID(ctx context.Context, id int64) (*model.EntityRow, error)
	FindAttributes(ctx context.Context, entityID int64) ([]model.AttributeRow, error)
	CountEntities(ctx context.Context, entityType string) (int64, error)
	InsertEntity(ctx context.Context, fields model.EntityFields) (int64, error)
	UpdateEntity(ctx context.Context, id int64, fields model.EntityFields) error
	DeleteEntity(ctx context.Context, id int64) error
	UpsertAttribute(ctx context.Context, entityID int64, key, value string) error
	DeleteAttributes(ctx context.Context, entityID int64) error
	ListTables(ctx context.Context) ([]model.TableInfo, error)
}

// TableLister exposes the admin table listing of one backing store.
type TableLister interface {
	ListTables(ctx context.Context) ([]model.TableInfo, error)
}
