package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/shared/errors"
)

// fakeLegacy is an in-memory stand-in for the MySQL legacy store. It logs
// every mutating call so tests can assert statement ordering.
type fakeLegacy struct {
	entities map[int64]model.EntityRow
	attrs    map[int64][]model.AttributeRow
	nextID   int64
	calls    []string

	connectErr error
	upsertErr  error

	lastFindType   string
	lastFindLimit  int
	lastFindOffset int
}

var _ repository.LegacyStore = (*fakeLegacy)(nil)

func newFakeLegacy() *fakeLegacy {
	return &fakeLegacy{
		entities: map[int64]model.EntityRow{},
		attrs:    map[int64][]model.AttributeRow{},
		nextID:   1,
	}
}

func (f *fakeLegacy) Connect(ctx context.Context) error { return f.connectErr }
func (f *fakeLegacy) Close() error                      { return nil }

func (f *fakeLegacy) sortedIDs(entityType string) []int64 {
	var ids []int64
	for id, e := range f.entities {
		if e.Type == entityType {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeLegacy) FindEntities(ctx context.Context, entityType string, limit, offset int) ([]model.JoinedRow, error) {
	f.lastFindType = entityType
	f.lastFindLimit = limit
	f.lastFindOffset = offset

	ids := f.sortedIDs(entityType)
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	var rows []model.JoinedRow
	for _, id := range ids {
		entity := f.entities[id]
		if attrs := f.attrs[id]; len(attrs) > 0 {
			for i := range attrs {
				rows = append(rows, model.JoinedRow{Entity: entity, Attr: &attrs[i]})
			}
		} else {
			rows = append(rows, model.JoinedRow{Entity: entity})
		}
	}
	return rows, nil
}

func (f *fakeLegacy) FindEntityByID(ctx context.Context, id int64) (*model.EntityRow, error) {
	entity, ok := f.entities[id]
	if !ok {
		return nil, errors.ErrEntityNotFound
	}
	return &entity, nil
}

func (f *fakeLegacy) FindAttributes(ctx context.Context, entityID int64) ([]model.AttributeRow, error) {
	return append([]model.AttributeRow(nil), f.attrs[entityID]...), nil
}

func (f *fakeLegacy) CountEntities(ctx context.Context, entityType string) (int64, error) {
	return int64(len(f.sortedIDs(entityType))), nil
}

func (f *fakeLegacy) InsertEntity(ctx context.Context, fields model.EntityFields) (int64, error) {
	id := f.nextID
	f.nextID++
	f.entities[id] = model.EntityRow{
		ID:       id,
		AuthorID: fields.AuthorID,
		Title:    fields.Title,
		Content:  fields.Content,
		Excerpt:  fields.Excerpt,
		Status:   fields.Status,
		Type:     fields.Type,
		Created:  fields.Created,
		Modified: fields.Modified,
	}
	f.calls = append(f.calls, fmt.Sprintf("insertEntity(%d)", id))
	return id, nil
}

func (f *fakeLegacy) UpdateEntity(ctx context.Context, id int64, fields model.EntityFields) error {
	entity, ok := f.entities[id]
	if !ok {
		return errors.ErrEntityNotFound
	}
	entity.AuthorID = fields.AuthorID
	entity.Title = fields.Title
	entity.Content = fields.Content
	entity.Excerpt = fields.Excerpt
	entity.Status = fields.Status
	entity.Modified = fields.Modified
	f.entities[id] = entity
	f.calls = append(f.calls, fmt.Sprintf("updateEntity(%d)", id))
	return nil
}

func (f *fakeLegacy) DeleteEntity(ctx context.Context, id int64) error {
	if _, ok := f.entities[id]; !ok {
		return errors.ErrEntityNotFound
	}
	delete(f.entities, id)
	f.calls = append(f.calls, fmt.Sprintf("deleteEntity(%d)", id))
	return nil
}

func (f *fakeLegacy) UpsertAttribute(ctx context.Context, entityID int64, key, value string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i, attr := range f.attrs[entityID] {
		if attr.Key == key {
			f.attrs[entityID][i].Value = value
			f.calls = append(f.calls, fmt.Sprintf("updateAttribute(%d,%s)", entityID, key))
			return nil
		}
	}
	f.attrs[entityID] = append(f.attrs[entityID], model.AttributeRow{
		ID:       int64(len(f.attrs[entityID]) + 1),
		EntityID: entityID,
		Key:      key,
		Value:    value,
	})
	f.calls = append(f.calls, fmt.Sprintf("insertAttribute(%d,%s)", entityID, key))
	return nil
}

func (f *fakeLegacy) DeleteAttributes(ctx context.Context, entityID int64) error {
	delete(f.attrs, entityID)
	f.calls = append(f.calls, fmt.Sprintf("deleteAttributes(%d)", entityID))
	return nil
}

func (f *fakeLegacy) ListTables(ctx context.Context) ([]model.TableInfo, error) {
	return []model.TableInfo{
		{Name: "wp_posts", RowCount: int64(len(f.entities))},
		{Name: "wp_postmeta", RowCount: int64(len(f.attrs))},
	}, nil
}

// fakeStore is an in-memory document store used both as the primary
// delegate and as a preloaded migration source.
type fakeStore struct {
	docs    map[string][]*model.Document
	creates []string

	connectErr error
	createErr  func(collection string, doc *model.Document) error
	findErr    func(collection string) error

	lastFindQuery model.Query
}

var _ repository.DocumentStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string][]*model.Document{}}
}

func (f *fakeStore) seed(collection string, n int) {
	for i := 1; i <= n; i++ {
		f.docs[collection] = append(f.docs[collection], &model.Document{
			ID:    strconv.Itoa(i),
			Title: fmt.Sprintf("%s %d", collection, i),
		})
	}
}

func (f *fakeStore) Connect(ctx context.Context) error { return f.connectErr }
func (f *fakeStore) Init(ctx context.Context) error    { return nil }
func (f *fakeStore) Close(ctx context.Context) error   { return nil }

func (f *fakeStore) Find(ctx context.Context, collection string, query model.Query) ([]*model.Document, error) {
	f.lastFindQuery = query
	if f.findErr != nil {
		if err := f.findErr(collection); err != nil {
			return nil, err
		}
	}
	docs := f.docs[collection]
	if query.Skip >= len(docs) {
		return nil, nil
	}
	docs = docs[query.Skip:]
	if query.Limit > 0 && query.Limit < len(docs) {
		docs = docs[:query.Limit]
	}
	return append([]*model.Document(nil), docs...), nil
}

func (f *fakeStore) FindOne(ctx context.Context, collection string, query model.Query) (*model.Document, error) {
	query.Limit = 1
	docs, err := f.Find(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.ErrDocumentNotFound
	}
	return docs[0], nil
}

func (f *fakeStore) FindByID(ctx context.Context, collection string, id string) (*model.Document, error) {
	for _, doc := range f.docs[collection] {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, errors.ErrDocumentNotFound
}

func (f *fakeStore) Create(ctx context.Context, collection string, data *model.Document) (*model.Document, error) {
	if f.createErr != nil {
		if err := f.createErr(collection, data); err != nil {
			return nil, err
		}
	}
	doc := data.Clone()
	if doc.ID == "" {
		doc.ID = strconv.Itoa(len(f.docs[collection]) + 1)
	}
	f.docs[collection] = append(f.docs[collection], doc)
	f.creates = append(f.creates, collection+"/"+doc.ID)
	return doc, nil
}

func (f *fakeStore) Update(ctx context.Context, collection string, id string, data *model.Document) (*model.Document, error) {
	for i, doc := range f.docs[collection] {
		if doc.ID == id {
			updated := data.Clone()
			updated.ID = id
			f.docs[collection][i] = updated
			return updated, nil
		}
	}
	return nil, errors.ErrDocumentNotFound
}

func (f *fakeStore) Delete(ctx context.Context, collection string, id string) (*model.Document, error) {
	for i, doc := range f.docs[collection] {
		if doc.ID == id {
			f.docs[collection] = append(f.docs[collection][:i], f.docs[collection][i+1:]...)
			return doc, nil
		}
	}
	return nil, errors.ErrDocumentNotFound
}
