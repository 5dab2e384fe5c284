package usecase

import (
	"context"
	"testing"
	"time"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/router"
	sharederrors "cms-bridge/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLegacyCore(legacy *fakeLegacy, primary *fakeStore, mapping map[string]router.Backend) *BridgeUsecase {
	rt := router.New(router.ModeDual, mapping, nil)
	return NewBridgeUsecase(rt, legacy, primary, nil, nil)
}

func TestCreate_LegacyRoutedCollection(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	doc, err := core.Create(context.Background(), "posts", &model.Document{
		Title:   "Hello",
		Content: "World",
		Extra:   map[string]interface{}{"customField": "x"},
	})
	require.NoError(t, err)

	// Entity row carries the declared fields through the status and type tables.
	entity := legacy.entities[1]
	assert.Equal(t, "Hello", entity.Title)
	assert.Equal(t, "World", entity.Content)
	assert.Equal(t, "post", entity.Type)
	assert.Equal(t, model.LegacyStatusPublish, entity.Status)

	// One attribute row per extension field.
	require.Len(t, legacy.attrs[1], 1)
	assert.Equal(t, "customField", legacy.attrs[1][0].Key)
	assert.Equal(t, "x", legacy.attrs[1][0].Value)

	// Returned document is the findById reassembly.
	assert.Equal(t, "1", doc.ID)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, "World", doc.Content)
	assert.Equal(t, model.StatusPublished, doc.Status)
	assert.Equal(t, "x", doc.Extra["customField"])
	assert.Equal(t, timeNow(), doc.CreatedAt)

	// Round trip through findById matches.
	again, err := core.FindByID(context.Background(), "posts", "1")
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestCreate_PartialAttributeFailureSurfaces(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	legacy.upsertErr = assert.AnError
	_, err := core.Create(context.Background(), "posts", &model.Document{
		Title: "Hello",
		Extra: map[string]interface{}{"a": "1"},
	})

	require.Error(t, err)
	assert.True(t, sharederrors.IsStore(err))
	// The entity row stays written: there is no cross-statement rollback.
	assert.Len(t, legacy.entities, 1)
}

func TestDelete_AttributesRemovedBeforeEntity(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	created, err := core.Create(context.Background(), "posts", &model.Document{
		Title: "Hello",
		Extra: map[string]interface{}{"a": "1", "b": "2", "c": "3"},
	})
	require.NoError(t, err)

	legacy.calls = nil
	deleted, err := core.Delete(context.Background(), "posts", created.ID)
	require.NoError(t, err)
	assert.Len(t, deleted.Extra, 3)

	require.Equal(t, []string{"deleteAttributes(1)", "deleteEntity(1)"}, legacy.calls)

	_, err = core.FindByID(context.Background(), "posts", created.ID)
	assert.ErrorIs(t, err, sharederrors.ErrDocumentNotFound)
}

func TestUpdate_UpsertsExtensionFieldsAndRereads(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	created, err := core.Create(context.Background(), "posts", &model.Document{
		Title: "Hello",
		Extra: map[string]interface{}{"color": "red"},
	})
	require.NoError(t, err)

	updated, err := core.Update(context.Background(), "posts", created.ID, &model.Document{
		Title:  "Hello again",
		Status: model.StatusDraft,
		Extra:  map[string]interface{}{"color": "blue", "size": "L"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, model.StatusDraft, updated.Status)
	assert.Equal(t, "blue", updated.Extra["color"])
	assert.Equal(t, "L", updated.Extra["size"])

	// color existed so it was updated in place; size was inserted.
	assert.Contains(t, legacy.calls, "updateAttribute(1,color)")
	assert.Contains(t, legacy.calls, "insertAttribute(1,size)")
}

func TestUpdate_MissingEntity(t *testing.T) {
	core := newLegacyCore(newFakeLegacy(), nil, nil)
	_, err := core.Update(context.Background(), "posts", "99", &model.Document{Title: "x"})
	assert.ErrorIs(t, err, sharederrors.ErrDocumentNotFound)
}

func TestFind_LegacyPaginationAndTypeTranslation(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	for i := 0; i < 5; i++ {
		_, err := core.Create(context.Background(), "pages", &model.Document{Title: "p"})
		require.NoError(t, err)
	}

	docs, err := core.Find(context.Background(), "pages", model.Query{Limit: 2, Skip: 1})
	require.NoError(t, err)

	assert.Len(t, docs, 2)
	assert.Equal(t, "page", legacy.lastFindType)
	assert.Equal(t, 2, legacy.lastFindLimit)
	assert.Equal(t, 1, legacy.lastFindOffset)
}

func TestFind_LegacyDefaultsLimitWhenUnset(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	_, err := core.Find(context.Background(), "posts", model.Query{})
	require.NoError(t, err)
	assert.Equal(t, defaultLegacyLimit, legacy.lastFindLimit)
}

func TestFind_LegacyAdvancedOptionsFailClosed(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	docs, err := core.Find(context.Background(), "posts", model.Query{
		Where: []model.Filter{{Field: "status", Operator: model.OperatorEqual, Value: "draft"}},
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, legacy.lastFindType) // the legacy store was never queried
}

func TestFind_PrimaryRoutedPassThrough(t *testing.T) {
	primary := newFakeStore()
	primary.seed("posts", 3)
	core := newLegacyCore(newFakeLegacy(), primary, map[string]router.Backend{"posts": router.BackendPrimary})

	query := model.Query{
		Limit: 2,
		Where: []model.Filter{{Field: "status", Operator: model.OperatorEqual, Value: "draft"}},
		Sort:  []model.Order{{Field: "title", Direction: model.Ascending}},
	}
	_, err := core.Find(context.Background(), "posts", query)
	require.NoError(t, err)

	// Full query capability passes through verbatim.
	assert.Equal(t, query, primary.lastFindQuery)
}

func TestFindOne_Legacy(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, nil, nil)

	_, err := core.FindOne(context.Background(), "posts", model.Query{})
	assert.ErrorIs(t, err, sharederrors.ErrDocumentNotFound)

	created, err := core.Create(context.Background(), "posts", &model.Document{Title: "one"})
	require.NoError(t, err)

	doc, err := core.FindOne(context.Background(), "posts", model.Query{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, doc.ID)
	assert.Equal(t, 1, legacy.lastFindLimit)
}

func TestFindByID_InvalidLegacyID(t *testing.T) {
	core := newLegacyCore(newFakeLegacy(), nil, nil)
	_, err := core.FindByID(context.Background(), "posts", "not-a-number")
	assert.ErrorIs(t, err, sharederrors.ErrInvalidDocumentID)
}

func TestConnect_PrimaryOnlySkipsLegacy(t *testing.T) {
	primary := newFakeStore()
	rt := router.New(router.ModePrimaryOnly, nil, nil)
	core := NewBridgeUsecase(rt, nil, primary, nil, nil)

	require.NoError(t, core.Connect(context.Background()))

	// All operations dispatch to the primary store without consulting routing.
	_, err := core.Create(context.Background(), "anything", &model.Document{Title: "t"})
	require.NoError(t, err)
	assert.Len(t, primary.creates, 1)
}

func TestConnect_LegacyUnreachable(t *testing.T) {
	legacy := newFakeLegacy()
	legacy.connectErr = sharederrors.NewConnectionError("legacy", assert.AnError)
	core := newLegacyCore(legacy, nil, nil)

	err := core.Connect(context.Background())
	assert.True(t, sharederrors.IsConnection(err))
}

func TestConnect_DualConnectsPrimaryOnlyWhenMapped(t *testing.T) {
	legacy := newFakeLegacy()
	primary := newFakeStore()
	primary.connectErr = sharederrors.NewConnectionError("primary", assert.AnError)

	// No collection routes to primary: its connection failure is irrelevant.
	core := newLegacyCore(legacy, primary, nil)
	assert.NoError(t, core.Connect(context.Background()))

	// Once a collection routes there, the failure surfaces.
	core = newLegacyCore(legacy, primary, map[string]router.Backend{"posts": router.BackendPrimary})
	err := core.Connect(context.Background())
	assert.True(t, sharederrors.IsConnection(err))
}

func TestListTables_BothStores(t *testing.T) {
	legacy := newFakeLegacy()
	core := newLegacyCore(legacy, newFakeStore(), nil)

	tables, err := core.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1) // fakeStore has no table listing
	assert.Equal(t, "legacy", tables[0].Store)
	assert.Equal(t, "wp_posts", tables[0].Tables[0].Name)
}
