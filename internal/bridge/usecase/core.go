// Package usecase holds the bridge's application logic: the adapter core
// implementing the uniform CRUD contract over both backends, and the
// migration replicator.
package usecase

import (
	"context"
	"strconv"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/bridge/mapper"
	"cms-bridge/internal/bridge/router"
	"cms-bridge/internal/shared/errors"
	"cms-bridge/internal/shared/eventbus"
	"cms-bridge/internal/shared/logger"
)

// defaultLegacyLimit bounds legacy reads when the caller sets no limit, so
// an unbounded find cannot drag a whole wp_posts table through the join.
const defaultLegacyLimit = 100

// BridgeUsecase is the adapter core: it implements the uniform CRUD
// contract, resolving each call to a backend once via the router and
// dispatching on the resulting tag. Callers never branch on backend.
type BridgeUsecase struct {
	router  *router.Router
	legacy  repository.LegacyStore
	primary repository.DocumentStore
	bus     *eventbus.EventBus
	log     logger.Logger
}

var _ repository.DocumentStore = (*BridgeUsecase)(nil)

// NewBridgeUsecase wires the core. The legacy store may be nil in
// primary-only mode; the primary store may be nil when nothing routes
// there.
func NewBridgeUsecase(rt *router.Router, legacy repository.LegacyStore, primary repository.DocumentStore, bus *eventbus.EventBus, log logger.Logger) *BridgeUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &BridgeUsecase{
		router:  rt,
		legacy:  legacy,
		primary: primary,
		bus:     bus,
		log:     log.WithComponent("adapter-core"),
	}
}

// backendFor resolves the backend for one call. In primary-only mode the
// router is never consulted.
func (u *BridgeUsecase) backendFor(collection string) router.Backend {
	if u.router.Mode() == router.ModePrimaryOnly {
		return router.BackendPrimary
	}
	return u.router.Route(collection)
}

// Connect establishes only the pools some routed collection can reach:
// the legacy pool outside primary-only mode, the primary client when any
// collection routes there. An unreachable required backend fails the call
// with a connection error and is never retried.
func (u *BridgeUsecase) Connect(ctx context.Context) error {
	if u.router.NeedsLegacy() {
		if u.legacy == nil {
			return errors.NewConnectionError("legacy", nil).WithDetail("reason", "no legacy store configured")
		}
		if err := u.legacy.Connect(ctx); err != nil {
			return err
		}
	}
	if u.router.NeedsPrimary() || u.router.Mode() == router.ModePrimaryOnly {
		if u.primary == nil {
			return errors.NewConnectionError("primary", nil).WithDetail("reason", "no primary store configured")
		}
		if err := u.primary.Connect(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Init initializes the primary store when it is in play. The legacy schema
// is owned by the legacy platform and never initialized from here.
func (u *BridgeUsecase) Init(ctx context.Context) error {
	if u.primary != nil && (u.router.NeedsPrimary() || u.router.Mode() == router.ModePrimaryOnly) {
		return u.primary.Init(ctx)
	}
	return nil
}

// Close releases both backends.
func (u *BridgeUsecase) Close(ctx context.Context) error {
	var firstErr error
	if u.legacy != nil {
		if err := u.legacy.Close(); err != nil {
			firstErr = err
		}
	}
	if u.primary != nil {
		if err := u.primary.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Find returns documents for a collection. Primary-routed collections get
// full query capability via pass-through. Legacy-routed collections
// support only pagination and the type discriminator: advanced operators
// fail closed to an empty result rather than returning wrong rows.
func (u *BridgeUsecase) Find(ctx context.Context, collection string, query model.Query) ([]*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		return u.primary.Find(ctx, collection, query)
	}

	if query.HasAdvancedOptions() {
		u.log.WithFields(map[string]interface{}{"collection": collection}).
			Warn("dropping where/sort options: not translatable for the legacy backend")
		return []*model.Document{}, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLegacyLimit
	}

	rows, err := u.legacy.FindEntities(ctx, mapper.CollectionType(collection), limit, query.Skip)
	if err != nil {
		return nil, errors.NewStoreError(collection, "find", err)
	}
	return mapper.FoldRows(rows)
}

// FindOne returns the first match.
func (u *BridgeUsecase) FindOne(ctx context.Context, collection string, query model.Query) (*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		return u.primary.FindOne(ctx, collection, query)
	}

	query.Limit = 1
	docs, err := u.Find(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.ErrDocumentNotFound
	}
	return docs[0], nil
}

// FindByID returns the document with the given id.
func (u *BridgeUsecase) FindByID(ctx context.Context, collection string, id string) (*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		return u.primary.FindByID(ctx, collection, id)
	}

	entityID, err := parseLegacyID(id)
	if err != nil {
		return nil, err
	}

	entity, err := u.legacy.FindEntityByID(ctx, entityID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.NewStoreError(collection, "findById", err)
	}

	attrs, err := u.legacy.FindAttributes(ctx, entityID)
	if err != nil {
		return nil, errors.NewStoreError(collection, "findById", err)
	}

	return mapper.ToDocument(*entity, attrs)
}

// Create writes a new document. The legacy path splits it into an entity
// row plus one attribute row per extension field; these are independent
// statements, so a failure partway leaves the entity row with partial
// attributes rather than rolling back.
func (u *BridgeUsecase) Create(ctx context.Context, collection string, data *model.Document) (*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		doc, err := u.primary.Create(ctx, collection, data)
		if err == nil {
			u.publish(ctx, eventbus.EventTypeDocumentCreated, collection, doc)
		}
		return doc, err
	}

	fields, attrs, err := mapper.ToEntityRow(data, collection)
	if err != nil {
		return nil, err
	}
	fillTimestamps(&fields)

	entityID, err := u.legacy.InsertEntity(ctx, fields)
	if err != nil {
		return nil, errors.NewStoreError(collection, "create", err)
	}

	for _, attr := range attrs {
		if err := u.legacy.UpsertAttribute(ctx, entityID, attr.Key, attr.Value); err != nil {
			return nil, errors.NewStoreError(collection, "create", err).
				WithDetail("entityId", entityID).
				WithDetail("partialWrite", true)
		}
	}

	doc, err := u.FindByID(ctx, collection, strconv.FormatInt(entityID, 10))
	if err == nil {
		u.publish(ctx, eventbus.EventTypeDocumentCreated, collection, doc)
	}
	return doc, err
}

// Update rewrites declared columns and upserts each extension field by
// existence check, then re-reads the document.
func (u *BridgeUsecase) Update(ctx context.Context, collection string, id string, data *model.Document) (*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		doc, err := u.primary.Update(ctx, collection, id, data)
		if err == nil {
			u.publish(ctx, eventbus.EventTypeDocumentUpdated, collection, doc)
		}
		return doc, err
	}

	entityID, err := parseLegacyID(id)
	if err != nil {
		return nil, err
	}

	fields, attrs, err := mapper.ToEntityRow(data, collection)
	if err != nil {
		return nil, err
	}
	fillTimestamps(&fields)

	if err := u.legacy.UpdateEntity(ctx, entityID, fields); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.NewStoreError(collection, "update", err)
	}

	for _, attr := range attrs {
		if err := u.legacy.UpsertAttribute(ctx, entityID, attr.Key, attr.Value); err != nil {
			return nil, errors.NewStoreError(collection, "update", err).
				WithDetail("entityId", entityID).
				WithDetail("partialWrite", true)
		}
	}

	doc, err := u.FindByID(ctx, collection, id)
	if err == nil {
		u.publish(ctx, eventbus.EventTypeDocumentUpdated, collection, doc)
	}
	return doc, err
}

// Delete removes a document and returns what was removed. On the legacy
// path attribute rows go first, so a reused entity id can never pick up
// dangling attributes.
func (u *BridgeUsecase) Delete(ctx context.Context, collection string, id string) (*model.Document, error) {
	if u.backendFor(collection) == router.BackendPrimary {
		doc, err := u.primary.Delete(ctx, collection, id)
		if err == nil {
			u.publish(ctx, eventbus.EventTypeDocumentDeleted, collection, doc)
		}
		return doc, err
	}

	doc, err := u.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	entityID, err := parseLegacyID(id)
	if err != nil {
		return nil, err
	}

	if err := u.legacy.DeleteAttributes(ctx, entityID); err != nil {
		return nil, errors.NewStoreError(collection, "delete", err)
	}
	if err := u.legacy.DeleteEntity(ctx, entityID); err != nil {
		return nil, errors.NewStoreError(collection, "delete", err)
	}

	u.publish(ctx, eventbus.EventTypeDocumentDeleted, collection, doc)
	return doc, nil
}

// Primary returns the primary store delegate. The replicator writes it
// directly: migration is explicitly a cross-store copy and bypasses
// routing.
func (u *BridgeUsecase) Primary() repository.DocumentStore {
	return u.primary
}

// Legacy returns the legacy store client for admin surfaces.
func (u *BridgeUsecase) Legacy() repository.LegacyStore {
	return u.legacy
}

// Router returns the collection router.
func (u *BridgeUsecase) Router() *router.Router {
	return u.router
}

func (u *BridgeUsecase) publish(ctx context.Context, eventType, collection string, doc *model.Document) {
	if u.bus == nil {
		return
	}
	u.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, map[string]interface{}{
		"collection": collection,
		"id":         doc.ID,
	}, "adapter-core"))
}

// parseLegacyID converts the opaque document id to the numeric legacy id.
func parseLegacyID(id string) (int64, error) {
	entityID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || entityID <= 0 {
		return 0, errors.ErrInvalidDocumentID
	}
	return entityID, nil
}

// fillTimestamps defaults zero creation/modification times to now.
func fillTimestamps(fields *model.EntityFields) {
	now := timeNow()
	if fields.Created.IsZero() {
		fields.Created = now
	}
	fields.Modified = now
}
