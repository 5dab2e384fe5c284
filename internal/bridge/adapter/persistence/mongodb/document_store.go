// Package mongodb implements the primary document store behind the uniform
// CRUD contract. The adapter core delegates here verbatim for collections
// routed to the primary backend; no translation logic lives in this package.
package mongodb

import (
	"context"
	"time"

	"cms-bridge/internal/bridge/config"
	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/shared/errors"
	"cms-bridge/internal/shared/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the MongoDB-backed implementation of the uniform CRUD
// contract.
type DocumentStore struct {
	cfg    config.PrimaryConfig
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an unconnected store.
func NewDocumentStore(cfg config.PrimaryConfig, log logger.Logger) *DocumentStore {
	if log == nil {
		log = logger.NewLogger()
	}
	return &DocumentStore{cfg: cfg, log: log.WithComponent("primary-store")}
}

// mongoDocument is the store-native document shape.
type mongoDocument struct {
	ID        string                 `bson:"_id"`
	Author    string                 `bson:"author,omitempty"`
	Title     string                 `bson:"title,omitempty"`
	Content   string                 `bson:"content,omitempty"`
	Excerpt   string                 `bson:"excerpt,omitempty"`
	Status    string                 `bson:"status,omitempty"`
	CreatedAt time.Time              `bson:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt"`
	Extra     map[string]interface{} `bson:"extra,omitempty"`
}

func toMongoDocument(doc *model.Document) *mongoDocument {
	return &mongoDocument{
		ID:        doc.ID,
		Author:    doc.Author,
		Title:     doc.Title,
		Content:   doc.Content,
		Excerpt:   doc.Excerpt,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Extra:     doc.Extra,
	}
}

func toModelDocument(m *mongoDocument) *model.Document {
	return &model.Document{
		ID:        m.ID,
		Author:    m.Author,
		Title:     m.Title,
		Content:   m.Content,
		Excerpt:   m.Excerpt,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Extra:     m.Extra,
	}
}

// Connect establishes and verifies the client connection.
func (s *DocumentStore) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.cfg.URI))
	if err != nil {
		return errors.NewConnectionError("primary", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return errors.NewConnectionError("primary", err)
	}

	s.client = client
	s.db = client.Database(s.cfg.Database)
	s.log.Infof("Primary store connected: %s/%s", s.cfg.URI, s.cfg.Database)
	return nil
}

// Init creates the standing indexes used by status and recency queries.
func (s *DocumentStore) Init(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	}
	for _, name := range names {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects the client.
func (s *DocumentStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// buildFilter translates the query's where clauses into a MongoDB filter.
// Extension fields live under the extra subdocument.
func buildFilter(query model.Query) bson.M {
	filter := bson.M{}
	for _, f := range query.Where {
		field := f.Field
		if field != "id" && !model.IsDeclaredField(field) {
			field = "extra." + field
		}
		if field == "id" {
			field = "_id"
		}
		switch f.Operator {
		case model.OperatorEqual, "":
			filter[field] = f.Value
		case model.OperatorNotEqual:
			filter[field] = bson.M{"$ne": f.Value}
		case model.OperatorLessThan:
			filter[field] = bson.M{"$lt": f.Value}
		case model.OperatorLessThanOrEqual:
			filter[field] = bson.M{"$lte": f.Value}
		case model.OperatorGreaterThan:
			filter[field] = bson.M{"$gt": f.Value}
		case model.OperatorGreaterThanOrEqual:
			filter[field] = bson.M{"$gte": f.Value}
		case model.OperatorIn:
			filter[field] = bson.M{"$in": f.Value}
		}
	}
	return filter
}

// buildFindOptions translates pagination and sort.
func buildFindOptions(query model.Query) *options.FindOptions {
	opts := options.Find()
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	if query.Skip > 0 {
		opts.SetSkip(int64(query.Skip))
	}
	if len(query.Sort) > 0 {
		sort := bson.D{}
		for _, o := range query.Sort {
			dir := 1
			if o.Direction == model.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	return opts
}

// Find returns documents matching the query with full query capability.
func (s *DocumentStore) Find(ctx context.Context, collection string, query model.Query) ([]*model.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(query), buildFindOptions(query))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.Document
	for cursor.Next(ctx) {
		var m mongoDocument
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, toModelDocument(&m))
	}
	return out, cursor.Err()
}

// FindOne returns the first document matching the query.
func (s *DocumentStore) FindOne(ctx context.Context, collection string, query model.Query) (*model.Document, error) {
	query.Limit = 1
	docs, err := s.Find(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.ErrDocumentNotFound
	}
	return docs[0], nil
}

// FindByID returns the document with the given id.
func (s *DocumentStore) FindByID(ctx context.Context, collection string, id string) (*model.Document, error) {
	var m mongoDocument
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return toModelDocument(&m), nil
}

// Create inserts a document. When the caller supplies no id one is
// generated; migration carries the stable legacy id across, so the _id
// uniqueness constraint makes re-runs surface duplicate-key errors instead
// of silently duplicating records.
func (s *DocumentStore) Create(ctx context.Context, collection string, data *model.Document) (*model.Document, error) {
	doc := data.Clone()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, toMongoDocument(doc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.NewConflictError("document already exists").WithCause(err).WithDetail("id", doc.ID)
		}
		return nil, err
	}
	return doc, nil
}

// Update replaces the stored document, preserving its creation time.
func (s *DocumentStore) Update(ctx context.Context, collection string, id string, data *model.Document) (*model.Document, error) {
	existing, err := s.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	doc := data.Clone()
	doc.ID = id
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, toMongoDocument(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document and returns what was removed.
func (s *DocumentStore) Delete(ctx context.Context, collection string, id string) (*model.Document, error) {
	var m mongoDocument
	err := s.db.Collection(collection).FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return toModelDocument(&m), nil
}

// ListTables reports every collection with its document count for the
// admin table listing.
func (s *DocumentStore) ListTables(ctx context.Context) ([]model.TableInfo, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	out := make([]model.TableInfo, 0, len(names))
	for _, name := range names {
		count, err := s.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		out = append(out, model.TableInfo{Name: name, RowCount: count})
	}
	return out, nil
}
