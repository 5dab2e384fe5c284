package mongodb

import (
	"testing"
	"time"

	"cms-bridge/internal/bridge/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentConversion_RoundTrip(t *testing.T) {
	doc := &model.Document{
		ID:        "42",
		Author:    "7",
		Title:     "Hello",
		Content:   "World",
		Status:    model.StatusPublished,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		Extra:     map[string]interface{}{"customField": "x"},
	}

	back := toModelDocument(toMongoDocument(doc))
	assert.Equal(t, doc, back)
}

func TestBuildFilter_DeclaredAndExtensionFields(t *testing.T) {
	filter := buildFilter(model.Query{Where: []model.Filter{
		{Field: "status", Operator: model.OperatorEqual, Value: "draft"},
		{Field: "customField", Operator: model.OperatorEqual, Value: "x"},
		{Field: "id", Operator: model.OperatorEqual, Value: "42"},
	}})

	assert.Equal(t, "draft", filter["status"])
	assert.Equal(t, "x", filter["extra.customField"])
	assert.Equal(t, "42", filter["_id"])
}

func TestBuildFilter_Operators(t *testing.T) {
	filter := buildFilter(model.Query{Where: []model.Filter{
		{Field: "title", Operator: model.OperatorNotEqual, Value: "a"},
		{Field: "excerpt", Operator: model.OperatorGreaterThan, Value: "b"},
	}})

	assert.Equal(t, bson.M{"$ne": "a"}, filter["title"])
	assert.Equal(t, bson.M{"$gt": "b"}, filter["excerpt"])
}

func TestBuildFindOptions(t *testing.T) {
	opts := buildFindOptions(model.Query{
		Limit: 25,
		Skip:  50,
		Sort:  []model.Order{{Field: "updatedAt", Direction: model.Descending}},
	})

	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(25), *opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(50), *opts.Skip)
	assert.Equal(t, bson.D{{Key: "updatedAt", Value: -1}}, opts.Sort)
}

func TestBuildFindOptions_ZeroValues(t *testing.T) {
	opts := buildFindOptions(model.Query{})
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Sort)
}
