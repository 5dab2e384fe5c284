// Package mapper translates between the legacy entity-attribute-value row
// shape and the uniform document shape. It performs no I/O.
package mapper

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/shared/errors"
)

// statusToDocument is the fixed legacy -> document status table. Legacy
// values outside it pass through unchanged so unmapped statuses survive a
// round trip.
var statusToDocument = map[string]string{
	model.LegacyStatusPublish: model.StatusPublished,
	model.LegacyStatusDraft:   model.StatusDraft,
}

// statusToLegacy is the inverse table.
var statusToLegacy = map[string]string{
	model.StatusPublished: model.LegacyStatusPublish,
	model.StatusDraft:     model.LegacyStatusDraft,
}

// collectionTypes maps logical collection names to the legacy type
// discriminator. Unlisted collections map to themselves.
var collectionTypes = map[string]string{
	"pages": "page",
	"posts": "post",
	"media": "attachment",
}

// StatusToDocument translates a legacy status to the document status.
func StatusToDocument(legacy string) string {
	if doc, ok := statusToDocument[legacy]; ok {
		return doc
	}
	return legacy
}

// StatusToLegacy translates a document status to the legacy status. An
// undefined document status defaults to published.
func StatusToLegacy(status string) string {
	if status == "" {
		return model.LegacyStatusPublish
	}
	if legacy, ok := statusToLegacy[status]; ok {
		return legacy
	}
	return status
}

// CollectionType resolves the legacy type discriminator for a collection.
func CollectionType(collection string) string {
	if t, ok := collectionTypes[collection]; ok {
		return t
	}
	return collection
}

// ToDocument builds one document from an entity row and its attribute rows.
// Missing attribute rows are absent optional fields, never an error. A
// structurally malformed entity row (no identity) raises a mapping error.
func ToDocument(entity model.EntityRow, attrs []model.AttributeRow) (*model.Document, error) {
	if entity.ID <= 0 {
		return nil, errors.NewMappingError("entity row has no id; row shape does not match the legacy schema")
	}

	doc := &model.Document{
		ID:        strconv.FormatInt(entity.ID, 10),
		Author:    strconv.FormatInt(entity.AuthorID, 10),
		Title:     entity.Title,
		Content:   entity.Content,
		Excerpt:   entity.Excerpt,
		Status:    StatusToDocument(entity.Status),
		CreatedAt: entity.Created,
		UpdatedAt: entity.Modified,
	}

	for _, attr := range attrs {
		if model.IsDeclaredField(attr.Key) {
			// Declared names are owned by entity columns; an attribute
			// row reusing one must not shadow the column value.
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]interface{})
		}
		// Duplicate keys: the last row in retrieval order wins.
		doc.Extra[attr.Key] = attr.Value
	}

	return doc, nil
}

// FoldRows groups left-join rows by entity id and folds them into one
// document per distinct id, preserving first-seen order. N entity rows
// joined against M attribute rows produce distinct-id documents, never M.
func FoldRows(rows []model.JoinedRow) ([]*model.Document, error) {
	var order []int64
	entities := make(map[int64]model.EntityRow)
	attrs := make(map[int64][]model.AttributeRow)

	for _, row := range rows {
		id := row.Entity.ID
		if _, seen := entities[id]; !seen {
			entities[id] = row.Entity
			order = append(order, id)
		}
		if row.Attr != nil {
			attrs[id] = append(attrs[id], *row.Attr)
		}
	}

	docs := make([]*model.Document, 0, len(order))
	for _, id := range order {
		doc, err := ToDocument(entities[id], attrs[id])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ToEntityRow splits a document into declared-column values and extension
// attributes for the legacy store. Non-scalar extension values serialize
// to compact JSON; everything lands in the attribute table as a string.
func ToEntityRow(doc *model.Document, collection string) (model.EntityFields, []model.Attribute, error) {
	if doc == nil {
		return model.EntityFields{}, nil, errors.NewMappingError("cannot map a nil document")
	}

	authorID, _ := strconv.ParseInt(doc.Author, 10, 64)

	fields := model.EntityFields{
		AuthorID: authorID,
		Title:    doc.Title,
		Content:  doc.Content,
		Excerpt:  doc.Excerpt,
		Status:   StatusToLegacy(doc.Status),
		Type:     CollectionType(collection),
		Created:  doc.CreatedAt,
		Modified: doc.UpdatedAt,
	}

	attrs := make([]model.Attribute, 0, len(doc.Extra))
	for key, value := range doc.Extra {
		if model.IsDeclaredField(key) {
			continue
		}
		serialized, err := SerializeValue(value)
		if err != nil {
			return model.EntityFields{}, nil, errors.NewMappingError(
				fmt.Sprintf("extension field %q cannot be serialized", key)).WithCause(err)
		}
		attrs = append(attrs, model.Attribute{Key: key, Value: serialized})
	}
	// Canonical write order: map iteration would make the N attribute
	// statements nondeterministic.
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

	return fields, attrs, nil
}

// SerializeValue renders an extension-field value as the canonical string
// stored in the attribute table. Scalars render directly; objects and
// arrays serialize to compact JSON. Reads leave the strings opaque:
// decoding is a declared per-field concern of the caller, not the mapper.
func SerializeValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
