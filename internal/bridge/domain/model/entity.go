package model

import "time"

// EntityRow is one row of the legacy primary content table. Column names
// follow the WordPress wp_posts layout the legacy platform uses.
type EntityRow struct {
	ID       int64
	AuthorID int64
	Title    string
	Content  string
	Excerpt  string
	Status   string
	Type     string
	Created  time.Time
	Modified time.Time
}

// AttributeRow is one key/value row of the legacy attribute table
// (wp_postmeta shape). Values are always strings; complex values are
// serialized before they reach this layer.
type AttributeRow struct {
	ID       int64
	EntityID int64
	Key      string
	Value    string
}

// JoinedRow is one row of the entity/attribute left join. Attr is nil for
// entities with no attribute rows.
type JoinedRow struct {
	Entity EntityRow
	Attr   *AttributeRow
}

// EntityFields carries the declared-column values for a legacy insert or
// update. The id is assigned by the store on insert.
type EntityFields struct {
	AuthorID int64
	Title    string
	Content  string
	Excerpt  string
	Status   string
	Type     string
	Created  time.Time
	Modified time.Time
}

// Attribute is a key/value pair destined for the legacy attribute table.
type Attribute struct {
	Key   string
	Value string
}

// Legacy status values covered by the fixed translation table.
const (
	LegacyStatusPublish = "publish"
	LegacyStatusDraft   = "draft"
)

// TableInfo describes one backing-store table or collection for the
// admin table listing.
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"rowCount"`
}

// StoreTables groups a store's tables under its backend tag.
type StoreTables struct {
	Store  string      `json:"store"`
	Tables []TableInfo `json:"tables"`
}
