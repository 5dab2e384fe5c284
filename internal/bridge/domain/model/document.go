package model

import "time"

// Document is the uniform record shape both backends return to callers.
// ID is opaque and stable within a collection regardless of which store
// holds the record. Undeclared fields live in Extra; their keys never
// collide with the declared field names.
type Document struct {
	ID        string                 `json:"id"`
	Author    string                 `json:"author,omitempty"`
	Title     string                 `json:"title,omitempty"`
	Content   string                 `json:"content,omitempty"`
	Excerpt   string                 `json:"excerpt,omitempty"`
	Status    string                 `json:"status,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Document status values. Legacy statuses outside the fixed table pass
// through untranslated.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// DeclaredFields are the document fields that map to legacy entity columns.
// Everything else is an extension field stored one-per-row in the legacy
// attribute table.
var DeclaredFields = map[string]struct{}{
	"id":        {},
	"author":    {},
	"title":     {},
	"content":   {},
	"excerpt":   {},
	"status":    {},
	"createdAt": {},
	"updatedAt": {},
}

// IsDeclaredField reports whether name maps to a legacy entity column.
func IsDeclaredField(name string) bool {
	_, ok := DeclaredFields[name]
	return ok
}

// Clone returns a deep copy of the document. Extra values are copied
// shallowly; they are opaque scalars or serialized strings.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Extra != nil {
		out.Extra = make(map[string]interface{}, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}
