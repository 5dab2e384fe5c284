package model

// Query carries the recognized options of the uniform CRUD contract.
// Limit and Skip are honored by both backends. Where and Sort are
// primary-only; the legacy backend has no filter/sort translation beyond
// the type discriminator and pagination, so queries carrying them against
// a legacy-routed collection fail closed to an empty result.
type Query struct {
	Limit int
	Skip  int
	Where []Filter
	Sort  []Order
}

// Filter is a single where clause.
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// Order is a single order-by clause.
type Order struct {
	Field     string
	Direction string
}

const (
	// Ascending is used for ordering in ascending order.
	Ascending = "asc"
	// Descending is used for ordering in descending order.
	Descending = "desc"
)

// Operator types for filters
const (
	OperatorEqual              = "=="
	OperatorNotEqual           = "!="
	OperatorLessThan           = "<"
	OperatorLessThanOrEqual    = "<="
	OperatorGreaterThan        = ">"
	OperatorGreaterThanOrEqual = ">="
	OperatorIn                 = "in"
)

// HasAdvancedOptions reports whether the query carries options the legacy
// backend cannot translate.
func (q Query) HasAdvancedOptions() bool {
	return len(q.Where) > 0 || len(q.Sort) > 0
}
