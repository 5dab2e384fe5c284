package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "cms-bridge context key " + string(c)
}

// RequestIDKey is the key for the request identifier in context.Context.
const RequestIDKey = contextKey("requestID")

// CollectionKey is the key for the logical collection name in context.Context.
const CollectionKey = contextKey("collection")

// OperationKey is the key for the CRUD operation name in context.Context.
const OperationKey = contextKey("operation")

// BackendKey is the key for the resolved backend tag in context.Context.
const BackendKey = contextKey("backend")

// JobIDKey is the key for the migration job identifier in context.Context.
const JobIDKey = contextKey("jobID")
