// Package router decides, per logical collection, which backing store owns
// an operation. Routing is a pure function of (collection, mode, mapping);
// the mapping is fixed for the process lifetime once the bridge is
// configured, so there is nothing to cache or invalidate.
package router

// Backend tags the store that handles an operation. The adapter core
// dispatches on this tag once per call.
type Backend string

const (
	BackendPrimary Backend = "primary"
	BackendLegacy  Backend = "legacy"
)

// Mode is the bridge operating mode.
type Mode string

const (
	// ModePrimaryOnly wires the core straight to the primary delegate;
	// the router is never consulted and no legacy pool is opened.
	ModePrimaryOnly Mode = "primary-only"
	// ModeLegacyOnly routes every collection to legacy regardless of mapping.
	ModeLegacyOnly Mode = "legacy-only"
	// ModeDual routes by mapping, defaulting to legacy.
	ModeDual Mode = "dual"
	// ModeMigration routes like dual while a replicator copies data across.
	ModeMigration Mode = "migration"
)

// ValidMode reports whether m names a known operating mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModePrimaryOnly, ModeLegacyOnly, ModeDual, ModeMigration:
		return true
	}
	return false
}

// Router resolves collections to backends.
type Router struct {
	mode    Mode
	mapping map[string]Backend
	global  map[string]Backend
}

// New creates a router for the given mode and mappings. Nil maps are
// treated as empty.
func New(mode Mode, mapping, global map[string]Backend) *Router {
	if mapping == nil {
		mapping = map[string]Backend{}
	}
	if global == nil {
		global = map[string]Backend{}
	}
	return &Router{mode: mode, mapping: mapping, global: global}
}

// Mode returns the operating mode the router was built with.
func (r *Router) Mode() Mode {
	return r.mode
}

// Route resolves the backend for a collection. Absent mapping entries
// default to legacy in dual and migration modes; legacy-only ignores the
// mapping entirely.
func (r *Router) Route(collection string) Backend {
	if r.mode == ModeLegacyOnly {
		return BackendLegacy
	}
	if backend, ok := r.mapping[collection]; ok {
		return backend
	}
	return BackendLegacy
}

// RouteGlobal resolves the backend for a singleton global entity using the
// global mapping with the same default.
func (r *Router) RouteGlobal(name string) Backend {
	if r.mode == ModeLegacyOnly {
		return BackendLegacy
	}
	if backend, ok := r.global[name]; ok {
		return backend
	}
	return BackendLegacy
}

// NeedsPrimary reports whether any configured mapping routes to the
// primary store, which decides whether the core delegates Connect there.
// Migration mode always needs the primary store: the replicator writes it.
func (r *Router) NeedsPrimary() bool {
	if r.mode == ModeMigration {
		return true
	}
	if r.mode == ModeLegacyOnly {
		return false
	}
	for _, b := range r.mapping {
		if b == BackendPrimary {
			return true
		}
	}
	for _, b := range r.global {
		if b == BackendPrimary {
			return true
		}
	}
	return false
}

// NeedsLegacy reports whether the legacy pool must be opened. With
// default-to-legacy routing this is every mode except primary-only.
func (r *Router) NeedsLegacy() bool {
	return r.mode != ModePrimaryOnly
}
