package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_LegacyOnlyIgnoresMapping(t *testing.T) {
	r := New(ModeLegacyOnly, map[string]Backend{
		"posts": BackendPrimary,
		"pages": BackendPrimary,
	}, nil)

	for _, c := range []string{"posts", "pages", "media", "anything"} {
		assert.Equal(t, BackendLegacy, r.Route(c), "collection %s", c)
	}
	assert.False(t, r.NeedsPrimary())
	assert.True(t, r.NeedsLegacy())
}

func TestRoute_DualUsesMappingOrDefault(t *testing.T) {
	r := New(ModeDual, map[string]Backend{
		"posts": BackendPrimary,
		"media": BackendLegacy,
	}, nil)

	assert.Equal(t, BackendPrimary, r.Route("posts"))
	assert.Equal(t, BackendLegacy, r.Route("media"))
	assert.Equal(t, BackendLegacy, r.Route("pages")) // absent entry defaults to legacy
}

func TestRoute_MigrationBehavesLikeDual(t *testing.T) {
	r := New(ModeMigration, map[string]Backend{"posts": BackendPrimary}, nil)
	assert.Equal(t, BackendPrimary, r.Route("posts"))
	assert.Equal(t, BackendLegacy, r.Route("pages"))
	assert.True(t, r.NeedsPrimary())
}

func TestRouteGlobal(t *testing.T) {
	r := New(ModeDual, nil, map[string]Backend{"settings": BackendPrimary})
	assert.Equal(t, BackendPrimary, r.RouteGlobal("settings"))
	assert.Equal(t, BackendLegacy, r.RouteGlobal("theme"))
}

func TestNeedsPrimary_FromMappings(t *testing.T) {
	assert.False(t, New(ModeDual, nil, nil).NeedsPrimary())
	assert.True(t, New(ModeDual, map[string]Backend{"posts": BackendPrimary}, nil).NeedsPrimary())
	assert.True(t, New(ModeDual, nil, map[string]Backend{"settings": BackendPrimary}).NeedsPrimary())
}

func TestNeedsLegacy(t *testing.T) {
	assert.False(t, New(ModePrimaryOnly, nil, nil).NeedsLegacy())
	assert.True(t, New(ModeDual, nil, nil).NeedsLegacy())
	assert.True(t, New(ModeMigration, nil, nil).NeedsLegacy())
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode(ModeDual))
	assert.True(t, ValidMode(ModePrimaryOnly))
	assert.False(t, ValidMode(Mode("hybrid")))
}
