package config

import (
	"testing"

	"cms-bridge/internal/bridge/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LEGACY_DB_NAME", "wordpress")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dual", cfg.Mode)
	assert.Equal(t, 100, cfg.MigrationBatchSize)
	assert.Equal(t, "wp_", cfg.Legacy.TablePrefix)
	assert.Equal(t, 3306, cfg.Legacy.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Primary.URI)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_RejectsUnknownMode(t *testing.T) {
	t.Setenv("LEGACY_DB_NAME", "wordpress")
	t.Setenv("BRIDGE_MODE", "hybrid")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_LegacyDatabaseRequiredOutsidePrimaryOnly(t *testing.T) {
	t.Setenv("BRIDGE_MODE", "dual")
	t.Setenv("LEGACY_DB_NAME", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("BRIDGE_MODE", "primary-only")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "primary-only", cfg.Mode)
}

func TestLegacyConfig_DSN(t *testing.T) {
	cfg := LegacyConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "wp",
		Password: "secret",
		Database: "wordpress",
	}
	assert.Equal(t, "wp:secret@tcp(db.internal:3307)/wordpress?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestParseMapping(t *testing.T) {
	mapping, err := ParseMapping("posts=primary, pages=legacy,media=primary")
	require.NoError(t, err)
	assert.Equal(t, map[string]router.Backend{
		"posts": router.BackendPrimary,
		"pages": router.BackendLegacy,
		"media": router.BackendPrimary,
	}, mapping)
}

func TestParseMapping_Empty(t *testing.T) {
	mapping, err := ParseMapping("  ")
	require.NoError(t, err)
	assert.Empty(t, mapping)
}

func TestParseMapping_Malformed(t *testing.T) {
	_, err := ParseMapping("posts")
	assert.Error(t, err)

	_, err = ParseMapping("posts=mongo")
	assert.Error(t, err)
}
