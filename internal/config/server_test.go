package config

import (
	"testing"
	"time"

	"bess-screening/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	sc, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "8080", sc.Port)
	assert.False(t, sc.Production())
	assert.Equal(t, data.DefaultDatapackageURL, sc.CatalogURL)
	assert.Equal(t, 15*time.Minute, sc.CatalogTTL)
	assert.Equal(t, 100, sc.MaxReports)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("BESS_PORT", "9090")
	t.Setenv("BESS_ENV", "production")
	t.Setenv("BESS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("BESS_CATALOG_TTL", "1m")
	t.Setenv("BESS_MAX_REPORTS", "5")

	sc, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "9090", sc.Port)
	assert.True(t, sc.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, sc.AllowedOrigins)
	assert.Equal(t, time.Minute, sc.CatalogTTL)
	assert.Equal(t, 5, sc.MaxReports)
}

func TestLoadServerRejectsNegativeMaxReports(t *testing.T) {
	t.Setenv("BESS_MAX_REPORTS", "-1")
	_, err := LoadServer()
	assert.Error(t, err)
}
