package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Credentials have no safe default: without them the process must not start.
func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TMDB_API_KEY", "test-key")
	_, err = Load()
	assert.Error(t, err, "session secret is still missing")

	t.Setenv("SESSION_SECRET", "test-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.TMDB.APIKey)
	assert.Equal(t, "test-secret", cfg.Session.Secret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Contains(t, cfg.DB.DSN(), "dbname=movie_discovery")
}
