package infrastructure_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/infrastructure"
)

func TestNew_MemorySessions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Backend.BaseURL = "http://127.0.0.1:1"
	cfg.Session.Store = config.SessionStoreMemory
	cfg.Session.CookieName = "sid"
	cfg.Session.SameSite = "strict"
	cfg.App.Recordings.BasePath = t.TempDir()
	require.NoError(t, cfg.Finalize())

	infra, err := infrastructure.New(cfg)
	require.NoError(t, err)

	assert.Nil(t, infra.Database)
	assert.NotNil(t, infra.Sessions)
	assert.NotNil(t, infra.Storage)
	assert.NotNil(t, infra.Client)
	assert.Equal(t, "sid", infra.Cookie.Name)
	assert.Equal(t, http.SameSiteStrictMode, infra.Cookie.SameSite)
	assert.Equal(t, cfg.Session.TTLDuration(), infra.Cookie.TTL)

	require.NoError(t, infra.Start())
	infra.Lifecycle.WaitForStartup()
	assert.True(t, infra.Lifecycle.Ready())
	assert.NoError(t, infra.Lifecycle.Shutdown(2*time.Second))
}
