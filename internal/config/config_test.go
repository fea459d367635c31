package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "MONGODB_URI", "MONGO_URI", "REDIS_URI", "POSTGRES_URI", "PORT",
		"ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "FRONTEND_URL_3", "REQUEST_TIMEOUT",
		"AUTH_STRICT_ROLE_CHECK", "FIREBASE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "mongodb://localhost:27017/reportguard", cfg.MongoURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.StrictRoleCheck)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.RedisURI)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("MONGO_URI", "mongodb://db:27017/reports")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("AUTH_STRICT_ROLE_CHECK", "true")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("ALLOWED_HOST", " api.example ")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongodb://db:27017/reports", cfg.MongoURI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.StrictRoleCheck)
	assert.Equal(t, "/secrets/sa.json", cfg.FirebaseCredentialsFile)
	assert.Equal(t, "api.example", cfg.AllowedHost)
}

func TestFrontendURLsDeduplicated(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.example")
	t.Setenv("FRONTEND_URL_2", "https://APP.example")
	t.Setenv("FRONTEND_URL_3", "https://admin.example")

	cfg := Load()
	assert.Equal(t, []string{"https://app.example", "https://admin.example"}, cfg.AllowedOrigins)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	assert.Equal(t, 15*time.Second, Load().RequestTimeout)
}
