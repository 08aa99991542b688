package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "social", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.Transactions)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "cloudinary", cfg.Media.Provider)
	assert.NotEmpty(t, cfg.Media.UploadDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Release())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("MEDIA_PROVIDER", "minio")
	t.Setenv("UPLOAD_DIR", "/var/tmp/uploads")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Release())
	assert.True(t, cfg.Mongo.Transactions)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "minio", cfg.Media.Provider)
	assert.Equal(t, "/var/tmp/uploads", cfg.Media.UploadDir)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MEDIA_PROVIDER", "ftp")

	_, err := Load()
	assert.Error(t, err)
}
