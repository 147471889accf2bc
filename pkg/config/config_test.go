package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SITE_ADMIN_USERNAME", "nisaaulia")
	t.Setenv("SITE_ADMIN_PASSWORD", "hunter2")
	t.Setenv("SITE_SESSION_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "site.db", cfg.DBDSN)
	assert.Equal(t, "content/posts", cfg.ContentDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "ap-southeast-1", cfg.S3Region)
	assert.True(t, cfg.AuditEnabled)
	assert.False(t, cfg.AuditLogDenied)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 60, cfg.CacheTTL)
	assert.Equal(t, 512, cfg.CacheMaxSize)
	assert.False(t, cfg.Production())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `listen: ":9000"
env: production
db_type: postgres
db_dsn: "host=db user=site dbname=site"
admin_username: nisaaulia
admin_password: hunter2
session_secret: s3cret
cors_origins:
  - https://nisaaulia.example
s3_bucket: site-assets
media_base_url: https://cdn.example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.True(t, cfg.Production())
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, []string{"https://nisaaulia.example"}, cfg.CORSOrigins)
	assert.Equal(t, "site-assets", cfg.S3Bucket)
	assert.Equal(t, "https://cdn.example", cfg.MediaBaseURL)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `listen: ":9000"
admin_username: from-file
admin_password: hunter2
session_secret: s3cret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("SITE_ADMIN_USERNAME", "from-env")
	t.Setenv("SITE_LISTEN", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AdminUsername)
	assert.Equal(t, ":7000", cfg.Listen)
}

func TestLoadRequiresCredentials(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin_username")

	t.Setenv("SITE_ADMIN_USERNAME", "nisaaulia")
	t.Setenv("SITE_ADMIN_PASSWORD", "hunter2")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_secret")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
