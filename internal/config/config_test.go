package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  host: 0.0.0.0
  port: 9000
  write_timeout: 30s
  trusted_proxy: true
database:
  host: db
  port: 5432
  user: photogram
  password: secret
  dbname: photogram
  max_conns: 8
media:
  driver: fs
  upload_dir: /var/uploads
jwt:
  secret: topsecret
  ttl: 24h
log:
  level: debug
`

func TestParseDurationsAndSections(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Server.TrustedProxy)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "/var/uploads", cfg.Media.UploadDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := Parse([]byte("jwt:\n  secret: x\n"))
	require.NoError(t, err)
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fs", cfg.Media.Driver)
	assert.Equal(t, "uploads", cfg.Media.UploadDir)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxUploadBytes())
	assert.False(t, cfg.Server.TrustedProxy)
	assert.Equal(t, time.Hour, cfg.CSRF.TTL)
	assert.Equal(t, time.Duration(0), cfg.JWT.TTL)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvOverridesSecrets(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	env := map[string]string{
		"PHOTOGRAM_JWT_SECRET":        "from-env",
		"PHOTOGRAM_DATABASE_PASSWORD": "db-env",
		"PHOTOGRAM_S3_SECRET_KEY":     "",
	}
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "db-env", cfg.Database.Password)
	assert.Empty(t, cfg.Media.S3.SecretKey)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Error(t, cfg.Validate(), "empty secret")

	cfg.JWT.Secret = "x"
	cfg.Media.Driver = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.Media.Driver = "s3"
	assert.Error(t, cfg.Validate(), "s3 without bucket")

	cfg.Media.S3.Bucket = "photos"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	cfg.applyDefaults()

	assert.Equal(t,
		"host=db port=5432 user=photogram password=secret dbname=photogram sslmode=disable pool_max_conns=8",
		cfg.Database.DSN())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	t.Setenv("PHOTOGRAM_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, int32(8), cfg.Database.MaxConns)
}
