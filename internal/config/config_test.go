package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: scolagest
  version: 0.0.1
  env: test
server:
  port: 9999
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 2s
database:
  host: db.local
  port: 3306
  user: u
  password: p
  name: scolagest
  charset: utf8mb4
  parse_time: true
  loc: UTC
redis:
  host: redis.local
  port: 6380
  ingestion_queue: q:in
  report_queue: q:rep
  dlq_suffix: ":dlq"
authority:
  base_url: https://authority.test
  batch_size: 25
  retry_attempts: 2
  retry_delay: 1s
workers:
  ingestion:
    count: 3
  report:
    count: 1
logging:
  level: debug
  format: console
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, testYAML))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "scolagest", cfg.App.Name)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Workers.Ingestion.Count)
	assert.Equal(t, 25, cfg.Authority.BatchSize)
	assert.Equal(t, "q:in", cfg.Redis.IngestionQueue)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "app: [not: closed"))

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, testYAML))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "u:p@tcp(db.local:3306)/scolagest?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseDSN())
	assert.Equal(t, "redis.local:6380", cfg.RedisAddr())
}
