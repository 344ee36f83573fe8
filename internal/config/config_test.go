package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "jwt_secret: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.Port)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsRemote())
	assert.Equal(t, "moods", cfg.Mongo.Collection)
	assert.Equal(t, 5, cfg.Connectivity.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Connectivity.MaxRetries)
	assert.Equal(t, 2000, cfg.Connectivity.BaseDelayMS)
	assert.Equal(t, 24, cfg.Backup.IntervalHours)
	assert.Equal(t, 7, cfg.Backup.Keep)
}

func TestLoadRemoteMode(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: Production
mode: Remote
jwt_secret: s3cret
mongo:
  host: mongo.internal
  database: diary
redis:
  host: redis.internal
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsRemote(), "mode is case-insensitive")
	assert.False(t, cfg.IsDev())
	assert.Contains(t, cfg.Mongo.URIValue(), "mongo.internal")
	assert.Contains(t, cfg.Redis.URLValue(), "redis.internal")
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, "mode: hybrid\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid mode")
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "portt: 8080\n")

	_, err := Load(path)
	assert.Error(t, err, "typos in config keys must fail loudly")
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestDSNValueFromParts(t *testing.T) {
	c := DatabaseRuntimeConfig{
		Host:      "db.internal",
		Port:      3307,
		User:      "diary",
		Password:  "pw",
		Name:      "mood_diary",
		ParseTime: true,
	}

	dsn := c.DSNValue()
	assert.Contains(t, dsn, "diary:pw@tcp(db.internal:3307)/mood_diary")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNValueExplicitWins(t *testing.T) {
	c := DatabaseRuntimeConfig{DSN: "user:pw@tcp(x)/y", Host: "ignored"}
	assert.Equal(t, "user:pw@tcp(x)/y", c.DSNValue())
}

func TestMongoURIWithCredentials(t *testing.T) {
	c := MongoRuntimeConfig{Host: "mongo.internal", Port: 27018, Username: "u", Password: "p"}
	assert.Equal(t, "mongodb://u:p@mongo.internal:27018", c.URIValue())
}

func TestRedisURLValue(t *testing.T) {
	c := RedisRuntimeConfig{Host: "redis.internal", Port: 6380, DB: 2, TLS: true}
	assert.Equal(t, "rediss://redis.internal:6380/2", c.URLValue())
}

func TestNotesFilePathAbsolute(t *testing.T) {
	dir := t.TempDir()
	cfg := AppConfig{Paths: RuntimePathsConfig{Data: dir}}
	assert.Equal(t, filepath.Join(dir, "notes.json"), cfg.NotesFilePath())
}
