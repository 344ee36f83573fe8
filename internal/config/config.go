package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the YAML config file at configPath.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	normalize(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Mode != ModeLocal && cfg.Mode != ModeRemote {
		return nil, fmt.Errorf("invalid mode %q in %q, expected %q or %q", cfg.Mode, path, ModeLocal, ModeRemote)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}
	if cfg.Mongo.Port < 1 || cfg.Mongo.Port > 65535 {
		return nil, fmt.Errorf("invalid mongo.port %d in %q, expected 1-65535", cfg.Mongo.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}
	if cfg.Connectivity.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid connectivity.max_retries %d in %q, expected >= 0", cfg.Connectivity.MaxRetries, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Mode: ModeLocal,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Mongo: MongoRuntimeConfig{
			Host:       defaultMongoHost,
			Port:       defaultMongoPort,
			Database:   defaultMongoDatabase,
			Collection: defaultMongoCollection,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Connectivity: ConnectivityConfig{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
			MaxRetries:     defaultProbeMaxRetries,
			BaseDelayMS:    defaultProbeBaseDelayMS,
		},
		Backup: BackupRuntimeConfig{
			IntervalHours: defaultBackupIntervalHours,
			Keep:          defaultBackupKeep,
		},
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.Mode == "" {
		cfg.Mode = ModeLocal
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = defaultMongoCollection
	}
	if cfg.Connectivity.TimeoutSeconds <= 0 {
		cfg.Connectivity.TimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if cfg.Connectivity.BaseDelayMS <= 0 {
		cfg.Connectivity.BaseDelayMS = defaultProbeBaseDelayMS
	}
	if cfg.Backup.IntervalHours <= 0 {
		cfg.Backup.IntervalHours = defaultBackupIntervalHours
	}
	if cfg.Backup.Keep <= 0 {
		cfg.Backup.Keep = defaultBackupKeep
	}
}
