package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort = 3600
	defaultEnv  = "development"

	// ModeLocal serves the on-device note store; ModeRemote serves the
	// authenticated mood log backed by MySQL + MongoDB.
	ModeLocal  = "local"
	ModeRemote = "remote"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "mood_diary"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultMongoHost       = "127.0.0.1"
	defaultMongoPort       = 27017
	defaultMongoDatabase   = "mood_diary"
	defaultMongoCollection = "moods"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultProbeTimeoutSeconds = 5
	defaultProbeMaxRetries     = 3
	defaultProbeBaseDelayMS    = 2000

	defaultBackupIntervalHours = 24
	defaultBackupKeep          = 7
)
