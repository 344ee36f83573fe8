package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                      `yaml:"port"`
	Env            string                   `yaml:"env"`  // "development" | "production"
	Mode           string                   `yaml:"mode"` // "local" | "remote"
	JWTSecret      string                   `yaml:"jwt_secret"`
	AllowedOrigins []string                 `yaml:"allowed_origins"`
	Paths          RuntimePathsConfig       `yaml:"paths"`
	Database       DatabaseRuntimeConfig    `yaml:"database"`
	Mongo          MongoRuntimeConfig       `yaml:"mongo"`
	Redis          RedisRuntimeConfig       `yaml:"redis"`
	Connectivity   ConnectivityConfig       `yaml:"connectivity"`
	Backup         BackupRuntimeConfig      `yaml:"backup"`
	Mail           MailRuntimeConfig        `yaml:"mail"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// IsRemote reports whether the remote (authenticated mood log) mode is active.
func (c *AppConfig) IsRemote() bool { return c.Mode == ModeRemote }

type RuntimePathsConfig struct {
	Data    string `yaml:"data"` // notes blob lives here in local mode
	Logs    string `yaml:"logs"`
	Backups string `yaml:"backups"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type MongoRuntimeConfig struct {
	URI        string `yaml:"uri"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type RedisRuntimeConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

// ConnectivityConfig tunes the pre-flight reachability guard.
type ConnectivityConfig struct {
	ProbeURL       string `yaml:"probe_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	BaseDelayMS    int    `yaml:"base_delay_ms"`
}

type BackupRuntimeConfig struct {
	Enable        bool      `yaml:"enable"`
	IntervalHours int       `yaml:"interval_hours"`
	Keep          int       `yaml:"keep"`
	S3            S3Options `yaml:"s3"`
}

type S3Options struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathTemplate    string `yaml:"path_template"`
}

type MailRuntimeConfig struct {
	Enable bool   `yaml:"enable"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	From   string `yaml:"from"`
}
