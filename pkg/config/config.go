package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Orders        OrdersConfig
	Storage       StorageConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg.GCS); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOCKERBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"LOCKERBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOCKERBOX_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOCKERBOX_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LOCKERBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"LOCKERBOX_DB_DSN"`
	Driver string `envconfig:"LOCKERBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOCKERBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"LOCKERBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOCKERBOX_DB_USER"`
	LegacyPassword string `envconfig:"LOCKERBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOCKERBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOCKERBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOCKERBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOCKERBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOCKERBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOCKERBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"LOCKERBOX_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LOCKERBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOCKERBOX_REDIS_ADDR"`
	Password     string        `envconfig:"LOCKERBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOCKERBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOCKERBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOCKERBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOCKERBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOCKERBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOCKERBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LOCKERBOX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LOCKERBOX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LOCKERBOX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LOCKERBOX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOCKERBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOCKERBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOCKERBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOCKERBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOCKERBOX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LOCKERBOX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LOCKERBOX_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LOCKERBOX_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type OrdersConfig struct {
	// TimeZone drives the calendar-day comparison for active orders.
	TimeZone string `envconfig:"LOCKERBOX_ORDERS_TIMEZONE" default:"Local"`
}

// Location resolves the configured zone, falling back to the server zone.
func (o OrdersConfig) Location() *time.Location {
	name := strings.TrimSpace(o.TimeZone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

type StorageConfig struct {
	Driver   string `envconfig:"LOCKERBOX_STORAGE_DRIVER" default:"local"`
	LocalDir string `envconfig:"LOCKERBOX_STORAGE_LOCAL_DIR" default:"uploads"`
}

func (s StorageConfig) IsGCS() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), StorageDriverGCS)
}

func (s StorageConfig) validate(gcs GCSConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverLocal:
		if strings.TrimSpace(s.LocalDir) == "" {
			return fmt.Errorf("%s is required for local storage", EnvStorageLocalDir)
		}
		return nil
	case StorageDriverGCS:
		if strings.TrimSpace(gcs.BucketName) == "" {
			return fmt.Errorf("%s is required for gcs storage", EnvGCSBucket)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, s.Driver)
	}
}

type GoogleMapsConfig struct {
	APIKey   string        `envconfig:"LOCKERBOX_GOOGLE_MAPS_API_KEY"`
	Language string        `envconfig:"LOCKERBOX_GOOGLE_MAPS_LANGUAGE" default:"en"`
	Timeout  time.Duration `envconfig:"LOCKERBOX_GOOGLE_MAPS_TIMEOUT" default:"10s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LOCKERBOX_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LOCKERBOX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LOCKERBOX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"LOCKERBOX_GCS_BUCKET_NAME"`
}

type PubSubConfig struct {
	OrdersTopic   string `envconfig:"LOCKERBOX_PUBSUB_ORDERS_TOPIC" default:"lb-order-events"`
	MachinesTopic string `envconfig:"LOCKERBOX_PUBSUB_MACHINES_TOPIC" default:"lb-machine-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LOCKERBOX_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LOCKERBOX_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LOCKERBOX_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
