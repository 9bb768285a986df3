package config

// EnvPrefix is handed to envconfig; every tag below carries the full name.
const EnvPrefix = "LOCKERBOX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

const (
	EnvAppEnv    = "LOCKERBOX_APP_ENV"
	EnvPort      = "LOCKERBOX_APP_PORT"
	EnvLogLevel  = "LOCKERBOX_LOG_LEVEL"
	EnvLogFormat = "LOCKERBOX_LOG_FORMAT"

	EnvDBDSN    = "LOCKERBOX_DB_DSN"
	EnvDBDriver = "LOCKERBOX_DB_DRIVER"
	EnvDBHost   = "LOCKERBOX_DB_HOST"
	EnvDBUser   = "LOCKERBOX_DB_USER"
	EnvDBName   = "LOCKERBOX_DB_NAME"

	EnvRedisURL = "LOCKERBOX_REDIS_URL"

	EnvJWTSecret              = "LOCKERBOX_JWT_SECRET"
	EnvJWTIssuer              = "LOCKERBOX_JWT_ISSUER"
	EnvJWTExpMins             = "LOCKERBOX_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LOCKERBOX_REFRESH_TOKEN_TTL_MINUTES"

	EnvAutoMigrate = "LOCKERBOX_AUTO_MIGRATE"

	EnvCORSAllowedOrigins = "LOCKERBOX_CORS_ALLOWED_ORIGINS"
	EnvOrdersTimeZone     = "LOCKERBOX_ORDERS_TIMEZONE"

	EnvStorageDriver   = "LOCKERBOX_STORAGE_DRIVER"
	EnvStorageLocalDir = "LOCKERBOX_STORAGE_LOCAL_DIR"

	EnvGoogleMapsAPIKey = "LOCKERBOX_GOOGLE_MAPS_API_KEY"
	EnvGCPProjectID     = "LOCKERBOX_GCP_PROJECT_ID"
	EnvGCSBucket        = "LOCKERBOX_GCS_BUCKET_NAME"

	EnvPubSubOrdersTopic   = "LOCKERBOX_PUBSUB_ORDERS_TOPIC"
	EnvPubSubMachinesTopic = "LOCKERBOX_PUBSUB_MACHINES_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
