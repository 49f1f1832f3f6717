package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EmailScopeKind   = "kind"
	EmailScopeGlobal = "global"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigin  []string
	MaxBodyBytes     int64
	RateLimitEnabled bool

	StoreDriver           string
	DatabaseURL           string
	MongoURI              string
	MongoDatabase         string
	StorageConnectTimeout time.Duration
	StorageProbeInterval  time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MaxBlobBytes    int64
	PublicBaseURL   string

	RedisURL      string
	SessionSecret string
	SessionTTL    time.Duration
	RequireAuth   bool

	EmailScope string
}

// Load reads configuration from .env files, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	file, err := readFile(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Printf("config: ignoring config file: %v", err)
	}

	env := normalizeEnv(pick("ENV", file.Server.Env, "dev"))
	cfg := Config{
		Port:             pick("PORT", file.Server.Port, "8080"),
		Env:              env,
		CORSAllowOrigin:  splitAndTrim(pick("CORS_ALLOW_ORIGINS", strings.Join(file.Server.CORSAllowOrigins, ","), "http://localhost:5173")),
		MaxBodyBytes:     pickInt64("MAX_BODY_BYTES", file.Server.MaxBodyBytes, 50<<20),
		RateLimitEnabled: pickBool("RATE_LIMIT_ENABLED", file.Server.RateLimitEnabled, true),

		StoreDriver:           normalizeDriver(pick("STORE_DRIVER", file.Storage.Driver, "")),
		DatabaseURL:           pick("DATABASE_URL", file.Storage.DatabaseURL, ""),
		MongoURI:              pick("MONGODB_URI", file.Storage.MongoURI, ""),
		MongoDatabase:         pick("MONGODB_DATABASE", file.Storage.MongoDatabase, "jobboard"),
		StorageConnectTimeout: pickDuration("STORAGE_CONNECT_TIMEOUT", file.Storage.ConnectTimeout, 10*time.Second),
		StorageProbeInterval:  pickDuration("STORAGE_PROBE_INTERVAL", file.Storage.ProbeInterval, 5*time.Second),

		ObjectStoreType: normalizeStoreType(pick("OBJECT_STORE", file.Objects.Type, "local")),
		LocalStoreDir:   pick("LOCAL_STORE_DIR", file.Objects.LocalDir, "./data"),
		AWSRegion:       pick("AWS_REGION", file.Objects.AWSRegion, ""),
		S3Bucket:        pick("S3_BUCKET", file.Objects.S3Bucket, ""),
		S3Prefix:        pick("S3_PREFIX", file.Objects.S3Prefix, ""),
		SSEKMSKeyID:     pick("SSE_KMS_KEY_ID", file.Objects.SSEKMSKeyID, ""),
		MaxBlobBytes:    pickInt64("MAX_BLOB_BYTES", file.Objects.MaxBlobBytes, 20<<20),
		PublicBaseURL:   strings.TrimRight(pick("PUBLIC_BASE_URL", file.Objects.PublicBaseURL, ""), "/"),

		RedisURL:      pick("REDIS_URL", file.Sessions.RedisURL, ""),
		SessionSecret: pick("SESSION_SECRET", file.Sessions.Secret, ""),
		SessionTTL:    pickDuration("SESSION_TTL", file.Sessions.TTL, 24*time.Hour),
		RequireAuth:   pickBool("REQUIRE_AUTH", file.Sessions.RequireAuth, false),

		EmailScope: normalizeEmailScope(pick("EMAIL_SCOPE", file.Accounts.EmailScope, EmailScopeKind)),
	}

	if env == "production" {
		if err := cfg.Validate(); err != nil {
			log.Printf("config: %v", err)
		}
	}
	return cfg
}

// Validate reports settings that production deployments cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.ResolveDriver() == DriverMemory {
		errs = append(errs, errors.New("DATABASE_URL or MONGODB_URI is required in production"))
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}
	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		errs = append(errs, errors.New("OBJECT_STORE=s3 requires S3_BUCKET"))
	}
	return errors.Join(errs...)
}

// ResolveDriver returns the configured primary driver, inferring it from the
// connection strings when STORE_DRIVER is unset.
func (c Config) ResolveDriver() string {
	if c.StoreDriver != "" {
		return c.StoreDriver
	}
	switch {
	case strings.TrimSpace(c.MongoURI) != "":
		return DriverMongo
	case strings.TrimSpace(c.DatabaseURL) != "":
		return DriverPostgres
	default:
		return DriverMemory
	}
}

// IsDevLike reports whether the environment tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local", "":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// pick resolves env > file > default.
func pick(key, fileVal, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	if strings.TrimSpace(fileVal) != "" {
		return strings.TrimSpace(fileVal)
	}
	return def
}

func pickInt64(key string, fileVal, def int64) int64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && v > 0 {
			return v
		}
		log.Printf("config: %s invalid int: %q", key, raw)
	}
	if fileVal > 0 {
		return fileVal
	}
	return def
}

func pickBool(key string, fileVal *bool, def bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err == nil {
			return v
		}
		log.Printf("config: %s invalid bool: %q", key, raw)
	}
	if fileVal != nil {
		return *fileVal
	}
	return def
}

func pickDuration(key, fileVal string, def time.Duration) time.Duration {
	raw := pick(key, fileVal, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("config: %s invalid duration: %q", key, raw)
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mongo", "mongodb":
		return DriverMongo
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	case "memory", "mem":
		return DriverMemory
	default:
		return ""
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeEmailScope(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), EmailScopeGlobal) {
		return EmailScopeGlobal
	}
	return EmailScopeKind
}
