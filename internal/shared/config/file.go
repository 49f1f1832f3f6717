package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML configuration file. Empty values fall
// through to defaults; environment variables always win.
type fileConfig struct {
	Server struct {
		Port             string   `yaml:"port"`
		Env              string   `yaml:"env"`
		CORSAllowOrigins []string `yaml:"cors_allow_origins"`
		MaxBodyBytes     int64    `yaml:"max_body_bytes"`
		RateLimitEnabled *bool    `yaml:"rate_limit_enabled"`
	} `yaml:"server"`

	Storage struct {
		Driver         string `yaml:"driver"`
		DatabaseURL    string `yaml:"database_url"`
		MongoURI       string `yaml:"mongodb_uri"`
		MongoDatabase  string `yaml:"mongodb_database"`
		ConnectTimeout string `yaml:"connect_timeout"`
		ProbeInterval  string `yaml:"probe_interval"`
	} `yaml:"storage"`

	Objects struct {
		Type          string `yaml:"type"`
		LocalDir      string `yaml:"local_dir"`
		AWSRegion     string `yaml:"aws_region"`
		S3Bucket      string `yaml:"s3_bucket"`
		S3Prefix      string `yaml:"s3_prefix"`
		SSEKMSKeyID   string `yaml:"sse_kms_key_id"`
		MaxBlobBytes  int64  `yaml:"max_blob_bytes"`
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"objects"`

	Sessions struct {
		Secret      string `yaml:"secret"`
		TTL         string `yaml:"ttl"`
		RedisURL    string `yaml:"redis_url"`
		RequireAuth *bool  `yaml:"require_auth"`
	} `yaml:"sessions"`

	Accounts struct {
		EmailScope string `yaml:"email_scope"`
	} `yaml:"accounts"`
}

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment are left untouched.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// readFile parses the YAML config at path. A missing file yields a zero
// fileConfig and no error.
func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}
