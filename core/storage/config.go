package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for the storage layer.
type Config struct {
	// Source selects where backend definitions come from (static, database, chain).
	Source string `mapstructure:"source" default:"chain"`
	// Backend is the kind of the statically configured backend (s3, oss, obs). Empty disables it.
	Backend string `mapstructure:"backend" default:""`
	// Name identifies the statically configured backend in logs and reports.
	Name string `mapstructure:"name" default:"default"`
	// Driver selects the S3 client implementation (aws, minio).
	Driver string `mapstructure:"driver" default:"aws"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:""`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// Bucket is the name of the bucket transfers are stored in.
	Bucket string `mapstructure:"bucket" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// PathStyle forces path-style addressing (MinIO, Ceph).
	PathStyle bool `mapstructure:"path_style" default:"false"`
	// TimeoutSeconds bounds connection setup and first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ProbeTimeoutSeconds bounds the liveness probe run on resolve.
	ProbeTimeoutSeconds int `mapstructure:"probe_timeout_seconds" default:"2"`
	// ProbeTTLSeconds is how long a probe result is reused.
	ProbeTTLSeconds int `mapstructure:"probe_ttl_seconds" default:"30"`
	// CacheSize is the maximum number of backend handles kept by the registry.
	CacheSize int `mapstructure:"cache_size" default:"16"`
	// LocalPath is the root directory of the local fallback storage.
	LocalPath string `mapstructure:"local_path" default:"data/transfers"`
}

// Static converts the flat configuration into a backend definition.
// It returns false when no static backend is configured.
func (c Config) Static() (BackendConfig, bool) {
	if strings.TrimSpace(c.Backend) == "" {
		return BackendConfig{}, false
	}
	return BackendConfig{
		Name:           c.Name,
		Kind:           Kind(strings.ToLower(c.Backend)),
		Driver:         c.Driver,
		Enabled:        true,
		Endpoint:       c.Endpoint,
		Region:         c.Region,
		Bucket:         c.Bucket,
		AccessKey:      c.AccessKey,
		SecretKey:      c.SecretKey,
		UseSSL:         c.UseSSL,
		PathStyle:      c.PathStyle,
		TimeoutSeconds: c.TimeoutSeconds,
	}, true
}

// RegistryOptions derives registry tuning from the configuration.
func (c Config) RegistryOptions() RegistryOptions {
	return RegistryOptions{
		ProbeTimeout: time.Duration(c.ProbeTimeoutSeconds) * time.Second,
		ProbeTTL:     time.Duration(c.ProbeTTLSeconds) * time.Second,
		CacheSize:    c.CacheSize,
	}
}

// BackendConfig describes one configured object store.
type BackendConfig struct {
	Name           string `json:"name"`
	Kind           Kind   `json:"kind"`
	Driver         string `json:"driver,omitempty"`
	Enabled        bool   `json:"enabled"`
	Priority       int    `json:"priority"`
	Endpoint       string `json:"endpoint"`
	Region         string `json:"region,omitempty"`
	Bucket         string `json:"bucket"`
	AccessKey      string `json:"access_key"`
	SecretKey      string `json:"secret_key"`
	UseSSL         bool   `json:"use_ssl"`
	PathStyle      bool   `json:"path_style"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Validate checks the fields every object store needs.
func (b BackendConfig) Validate() error {
	if !b.Kind.IsObjectStore() {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidConfig, b.Kind)
	}
	if b.Bucket == "" {
		return fmt.Errorf("%w: bucket name is required", ErrInvalidConfig)
	}
	if b.AccessKey == "" || b.SecretKey == "" {
		return fmt.Errorf("%w: access key and secret key are required", ErrInvalidConfig)
	}
	if b.Kind != KindS3 && b.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required for %s", ErrInvalidConfig, b.Kind)
	}
	return nil
}

// Fingerprint identifies the exact configuration, credentials included.
// Any edit produces a different value.
func (b BackendConfig) Fingerprint() string {
	raw, _ := json.Marshal(b)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Timeout returns the per-connection timeout with a 30s floor when unset.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}
