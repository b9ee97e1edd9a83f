package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"transfer-relay/core/database"
	"transfer-relay/core/logger"
	"transfer-relay/core/server"
	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the relay's full configuration, one section per package.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object stores and local fallback directory.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Transfer holds configuration for transfer records and presigned URLs.
	Transfer transfer.Config `mapstructure:"transfer"`
}

// LoadConfig reads <path>/.env when present, then the environment.
// Keys map by section, e.g. STORAGE_BUCKET -> storage.bucket and
// TRANSFER_MAX_EXPIRES_SECONDS -> transfer.max_expires_seconds.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is normal in containers
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects combinations the relay cannot serve.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Source) {
	case "", "static", "database", "chain":
	default:
		return fmt.Errorf("storage.source must be static, database or chain, got %q", c.Storage.Source)
	}
	if c.Transfer.DefaultExpires() > c.Transfer.MaxExpires() {
		return fmt.Errorf("transfer.default_expires_seconds (%d) exceeds transfer.max_expires_seconds (%d)",
			c.Transfer.DefaultExpiresSeconds, c.Transfer.MaxExpiresSeconds)
	}
	if c.Transfer.PathPrefix == "" || strings.Contains(c.Transfer.PathPrefix, "..") {
		return fmt.Errorf("transfer.path_prefix %q is not a usable object key prefix", c.Transfer.PathPrefix)
	}
	return nil
}

// bindValues walks the struct and registers every mapstructure key with its
// `default` tag, so AutomaticEnv can see keys that have no default.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
