// Package config provides configuration management for the transfer relay.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section, and every key maps to an upper-case environment variable
// (storage.bucket -> STORAGE_BUCKET).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key, body limit and public URL
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: where backend definitions come from, the static backend, registry caching and the local fallback directory
//   - Transfer: object key prefix, presigned URL lifetimes and sweep tuning
//   - Log: Logging level, format and service name
//
// LoadConfig validates the result: an unknown storage source, a default URL
// lifetime above the cap, or an unusable object key prefix fails startup.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
