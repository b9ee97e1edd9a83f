package transfer

import "time"

// Config holds configuration for the transfer relay.
type Config struct {
	// PathPrefix is the first segment of every object key.
	PathPrefix string `mapstructure:"path_prefix" default:"FTP_FILES"`
	// DefaultExpiresSeconds is the presigned URL lifetime when the caller gives none.
	DefaultExpiresSeconds int `mapstructure:"default_expires_seconds" default:"3600"`
	// MaxExpiresSeconds caps presigned URL lifetime. Longer requests are clamped.
	MaxExpiresSeconds int `mapstructure:"max_expires_seconds" default:"604800"`
	// PendingAgeMinutes is how old an unverified record must be before the sweep checks it.
	PendingAgeMinutes int `mapstructure:"pending_age_minutes" default:"60"`
	// SweepWorkers bounds concurrent existence checks in the reconcile sweep.
	SweepWorkers int `mapstructure:"sweep_workers" default:"8"`
}

// DefaultExpires returns the default lifetime with a one hour fallback.
func (c Config) DefaultExpires() time.Duration {
	if c.DefaultExpiresSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.DefaultExpiresSeconds) * time.Second
}

// MaxExpires returns the lifetime cap with a seven day fallback.
func (c Config) MaxExpires() time.Duration {
	if c.MaxExpiresSeconds <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.MaxExpiresSeconds) * time.Second
}

// PendingAge returns the minimum age of records considered by the sweep.
func (c Config) PendingAge() time.Duration {
	if c.PendingAgeMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.PendingAgeMinutes) * time.Minute
}
