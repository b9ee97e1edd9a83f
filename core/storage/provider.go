package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ConfigProvider returns the object stores currently configured, in any order.
type ConfigProvider interface {
	Backends(ctx context.Context) ([]BackendConfig, error)
}

// StaticProvider serves a fixed list, typically built from environment configuration.
type StaticProvider struct {
	configs []BackendConfig
}

// NewStaticProvider creates a provider from fixed entries.
func NewStaticProvider(configs ...BackendConfig) *StaticProvider {
	return &StaticProvider{configs: configs}
}

func (p *StaticProvider) Backends(ctx context.Context) ([]BackendConfig, error) {
	out := make([]BackendConfig, len(p.configs))
	copy(out, p.configs)
	return out, nil
}

// ChainProvider asks each provider in turn and returns the first non-empty list.
type ChainProvider struct {
	providers []ConfigProvider
}

// NewChainProvider creates a provider that falls through the given providers.
func NewChainProvider(providers ...ConfigProvider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

func (p *ChainProvider) Backends(ctx context.Context) ([]BackendConfig, error) {
	var firstErr error
	for _, provider := range p.providers {
		configs, err := provider.Backends(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(configs) > 0 {
			return configs, nil
		}
	}
	return nil, firstErr
}

// BackendRecord is the persisted form of a backend definition.
// Rows can be edited at runtime; the registry picks edits up on its next resolve.
type BackendRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `gorm:"column:name;size:128;uniqueIndex" json:"name"`
	Kind           string    `gorm:"column:kind;size:16" json:"kind"`
	Driver         string    `gorm:"column:driver;size:16" json:"driver"`
	Enabled        bool      `gorm:"column:enabled;index" json:"enabled"`
	Priority       int       `gorm:"column:priority" json:"priority"`
	Endpoint       string    `gorm:"column:endpoint;size:512" json:"endpoint"`
	Region         string    `gorm:"column:region;size:64" json:"region"`
	Bucket         string    `gorm:"column:bucket;size:255" json:"bucket"`
	AccessKey      string    `gorm:"column:access_key;size:255" json:"-"`
	SecretKey      string    `gorm:"column:secret_key;size:512" json:"-"`
	UseSSL         bool      `gorm:"column:use_ssl" json:"use_ssl"`
	PathStyle      bool      `gorm:"column:path_style" json:"path_style"`
	TimeoutSeconds int       `gorm:"column:timeout_seconds" json:"timeout_seconds"`
}

// TableName overrides gorm to use the storage_backends table.
func (BackendRecord) TableName() string {
	return "storage_backends"
}

// Config converts the row into a backend definition.
func (r BackendRecord) Config() BackendConfig {
	return BackendConfig{
		Name:           r.Name,
		Kind:           Kind(r.Kind),
		Driver:         r.Driver,
		Enabled:        r.Enabled,
		Priority:       r.Priority,
		Endpoint:       r.Endpoint,
		Region:         r.Region,
		Bucket:         r.Bucket,
		AccessKey:      r.AccessKey,
		SecretKey:      r.SecretKey,
		UseSSL:         r.UseSSL,
		PathStyle:      r.PathStyle,
		TimeoutSeconds: r.TimeoutSeconds,
	}
}

// DBProvider reads backend definitions from the storage_backends table.
type DBProvider struct {
	db *gorm.DB
}

// NewDBProvider creates a database-backed provider.
func NewDBProvider(db *gorm.DB) *DBProvider {
	return &DBProvider{db: db}
}

func (p *DBProvider) Backends(ctx context.Context) ([]BackendConfig, error) {
	if p.db == nil {
		return nil, nil
	}
	var rows []BackendRecord
	if err := p.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("priority ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load storage backends: %w", err)
	}
	configs := make([]BackendConfig, 0, len(rows))
	for _, row := range rows {
		configs = append(configs, row.Config())
	}
	return configs, nil
}

// List returns every row, enabled or not.
func (p *DBProvider) List(ctx context.Context) ([]BackendRecord, error) {
	var rows []BackendRecord
	if err := p.db.WithContext(ctx).Order("priority ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list storage backends: %w", err)
	}
	return rows, nil
}

// Save inserts or updates a row by name.
func (p *DBProvider) Save(ctx context.Context, record *BackendRecord) error {
	if record == nil || record.Name == "" {
		return fmt.Errorf("%w: backend name is required", ErrInvalidConfig)
	}
	if err := record.Config().Validate(); err != nil {
		return err
	}
	var existing BackendRecord
	err := p.db.WithContext(ctx).Where("name = ?", record.Name).First(&existing).Error
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		return p.db.WithContext(ctx).Save(record).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return p.db.WithContext(ctx).Create(record).Error
	default:
		return fmt.Errorf("lookup storage backend: %w", err)
	}
}
