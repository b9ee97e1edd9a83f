package cmd

import (
	"fmt"
	"strings"

	"transfer-relay/core/config"
	"transfer-relay/core/database"
	"transfer-relay/core/logger"
	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer"
	"transfer-relay/feature/transfer/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage definition sources.
const (
	sourceStatic   = "static"
	sourceDatabase = "database"
	sourceChain    = "chain"
)

// deps holds what every command builds from configuration.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	backends *storage.DBProvider
	registry *storage.Registry
	local    *storage.LocalBackend
	store    *transfer.Repository
	fallback *transfer.LocalFallback
}

// schemaModels lists every table the relay owns.
func schemaModels() []any {
	return []any{&models.TransferRecord{}, &storage.BackendRecord{}}
}

// bootstrap loads configuration, connects the database and wires storage.
// The database is required: transfer records are the source of truth.
func bootstrap() (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, schemaModels()...); err != nil {
			return nil, err
		}
	}

	d := &deps{
		cfg:      cfg,
		logger:   logg,
		db:       db,
		backends: storage.NewDBProvider(db),
		store:    transfer.NewRepository(db),
	}

	provider, err := d.provider()
	if err != nil {
		return nil, err
	}
	d.registry = storage.NewRegistry(provider, nil, logg, cfg.Storage.RegistryOptions())

	d.local, err = storage.NewLocal(cfg.Storage.LocalPath)
	if err != nil {
		return nil, err
	}
	d.fallback = transfer.NewLocalFallback(d.local, d.store, logg)

	return d, nil
}

// provider picks where backend definitions come from. In chain mode rows in
// storage_backends win and the environment backend is used when the table is empty.
func (d *deps) provider() (storage.ConfigProvider, error) {
	var static []storage.BackendConfig
	if cfg, ok := d.cfg.Storage.Static(); ok {
		static = append(static, cfg)
	}

	switch strings.ToLower(d.cfg.Storage.Source) {
	case sourceStatic:
		return storage.NewStaticProvider(static...), nil
	case sourceDatabase:
		return d.backends, nil
	case "", sourceChain:
		return storage.NewChainProvider(d.backends, storage.NewStaticProvider(static...)), nil
	default:
		return nil, fmt.Errorf("unknown storage source %q", d.cfg.Storage.Source)
	}
}
