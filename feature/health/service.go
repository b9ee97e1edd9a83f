package health

import (
	"context"
	"errors"
	"time"

	"transfer-relay/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errNoDatabase = errors.New("database connection is nil")

// StorageReporter lists configured object stores with their probe result.
// *storage.Registry implements it.
type StorageReporter interface {
	Report(ctx context.Context) ([]storage.BackendStatus, error)
}

// Status is the liveness summary.
type Status struct {
	Status   string `json:"status"` // "ok", "degraded"
	Database string `json:"database"`
	Storage  string `json:"storage"` // active backend kind, "local" when none
}

// LocalReport describes the local fallback directory.
type LocalReport struct {
	Path     string `json:"path"`
	Writable bool   `json:"writable"`
	Error    string `json:"error,omitempty"`
}

// StorageReport is the detailed storage check.
type StorageReport struct {
	Active   string                  `json:"active"`
	Backends []storage.BackendStatus `json:"backends"`
	Local    *LocalReport            `json:"local,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// Service runs health checks.
type Service struct {
	db       *gorm.DB
	reporter StorageReporter
	local    *storage.LocalBackend
	models   []any
	logger   *zap.Logger
}

// NewService creates a health service. models are the gorm models whose
// tables the schema check verifies.
func NewService(db *gorm.DB, reporter StorageReporter, local *storage.LocalBackend, logger *zap.Logger, models ...any) *Service {
	return &Service{
		db:       db,
		reporter: reporter,
		local:    local,
		models:   models,
		logger:   logger,
	}
}

// Check pings the database and reports which storage serves transfers.
func (s *Service) Check(ctx context.Context) Status {
	status := Status{Status: "ok", Database: "ok", Storage: string(storage.KindLocal)}

	if err := s.ping(ctx); err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
		status.Status = "degraded"
		status.Database = err.Error()
	}

	report := s.Storage(ctx)
	if report.Active != "" {
		status.Storage = report.Active
	} else if report.Local != nil && !report.Local.Writable {
		status.Status = "degraded"
	}
	return status
}

// Storage probes every configured backend and the local directory.
func (s *Service) Storage(ctx context.Context) *StorageReport {
	report := &StorageReport{Backends: []storage.BackendStatus{}}

	if s.reporter != nil {
		backends, err := s.reporter.Report(ctx)
		if err != nil {
			report.Error = err.Error()
		}
		for _, b := range backends {
			if b.Selected {
				report.Active = string(b.Kind)
			}
		}
		if backends != nil {
			report.Backends = backends
		}
	}

	if s.local != nil {
		local := &LocalReport{Path: s.local.BasePath(), Writable: true}
		if err := s.local.Probe(ctx); err != nil {
			local.Writable = false
			local.Error = err.Error()
		}
		report.Local = local
	}
	return report
}

// Schema verifies the transfer tables.
func (s *Service) Schema() (*SchemaReport, error) {
	return CheckSchema(s.db, s.models...)
}

func (s *Service) ping(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}
