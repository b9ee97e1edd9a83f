package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transfer-relay/feature/transfer/models"

	"gorm.io/gorm"
)

// Store persists transfer records.
//
// Only MarkHasFile, SetSuccess and MarkVerified modify an existing row and each
// touches its own columns; filepath is never rewritten and has_file is never
// set back to false.
type Store interface {
	Create(ctx context.Context, record *models.TransferRecord) error
	Get(ctx context.Context, id string) (*models.TransferRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]models.TransferRecord, int64, error)
	MarkHasFile(ctx context.Context, id string) error
	SetSuccess(ctx context.Context, id string, success bool) error
	MarkVerified(ctx context.Context, id string) error
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]models.TransferRecord, error)
}

// ListFilter narrows List. Zero values are ignored.
type ListFilter struct {
	User     string
	Asset    string
	Account  string
	Filename string
	Session  string
	Operate  models.Operate
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
	Offset   int
}

const maxListLimit = 500

// Repository is the gorm-backed Store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, record *models.TransferRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create transfer record: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.TransferRecord, error) {
	var record models.TransferRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get transfer record: %w", err)
	}
	return &record, nil
}

// Delete removes a record. It exists for rollback of a failed creation only.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TransferRecord{}).Error; err != nil {
		return fmt.Errorf("delete transfer record: %w", err)
	}
	return nil
}

// List returns matching records newest first together with the total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.TransferRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransferRecord{})
	// map conditions quote column names; "user" is reserved in postgres
	equals := map[string]any{}
	if filter.User != "" {
		equals["user"] = filter.User
	}
	if filter.Asset != "" {
		equals["asset"] = filter.Asset
	}
	if filter.Account != "" {
		equals["account"] = filter.Account
	}
	if filter.Session != "" {
		equals["session"] = filter.Session
	}
	if filter.Operate != "" {
		equals["operate"] = string(filter.Operate)
	}
	if len(equals) > 0 {
		query = query.Where(equals)
	}
	if filter.Filename != "" {
		query = query.Where("filename LIKE ?", "%"+filter.Filename+"%")
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("date_start >= ?", filter.DateFrom.UTC())
	}
	if !filter.DateTo.IsZero() {
		query = query.Where("date_start <= ?", filter.DateTo.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transfer records: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}
	var records []models.TransferRecord
	if err := query.Order("date_start DESC").Limit(limit).Offset(filter.Offset).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("list transfer records: %w", err)
	}
	return records, total, nil
}

func (r *Repository) MarkHasFile(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.TransferRecord{}).
		Where("id = ?", id).
		Update("has_file", true).Error
	if err != nil {
		return fmt.Errorf("mark transfer has_file: %w", err)
	}
	return nil
}

func (r *Repository) SetSuccess(ctx context.Context, id string, success bool) error {
	err := r.db.WithContext(ctx).Model(&models.TransferRecord{}).
		Where("id = ?", id).
		Update("is_success", success).Error
	if err != nil {
		return fmt.Errorf("set transfer is_success: %w", err)
	}
	return nil
}

// MarkVerified records a confirmed upload in a single statement.
func (r *Repository) MarkVerified(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.TransferRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"has_file": true, "is_success": true}).Error
	if err != nil {
		return fmt.Errorf("mark transfer verified: %w", err)
	}
	return nil
}

// ListPending returns records still without a verified file, oldest first.
func (r *Repository) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]models.TransferRecord, error) {
	if limit <= 0 {
		limit = 1000
	}
	var records []models.TransferRecord
	err := r.db.WithContext(ctx).
		Where("has_file = ? AND date_start < ?", false, olderThan.UTC()).
		Order("date_start ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list pending transfers: %w", err)
	}
	return records, nil
}
