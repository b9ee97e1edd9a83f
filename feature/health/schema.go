package health

import (
	"fmt"
	"sync"

	"transfer-relay/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport is the result of comparing gorm models against the live database.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies every model's table and columns exist, using the gorm
// models as the source of truth.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	cache := &sync.Map{}
	for _, model := range models {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if !db.Migrator().HasTable(s.Table) {
			tbl.Status = "missing"
			tbl.MissingColumns = append(tbl.MissingColumns, s.DBNames...)
			report.Tables[s.Table] = tbl
			report.Matched = false
			continue
		}

		missing, err := database.MissingColumns(db, s.Table, s.DBNames)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", s.Table, err))
			tbl.Status = "error"
			report.Tables[s.Table] = tbl
			report.Matched = false
			continue
		}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[s.Table] = tbl
	}

	return report, nil
}
