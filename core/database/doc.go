// Package database handles database connections and schema inspection.
//
// Connect opens MySQL, PostgreSQL or SQLite through GORM depending on
// Config.Driver. SQLite is intended for single-node deployments and tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns report what a table actually looks like,
// which the storage health endpoint uses to detect an unmigrated schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	err = database.Migrate(db, &models.TransferRecord{})
package database
