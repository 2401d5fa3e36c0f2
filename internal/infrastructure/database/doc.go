// Package database provides the SQLite connection behind the command audit
// trail.
//
// This package manages:
//   - Database connection with optional WAL mode
//   - Versioned schema migrations read from an fs.FS
//   - Connection lifecycle and health checks
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files live at the root of the filesystem and are named
// YYYYMMDD_HHMMSS_description.up.sql with a matching .down.sql.
package database
