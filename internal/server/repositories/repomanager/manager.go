package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campusdesk/campusdesk/internal/dbx"
	"github.com/campusdesk/campusdesk/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX and prepares the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}

// FromDSN selects the manager for dsn. "memory" yields the in-process
// manager and a nil *sql.DB; anything else is opened with pgx and migrated.
// The caller owns the returned connection.
func FromDSN(ctx context.Context, dsn, memoryDSN string) (*sql.DB, RepositoryManager, error) {
	if dsn == memoryDSN {
		return nil, NewMemoryRepositoryManager(), nil
	}

	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, m, nil
}
