package repomanager

import (
	"context"
	"database/sql"

	"github.com/campusdesk/campusdesk/internal/dbx"
	"github.com/campusdesk/campusdesk/internal/server/repositories/accounts"
)

// MemoryRepositoryManager serves a single in-process accounts repository.
// The DBTX argument is ignored and may be nil.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return m.accounts
}
