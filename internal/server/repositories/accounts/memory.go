package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. The check and the
// insert in Create happen under one lock.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.Account
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]models.Account), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorDuplicateAccount
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = r.now().UTC()
	}
	stored := *account
	stored.PasswordHash = append([]byte(nil), account.PasswordHash...)
	r.byEmail[account.Email] = stored

	return account, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	account := stored
	account.PasswordHash = append([]byte(nil), stored.PasswordHash...)
	return &account, nil
}
