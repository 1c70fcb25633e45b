// Package accounts persists credential-service accounts. Implementations
// guarantee that at most one account exists per email, even under
// concurrent Create calls.
package accounts

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/server/models"
)

type Repository interface {
	// Create inserts account atomically, failing with
	// common.ErrorDuplicateAccount if the email is already taken.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// GetByEmail returns common.ErrorNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
