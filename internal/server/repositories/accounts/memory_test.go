package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := newAccount()
	got, err := repo.Create(ctx, a)
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())

	found, err := repo.GetByEmail(ctx, "ada@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Equal(t, models.RoleStandardUser, found.Role)

	found.PasswordHash[0] = 'X'
	again, err := repo.GetByEmail(ctx, "ada@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), again.PasswordHash)
}

func TestMemoryRepository_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount())
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount())
	assert.ErrorIs(t, err, common.ErrorDuplicateAccount)
}

func TestMemoryRepository_EmailIsCaseSensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount())
	require.NoError(t, err)

	upper := newAccount()
	upper.Email = "ADA@campus.edu"
	_, err = repo.Create(ctx, upper)
	assert.NoError(t, err)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	_, err := NewMemoryRepository().GetByEmail(context.Background(), "ghost@campus.edu")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const workers = 32
	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := newAccount()
			a.ID = fmt.Sprintf("id-%d", i)
			_, err := repo.Create(ctx, a)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, common.ErrorDuplicateAccount):
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(workers-1), dup.Load())
}
