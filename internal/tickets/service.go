package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/google/uuid"
)

// Service applies ticket rules on top of a Store.
type Service struct {
	store Store
	newID func() string
	now   func() time.Time
}

func NewService(s Store) *Service {
	return &Service{store: s, newID: uuid.NewString, now: time.Now}
}

// Open creates an OPEN ticket. An empty studentID is stored as null.
func (s *Service) Open(ctx context.Context, message, studentID string) (*Ticket, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", common.ErrorValidation)
	}

	t := &Ticket{
		ID:        s.newID(),
		Message:   message,
		Status:    StatusOpen,
		CreatedAt: s.now().UTC(),
	}
	if studentID != "" {
		t.StudentID = &studentID
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("%w: create ticket: %v", common.ErrorInternal, err)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*Ticket, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list tickets: %v", common.ErrorInternal, err)
	}
	return list, nil
}

// SetStatus changes the status of ticket id. An empty status leaves the
// ticket unchanged and returns it.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*Ticket, error) {
	var (
		t   *Ticket
		err error
	)
	if status == "" {
		t, err = s.store.Get(ctx, id)
	} else {
		t, err = s.store.UpdateStatus(ctx, id, status)
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: update ticket: %v", common.ErrorInternal, err)
	}
	return t, nil
}
