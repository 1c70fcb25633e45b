// Package tickets implements the escalation record service: tickets opened
// when the assistant hands a conversation over to staff.
package tickets

import "time"

// Well-known ticket statuses. Any other non-empty status is accepted as is.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"
)

// Ticket is one escalation record.
type Ticket struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	StudentID *string   `json:"studentId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Ticket) clone() *Ticket {
	c := *t
	if t.StudentID != nil {
		id := *t.StudentID
		c.StudentID = &id
	}
	return &c
}
