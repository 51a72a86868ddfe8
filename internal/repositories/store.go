package repositories

import (
	"errors"
	"time"

	"evokcrm/internal/models"
)

var ErrNotFound = errors.New("lead not found")

// MeetingUpdate carries the optional fields written when a lead enters
// "Meeting Scheduled". Nil or empty members leave the stored value as is;
// fields are never cleared automatically on later transitions.
type MeetingUpdate struct {
	MeetingDate  *time.Time
	ReminderDate *time.Time
	ReminderNote string
}

// LeadStore is the persistence boundary for leads. Stores hand out copies;
// mutating a returned lead never changes stored state.
type LeadStore interface {
	Create(lead *models.Lead) error
	GetByID(id string) (*models.Lead, error)
	List() ([]*models.Lead, error)
	Update(lead *models.Lead) error
	Delete(id string) error

	// ApplyTransition sets the status, appends the log entry and writes the
	// meeting fields as one atomic update. On failure the lead is untouched.
	ApplyTransition(id string, to models.Status, entry models.LogEntry, meeting *MeetingUpdate) (*models.Lead, error)

	// AppendLog appends a log entry without touching the status.
	AppendLog(id string, entry models.LogEntry) (*models.Lead, error)
}
