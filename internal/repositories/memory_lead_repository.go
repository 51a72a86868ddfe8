package repositories

import (
	"sync"

	"evokcrm/internal/models"
)

// MemoryLeadRepository keeps leads in a map keyed by id, with insertion
// order preserved for listing. Used for tests and the "memory" driver.
type MemoryLeadRepository struct {
	mu    sync.Mutex
	leads map[string]*models.Lead
	order []string
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{leads: make(map[string]*models.Lead)}
}

func (r *MemoryLeadRepository) Create(lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[lead.ID]; !ok {
		r.order = append(r.order, lead.ID)
	}
	r.leads[lead.ID] = lead.Clone()
	return nil
}

func (r *MemoryLeadRepository) GetByID(id string) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return lead.Clone(), nil
}

func (r *MemoryLeadRepository) List() ([]*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Lead, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.leads[id].Clone())
	}
	return out, nil
}

// Update replaces the stored fields wholesale. The log is carried over from
// the stored lead, never from the argument: log mutation goes through
// ApplyTransition or AppendLog only.
func (r *MemoryLeadRepository) Update(lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.leads[lead.ID]
	if !ok {
		return ErrNotFound
	}
	next := lead.Clone()
	next.Logs = current.Logs
	next.CreatedAt = current.CreatedAt
	r.leads[lead.ID] = next
	return nil
}

func (r *MemoryLeadRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return ErrNotFound
	}
	delete(r.leads, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryLeadRepository) ApplyTransition(id string, to models.Status, entry models.LogEntry, meeting *MeetingUpdate) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := current.Clone()
	next.Status = to
	next.Logs = append(next.Logs, entry)
	if meeting != nil {
		if meeting.MeetingDate != nil {
			d := *meeting.MeetingDate
			next.MeetingDate = &d
		}
		if meeting.ReminderDate != nil {
			d := *meeting.ReminderDate
			next.ReminderDate = &d
		}
		if meeting.ReminderNote != "" {
			next.ReminderNote = meeting.ReminderNote
		}
	}
	r.leads[id] = next
	return next.Clone(), nil
}

func (r *MemoryLeadRepository) AppendLog(id string, entry models.LogEntry) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := current.Clone()
	next.Logs = append(next.Logs, entry)
	r.leads[id] = next
	return next.Clone(), nil
}
