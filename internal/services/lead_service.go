package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"evokcrm/internal/models"
	"evokcrm/internal/repositories"
)

// LeadService owns the lead lifecycle: creation, edits, deletion and the
// status-transition flow with its append-only activity log.
type LeadService struct {
	Store repositories.LeadStore

	now func() time.Time
}

func NewLeadService(store repositories.LeadStore) *LeadService {
	return &LeadService{Store: store, now: time.Now}
}

// LeadInput is the create payload.
type LeadInput struct {
	Business string
	Contact  string
	Location string
	District models.District
	Status   models.Status
}

func (s *LeadService) Create(in LeadInput) (*models.Lead, error) {
	if strings.TrimSpace(in.Business) == "" {
		return nil, invalidField("business", "required")
	}
	if strings.TrimSpace(in.Contact) == "" {
		return nil, invalidField("contact", "required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, invalidField("location", "required")
	}
	if !in.District.Valid() {
		return nil, invalidField("district", "unknown district")
	}
	if in.Status == "" {
		in.Status = models.StatusNew
	}
	if !in.Status.Valid() {
		return nil, invalidField("status", "unknown status")
	}

	lead := &models.Lead{
		ID:        uuid.NewString(),
		Business:  in.Business,
		Contact:   in.Contact,
		Location:  in.Location,
		District:  in.District,
		Status:    in.Status,
		Logs:      []models.LogEntry{},
		CreatedAt: s.now(),
	}
	if err := s.Store.Create(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) GetByID(id string) (*models.Lead, error) {
	lead, err := s.Store.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return lead, nil
}

func (s *LeadService) List() ([]*models.Lead, error) {
	return s.Store.List()
}

// Delete removes the lead and its entire log.
func (s *LeadService) Delete(id string) error {
	return mapStoreErr(s.Store.Delete(id))
}

// TransitionRequest is a pending status change awaiting confirmation. The
// caller collects a note (and meeting fields when moving into "Meeting
// Scheduled") before committing via ConfirmTransition.
type TransitionRequest struct {
	LeadID   string        `json:"leadId"`
	From     models.Status `json:"from"`
	To       models.Status `json:"to"`
	Business string        `json:"business"`
}

// RequestTransition validates a status change against the lead's current
// state. A self-transition returns ErrNoChange and mutates nothing. Any
// other pair of statuses is legal: the pipeline has no transition graph.
func (s *LeadService) RequestTransition(id string, target models.Status) (*TransitionRequest, error) {
	if !target.Valid() {
		return nil, invalidField("status", "unknown status")
	}
	lead, err := s.Store.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if lead.Status == target {
		return nil, ErrNoChange
	}
	return &TransitionRequest{
		LeadID:   id,
		From:     lead.Status,
		To:       target,
		Business: lead.Business,
	}, nil
}

// ConfirmInput carries the note and the optional meeting fields collected
// for a pending transition.
type ConfirmInput struct {
	Note         string
	MeetingDate  *time.Time
	ReminderDate *time.Time
	ReminderNote string
}

// ConfirmTransition commits a pending request: the status change, the log
// entry and any meeting fields land atomically or not at all. Meeting and
// reminder fields are written only when the target is "Meeting Scheduled";
// they persist unless overwritten by a later such transition (whether they
// should be cleared on leaving the status is an open product question).
func (s *LeadService) ConfirmTransition(req *TransitionRequest, in ConfirmInput) (*models.Lead, error) {
	note := in.Note
	if strings.TrimSpace(note) == "" {
		note = models.DefaultLogNote
	}
	entry := models.LogEntry{
		Date: s.now(),
		From: req.From,
		To:   req.To,
		Note: note,
	}

	var meeting *repositories.MeetingUpdate
	if req.To == models.StatusMeetingScheduled {
		meeting = &repositories.MeetingUpdate{
			MeetingDate:  in.MeetingDate,
			ReminderDate: in.ReminderDate,
			ReminderNote: in.ReminderNote,
		}
	}

	lead, err := s.Store.ApplyTransition(req.LeadID, req.To, entry, meeting)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return lead, nil
}

// ChangeStatus is the request+confirm flow in one call, used by the update
// endpoint when the payload carries a status change with a note.
func (s *LeadService) ChangeStatus(id string, target models.Status, in ConfirmInput) (*models.Lead, error) {
	req, err := s.RequestTransition(id, target)
	if err != nil {
		return nil, err
	}
	return s.ConfirmTransition(req, in)
}

// LeadEdit is a partial field replacement; nil members are left untouched.
type LeadEdit struct {
	Business *string
	Contact  *string
	Location *string
	District *models.District
	Status   *models.Status
}

// EditFields replaces fields in place. Unlike ConfirmTransition, replacing
// Status here appends no log entry: that asymmetry is deliberate and keeps
// general edits out of the activity history.
func (s *LeadService) EditFields(id string, edit LeadEdit) (*models.Lead, error) {
	lead, err := s.Store.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if edit.Business != nil {
		if strings.TrimSpace(*edit.Business) == "" {
			return nil, invalidField("business", "required")
		}
		lead.Business = *edit.Business
	}
	if edit.Contact != nil {
		lead.Contact = *edit.Contact
	}
	if edit.Location != nil {
		lead.Location = *edit.Location
	}
	if edit.District != nil {
		if !edit.District.Valid() {
			return nil, invalidField("district", "unknown district")
		}
		lead.District = *edit.District
	}
	if edit.Status != nil {
		if !edit.Status.Valid() {
			return nil, invalidField("status", "unknown status")
		}
		lead.Status = *edit.Status
	}
	if err := s.Store.Update(lead); err != nil {
		return nil, mapStoreErr(err)
	}
	return s.GetByID(id)
}

// AppendLog records a note-only entry against the lead's current status,
// independent of any status change.
func (s *LeadService) AppendLog(id, note string) (*models.Lead, error) {
	lead, err := s.Store.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if strings.TrimSpace(note) == "" {
		note = models.DefaultLogNote
	}
	entry := models.LogEntry{
		Date: s.now(),
		From: lead.Status,
		To:   lead.Status,
		Note: note,
	}
	updated, err := s.Store.AppendLog(id, entry)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}
