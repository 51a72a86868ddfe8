package models

import (
	"strings"
	"time"
)

// Status is the pipeline stage of a lead. The set is closed but the
// transition graph is not: any status may move to any other status.
type Status string

const (
	StatusNew              Status = "New"
	StatusContacted        Status = "Contacted"
	StatusMeetingScheduled Status = "Meeting Scheduled"
	StatusQuoteIssued      Status = "Quote Issued"
	StatusQuoteRevised     Status = "Quote Revised"
	StatusUnderNegotiation Status = "Under Negotiation"
	StatusTriedToConnect   Status = "Tried To Connect"
	StatusFutureProject    Status = "Future Project"
	StatusForwarded        Status = "Forwarded"
	StatusWon              Status = "Won"
	StatusLost             Status = "Lost"
)

// AllStatuses in display order.
var AllStatuses = []Status{
	StatusNew, StatusContacted, StatusMeetingScheduled, StatusQuoteIssued,
	StatusQuoteRevised, StatusUnderNegotiation, StatusTriedToConnect,
	StatusFutureProject, StatusForwarded, StatusWon, StatusLost,
}

// ChartStatuses is the subset the dashboard charts render.
var ChartStatuses = []Status{
	StatusNew, StatusContacted, StatusMeetingScheduled,
	StatusUnderNegotiation, StatusWon, StatusLost,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Badge is the presentational category of a status badge.
type Badge string

const (
	BadgeSuccess Badge = "success"
	BadgeDanger  Badge = "danger"
	BadgeWarning Badge = "warning"
	BadgeInfo    Badge = "info"
	BadgeNeutral Badge = "neutral"
)

// Badge classifies a status for display. The substring rules are loose on
// purpose: they pick up related labels (Quote Issued / Quote Revised,
// Contacted / Tried To Connect) without enumerating each one.
func (s Status) Badge() Badge {
	v := strings.ToLower(string(s))
	switch {
	case v == "won":
		return BadgeSuccess
	case v == "lost":
		return BadgeDanger
	case strings.Contains(v, "negotiation") || strings.Contains(v, "quote"):
		return BadgeWarning
	case strings.Contains(v, "forwarded") || strings.Contains(v, "contact"):
		return BadgeInfo
	default:
		return BadgeNeutral
	}
}

// District is one of the fixed geographic regions leads are filed under.
type District string

// AllDistricts is the immutable reference list, in enumeration order.
var AllDistricts = []District{
	"Thiruvananthapuram", "Kollam", "Pathanamthitta", "Alappuzha", "Kottayam",
	"Idukki", "Ernakulam", "Thrissur", "Palakkad", "Malappuram",
	"Kozhikode", "Wayanad", "Kannur", "Kasaragod",
}

func (d District) Valid() bool {
	for _, v := range AllDistricts {
		if d == v {
			return true
		}
	}
	return false
}

// DefaultLogNote is recorded when a transition is confirmed without a note.
const DefaultLogNote = "No description provided"

// LogEntry is one past status change. Entries are immutable and a lead's
// log is append-only in creation order.
type LogEntry struct {
	Date time.Time `json:"date"`
	From Status    `json:"from"`
	To   Status    `json:"to"`
	Note string    `json:"note"`
}

type Lead struct {
	ID           string     `json:"id"`
	Business     string     `json:"business"`
	Contact      string     `json:"contact"`
	Location     string     `json:"location"`
	District     District   `json:"district"`
	Status       Status     `json:"status"`
	MeetingDate  *time.Time `json:"meetingDate,omitempty"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
	ReminderNote string     `json:"reminderNote,omitempty"`
	Logs         []LogEntry `json:"logs"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Clone returns a deep copy. Stores hand out copies so callers can never
// reach shared log slices or date pointers.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	if l.MeetingDate != nil {
		d := *l.MeetingDate
		c.MeetingDate = &d
	}
	if l.ReminderDate != nil {
		d := *l.ReminderDate
		c.ReminderDate = &d
	}
	if l.Logs != nil {
		c.Logs = make([]LogEntry, len(l.Logs))
		copy(c.Logs, l.Logs)
	}
	return &c
}
