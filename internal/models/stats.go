package models

import "time"

// StatusCount is one row of a status distribution chart.
type StatusCount struct {
	Status     Status `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DistrictCount is one row of a district distribution chart.
type DistrictCount struct {
	District   District `json:"district"`
	Count      int      `json:"count"`
	Percentage int      `json:"percentage"`
}

// Ribbon holds the summary-tile counters. Pending/Won/Lost match statuses
// exactly; Meetings and Negotiating match by substring, so loosely related
// labels count too.
type Ribbon struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Meetings    int `json:"meetings"`
	Negotiating int `json:"negotiating"`
	Won         int `json:"won"`
	Lost        int `json:"lost"`
}

// DashboardStats is the /stats payload.
type DashboardStats struct {
	Ribbon   Ribbon        `json:"ribbon"`
	ByStatus []StatusCount `json:"byStatus"`
}

// Analytics is the admin analytics payload.
type Analytics struct {
	TotalLeads   int             `json:"totalLeads"`
	ByStatus     []StatusCount   `json:"leadsByStatus"`
	TopDistricts []DistrictCount `json:"leadsByDistrict"`
}

// ActivityEntry is one row of the cross-lead activity feed.
type ActivityEntry struct {
	Business string    `json:"business"`
	Date     time.Time `json:"date"`
	From     Status    `json:"from"`
	To       Status    `json:"to"`
	Note     string    `json:"note"`
}

// Calendar day tags.
const (
	TagOverdue  = "overdue"
	TagToday    = "today"
	TagUpcoming = "upcoming"
)

// DateTag classifies a single calendar day for meeting display. Tag is
// empty when no meeting falls on that day.
type DateTag struct {
	HasMeeting bool   `json:"hasMeeting"`
	Tag        string `json:"tag,omitempty"`
}

// CalendarDay is one day of a month calendar response.
type CalendarDay struct {
	Date       string `json:"date"` // YYYY-MM-DD
	HasMeeting bool   `json:"hasMeeting"`
	Tag        string `json:"tag,omitempty"`
	Meetings   int    `json:"meetings"`
}
