package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"evokcrm/internal/models"
	"evokcrm/internal/repositories"
)

// TopDistrictCount is how many districts the admin analytics panel shows.
const TopDistrictCount = 5

// StatusDistribution counts leads per status, in the order given, with an
// integer-rounded percentage of the total. An empty snapshot yields zero
// percentages across the board. Rounded values are not re-normalized, so
// they may not sum to exactly 100.
func StatusDistribution(leads []*models.Lead, statuses []models.Status) []models.StatusCount {
	total := len(leads)
	out := make([]models.StatusCount, 0, len(statuses))
	for _, status := range statuses {
		count := 0
		for _, l := range leads {
			if l.Status == status {
				count++
			}
		}
		out = append(out, models.StatusCount{
			Status:     status,
			Count:      count,
			Percentage: percentOf(count, total),
		})
	}
	return out
}

// DistrictDistribution ranks districts by lead count descending, ties kept
// in district enumeration order, truncated to topN (<=0 means all).
func DistrictDistribution(leads []*models.Lead, topN int) []models.DistrictCount {
	total := len(leads)
	out := make([]models.DistrictCount, 0, len(models.AllDistricts))
	for _, district := range models.AllDistricts {
		count := 0
		for _, l := range leads {
			if l.District == district {
				count++
			}
		}
		out = append(out, models.DistrictCount{
			District:   district,
			Count:      count,
			Percentage: percentOf(count, total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// RibbonCounts computes the summary tiles. Pending, Won and Lost match the
// status exactly; Meetings and Negotiating match by substring so that any
// label containing the word counts. That looseness is how the dashboard
// categorizes related statuses and must not be tightened.
func RibbonCounts(leads []*models.Lead) models.Ribbon {
	var r models.Ribbon
	r.Total = len(leads)
	for _, l := range leads {
		switch {
		case l.Status == models.StatusNew:
			r.Pending++
		case l.Status == models.StatusWon:
			r.Won++
		case l.Status == models.StatusLost:
			r.Lost++
		}
		if strings.Contains(string(l.Status), "Meeting") {
			r.Meetings++
		}
		if strings.Contains(string(l.Status), "Negotiation") {
			r.Negotiating++
		}
	}
	return r
}

// ClassifyDate buckets a calendar day for meeting display. Matching is by
// calendar day only; the time-of-day of the stored meeting is ignored here
// and shown separately. Days before today are overdue, today is today,
// everything later is upcoming.
func ClassifyDate(date time.Time, leads []*models.Lead, now time.Time) models.DateTag {
	if len(MeetingsOn(date, leads)) == 0 {
		return models.DateTag{}
	}
	day := dayOf(date)
	today := dayOf(now)
	tag := models.TagUpcoming
	switch {
	case day.Before(today):
		tag = models.TagOverdue
	case day.Equal(today):
		tag = models.TagToday
	}
	return models.DateTag{HasMeeting: true, Tag: tag}
}

// MeetingsOn returns the leads whose meeting falls on the given calendar day.
func MeetingsOn(date time.Time, leads []*models.Lead) []*models.Lead {
	var out []*models.Lead
	for _, l := range leads {
		if l.MeetingDate != nil && sameDay(*l.MeetingDate, date) {
			out = append(out, l)
		}
	}
	return out
}

// MonthCalendar tags every day of the given month.
func MonthCalendar(year int, month time.Month, leads []*models.Lead, now time.Time) []models.CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	out := make([]models.CalendarDay, 0, days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		tag := ClassifyDate(date, leads, now)
		out = append(out, models.CalendarDay{
			Date:       date.Format("2006-01-02"),
			HasMeeting: tag.HasMeeting,
			Tag:        tag.Tag,
			Meetings:   len(MeetingsOn(date, leads)),
		})
	}
	return out
}

// ActivityFeed flattens every lead's log into one cross-lead feed, each
// entry tagged with its owning lead's business name. Order follows the
// underlying lead listing with each lead's entries in insertion order; the
// feed is not re-sorted by date.
func ActivityFeed(leads []*models.Lead) []models.ActivityEntry {
	var out []models.ActivityEntry
	for _, l := range leads {
		for _, e := range l.Logs {
			out = append(out, models.ActivityEntry{
				Business: l.Business,
				Date:     e.Date,
				From:     e.From,
				To:       e.To,
				Note:     e.Note,
			})
		}
	}
	return out
}

func percentOf(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dayOf(a).Equal(dayOf(b))
}

// ReportService reads a snapshot from the store and feeds it to the pure
// aggregation functions above.
type ReportService struct {
	Store repositories.LeadStore

	now func() time.Time
}

func NewReportService(store repositories.LeadStore) *ReportService {
	return &ReportService{Store: store, now: time.Now}
}

// DashboardStats backs the lead-list stats endpoint: ribbon tiles plus the
// chart subset of statuses.
func (s *ReportService) DashboardStats() (*models.DashboardStats, error) {
	leads, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		Ribbon:   RibbonCounts(leads),
		ByStatus: StatusDistribution(leads, models.ChartStatuses),
	}, nil
}

// Analytics backs the admin panel: totals, the full status breakdown and
// the top districts.
func (s *ReportService) Analytics() (*models.Analytics, error) {
	leads, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	return &models.Analytics{
		TotalLeads:   len(leads),
		ByStatus:     StatusDistribution(leads, models.AllStatuses),
		TopDistricts: DistrictDistribution(leads, TopDistrictCount),
	}, nil
}

func (s *ReportService) ActivityLogs() ([]models.ActivityEntry, error) {
	leads, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	return ActivityFeed(leads), nil
}

func (s *ReportService) Calendar(year int, month time.Month) ([]models.CalendarDay, error) {
	leads, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	return MonthCalendar(year, month, leads, s.now()), nil
}
