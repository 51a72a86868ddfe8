package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evokcrm/internal/handlers"
	"evokcrm/internal/models"
	"evokcrm/internal/pdf"
	"evokcrm/internal/repositories"
	"evokcrm/internal/routes"
	"evokcrm/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryLeadRepository()
	leadService := services.NewLeadService(store)
	reportService := services.NewReportService(store)
	pdfGen := pdf.NewReportGenerator(t.TempDir())

	router := gin.New()
	return routes.SetupRoutes(
		router,
		handlers.NewLeadHandler(leadService),
		handlers.NewReportHandler(reportService),
		handlers.NewExportHandler(leadService, reportService, pdfGen),
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeLead(t *testing.T, w *httptest.ResponseRecorder) models.Lead {
	t.Helper()
	var lead models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lead))
	return lead
}

func createLead(t *testing.T, router *gin.Engine) models.Lead {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/leads/", gin.H{
		"business": "Acme EV Charging",
		"contact":  "9876543210",
		"location": "Technopark",
		"district": "Thiruvananthapuram",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeLead(t, w)
}

func TestCreateLeadDefaultsStatus(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.StatusNew, lead.Status)
	assert.Empty(t, lead.Logs)
}

func TestCreateLeadValidation(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/leads/", gin.H{
		"business": "Acme",
		"contact":  "123",
		"location": "Town",
		"district": "Atlantis",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLeadNotFound(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/leads/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusTransitionAppendsLog(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status":       "Meeting Scheduled",
		"note":         "",
		"meetingDate":  "2024-06-01T10:00",
		"reminderDate": "2024-05-31T09:00",
		"reminderNote": "call client",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeLead(t, w)

	assert.Equal(t, models.StatusMeetingScheduled, updated.Status)
	require.Len(t, updated.Logs, 1)
	assert.Equal(t, models.StatusNew, updated.Logs[0].From)
	assert.Equal(t, models.StatusMeetingScheduled, updated.Logs[0].To)
	assert.Equal(t, models.DefaultLogNote, updated.Logs[0].Note)
	require.NotNil(t, updated.MeetingDate)
	assert.Equal(t, "call client", updated.ReminderNote)
}

func TestUpdateSelfTransitionIsNoOp(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status": "New",
		"note":   "nothing changed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeLead(t, w)
	assert.Equal(t, models.StatusNew, updated.Status)
	assert.Empty(t, updated.Logs, "self-transition appends no log entry")
}

func TestUpdateFieldEditSkipsLog(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"business": "Renamed Ltd",
		"district": "Kollam",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeLead(t, w)
	assert.Equal(t, "Renamed Ltd", updated.Business)
	assert.Equal(t, models.District("Kollam"), updated.District)
	assert.Empty(t, updated.Logs)
}

func TestUpdateBadMeetingDate(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status":      "Meeting Scheduled",
		"note":        "x",
		"meetingDate": "June 1st",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppendLogEndpoint(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/log", gin.H{
		"note": "left a voicemail",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	updated := decodeLead(t, w)

	require.Len(t, updated.Logs, 1)
	assert.Equal(t, updated.Logs[0].From, updated.Logs[0].To)
	assert.Equal(t, "left a voicemail", updated.Logs[0].Note)
	assert.Equal(t, models.StatusNew, updated.Status)
}

func TestDeleteLead(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodDelete, "/api/leads/"+lead.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/leads/"+lead.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLeads(t *testing.T) {
	router := newTestRouter(t)
	createLead(t, router)
	createLead(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/leads/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var leads []models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	assert.Len(t, leads, 2)
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)
	createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status": "Won",
		"note":   "closed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Ribbon.Total)
	assert.Equal(t, 1, stats.Ribbon.Pending)
	assert.Equal(t, 1, stats.Ribbon.Won)
	assert.Len(t, stats.ByStatus, len(models.ChartStatuses))
}

func TestAnalyticsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createLead(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/admin/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var analytics models.Analytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	assert.Equal(t, 1, analytics.TotalLeads)
	assert.Len(t, analytics.ByStatus, len(models.AllStatuses))
	assert.Len(t, analytics.TopDistricts, services.TopDistrictCount)
}

func TestActivityLogsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status": "Contacted",
		"note":   "spoke with owner",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/activity-logs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed []models.ActivityEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Acme EV Charging", feed[0].Business)
	assert.Equal(t, models.StatusContacted, feed[0].To)
	assert.Equal(t, "spoke with owner", feed[0].Note)
}

func TestCalendarEndpoint(t *testing.T) {
	router := newTestRouter(t)
	lead := createLead(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID, gin.H{
		"status":      "Meeting Scheduled",
		"note":        "booked",
		"meetingDate": "2024-06-01T10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/calendar?year=2024&month=6", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var days []models.CalendarDay
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	require.Len(t, days, 30)
	assert.Equal(t, "2024-06-01", days[0].Date)
	assert.True(t, days[0].HasMeeting)
	assert.Equal(t, 1, days[0].Meetings)

	w = doJSON(t, router, http.MethodGet, "/api/calendar?year=2024&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
