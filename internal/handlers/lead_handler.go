package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evokcrm/internal/models"
	"evokcrm/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

type createLeadRequest struct {
	Business string          `json:"business"`
	Contact  string          `json:"contact"`
	Location string          `json:"location"`
	District models.District `json:"district"`
	Status   models.Status   `json:"status"`
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead, err := h.Service.Create(services.LeadInput{
		Business: req.Business,
		Contact:  req.Contact,
		Location: req.Location,
		District: req.District,
		Status:   req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	lead, err := h.Service.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// updateLeadRequest serves both flows behind PUT /leads/:id. A payload
// carrying a status together with a note is a transition (logged, with
// optional meeting fields); anything else is a plain field edit, which
// never touches the log even when it replaces the status.
type updateLeadRequest struct {
	Business *string          `json:"business"`
	Contact  *string          `json:"contact"`
	Location *string          `json:"location"`
	District *models.District `json:"district"`
	Status   *models.Status   `json:"status"`

	Note         *string `json:"note"`
	MeetingDate  string  `json:"meetingDate"`
	ReminderDate string  `json:"reminderDate"`
	ReminderNote string  `json:"reminderNote"`
}

func (h *LeadHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != nil && req.Note != nil {
		h.transition(c, id, req)
		return
	}

	lead, err := h.Service.EditFields(id, services.LeadEdit{
		Business: req.Business,
		Contact:  req.Contact,
		Location: req.Location,
		District: req.District,
		Status:   req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) transition(c *gin.Context, id string, req updateLeadRequest) {
	meetingDate, err := parseDateTime(req.MeetingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meetingDate"})
		return
	}
	reminderDate, err := parseDateTime(req.ReminderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminderDate"})
		return
	}

	lead, err := h.Service.ChangeStatus(id, *req.Status, services.ConfirmInput{
		Note:         *req.Note,
		MeetingDate:  meetingDate,
		ReminderDate: reminderDate,
		ReminderNote: req.ReminderNote,
	})
	if errors.Is(err, services.ErrNoChange) {
		// self-transition is a no-op; hand the untouched lead back
		lead, err = h.Service.GetByID(id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type appendLogRequest struct {
	Note string `json:"note"`
}

// AppendLog records a note-only activity entry without a status change.
func (h *LeadHandler) AppendLog(c *gin.Context) {
	var req appendLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead, err := h.Service.AppendLog(c.Param("id"), req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}
