package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"evokcrm/internal/export"
	"evokcrm/internal/pdf"
	"evokcrm/internal/services"
)

type ExportHandler struct {
	Leads   *services.LeadService
	Reports *services.ReportService
	PDF     pdf.Generator
}

func NewExportHandler(leads *services.LeadService, reports *services.ReportService, gen pdf.Generator) *ExportHandler {
	return &ExportHandler{Leads: leads, Reports: reports, PDF: gen}
}

func (h *ExportHandler) LeadsCSV(c *gin.Context) {
	leads, err := h.Leads.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", attachment("leads", "csv"))
	if err := export.LeadsCSV(c.Writer, leads); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *ExportHandler) LeadsXLSX(c *gin.Context) {
	leads, err := h.Leads.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	buf, err := export.LeadsXLSX(leads)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	c.Header("Content-Disposition", attachment("leads", "xlsx"))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// PipelinePDF streams a one-page pipeline summary report.
func (h *ExportHandler) PipelinePDF(c *gin.Context) {
	stats, err := h.Reports.DashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	analytics, err := h.Reports.Analytics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", attachment("pipeline", "pdf"))
	err = h.PDF.WritePipelineReport(c.Writer, pdf.PipelineData{
		GeneratedAt: time.Now(),
		Ribbon:      stats.Ribbon,
		ByStatus:    analytics.ByStatus,
		ByDistrict:  analytics.TopDistricts,
	})
	if err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`,
		name, time.Now().Format("20060102"), ext)
}
