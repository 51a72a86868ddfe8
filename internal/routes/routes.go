package routes

import (
	"github.com/gin-gonic/gin"

	"evokcrm/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	leadHandler *handlers.LeadHandler,
	reportHandler *handlers.ReportHandler,
	exportHandler *handlers.ExportHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// LEADS
	leads := api.Group("/leads")
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/log", leadHandler.AppendLog)
	}

	// DASHBOARD
	api.GET("/stats", reportHandler.GetStats)
	api.GET("/calendar", reportHandler.GetCalendar)

	// ADMIN PANEL
	admin := api.Group("/admin")
	{
		admin.GET("/analytics", reportHandler.GetAnalytics)
		admin.GET("/activity-logs", reportHandler.GetActivityLogs)
	}

	// EXPORTS / REPORTS
	exports := api.Group("/exports")
	{
		exports.GET("/leads.csv", exportHandler.LeadsCSV)
		exports.GET("/leads.xlsx", exportHandler.LeadsXLSX)
	}
	api.GET("/reports/pipeline.pdf", exportHandler.PipelinePDF)

	return r
}
