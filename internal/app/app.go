package app

import (
	"database/sql"
	"fmt"
	"log"

	"evokcrm/internal/config"
	"evokcrm/internal/handlers"
	"evokcrm/internal/pdf"
	"evokcrm/internal/repositories"
	"evokcrm/internal/routes"
	"evokcrm/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "evokcrm/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === Store ===
	var store repositories.LeadStore
	switch cfg.Database.Driver {
	case "memory":
		store = repositories.NewMemoryLeadRepository()
		log.Printf("using in-memory lead store (non-persistent)")
	default:
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal("failed to open database: ", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("failed to close database: %v", err)
			}
		}()
		store = repositories.NewLeadRepository(db)
	}

	// === Services ===
	leadService := services.NewLeadService(store)
	reportService := services.NewReportService(store)

	// PDF report generator
	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)

	// === Handlers ===
	leadHandler := handlers.NewLeadHandler(leadService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(leadService, reportService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		leadHandler,
		reportHandler,
		exportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
