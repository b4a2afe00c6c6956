package main

import (
	"context"
	"log"

	"outreach-crm/internal/api"
	"outreach-crm/internal/config"
	"outreach-crm/internal/database"
	"outreach-crm/internal/imagecard"
	"outreach-crm/internal/intel"
	"outreach-crm/internal/mailer"
	"outreach-crm/internal/outreach"
	"outreach-crm/internal/scraper"
	"outreach-crm/internal/synth"
	"outreach-crm/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	gemini, err := intel.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	analyzer := intel.NewAnalyzer(gemini)
	gatherer := intel.NewGatherer(scraper.New(cfg.ChromeDisabled), analyzer)
	synthesizer := synth.NewSynthesizer(gemini)

	var sender mailer.Sender
	if cfg.HasSMTPCredentials() {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	} else {
		log.Println("SMTP credentials not set; sends will be simulated")
	}

	hub := ws.NewHub()
	go hub.Run()

	orchestrator := &outreach.Orchestrator{
		DB:             database.DB,
		Gatekeeper:     outreach.NewGatekeeper(cfg.SenderEmail, cfg.HourlyEmailLimit),
		Gatherer:       gatherer,
		Synthesizer:    synthesizer,
		Mailer:         sender,
		Coordinator:    outreach.NewCoordinator(database.DB, cfg.SenderEmail),
		Renderer:       imagecard.NewRenderer(cfg.StaticDir),
		Notifier:       hub,
		HasCredentials: cfg.HasSMTPCredentials(),
		MaxConcurrent:  3,
	}

	outreachHandler := api.NewOutreachHandler(orchestrator)
	clientHandler := api.NewClientHandler(hub)
	projectHandler := api.NewProjectHandler()
	callHandler := api.NewCallHandler()
	dashboardHandler := api.NewDashboardHandler()
	documentHandler := api.NewDocumentHandler(analyzer)

	r.GET("/health", dashboardHandler.Health)
	r.GET("/ws", func(c *gin.Context) { hub.ServeWs(c.Writer, c.Request) })
	r.Static("/static", cfg.StaticDir)

	apiGroup := r.Group("/api")
	{
		// Outreach Pipeline Routes
		apiGroup.POST("/check-eligibility", outreachHandler.CheckEligibility)
		apiGroup.POST("/draft-lead", outreachHandler.DraftLead)
		apiGroup.POST("/generate", outreachHandler.Generate)
		apiGroup.POST("/send-lead", outreachHandler.SendLead)
		apiGroup.POST("/send", outreachHandler.Send)
		apiGroup.GET("/activities", outreachHandler.RecentActivity)

		// Auth
		apiGroup.POST("/login", clientHandler.Login)

		// CRM Client Routes
		apiGroup.GET("/clients", clientHandler.GetClients)
		apiGroup.POST("/clients", clientHandler.CreateClient)
		apiGroup.GET("/clients/:id", clientHandler.GetClient)
		apiGroup.PATCH("/clients/:id", clientHandler.UpdateClient)
		apiGroup.DELETE("/clients/:id", clientHandler.DeleteClient)
		apiGroup.POST("/clients/:id/keywords", clientHandler.AddKeyword)
		apiGroup.DELETE("/clients/:id/keywords", clientHandler.RemoveKeyword)
		apiGroup.GET("/clients/:id/remarks", clientHandler.GetClientRemarks)
		apiGroup.POST("/clients/:id/remarks", clientHandler.AddClientRemark)
		apiGroup.GET("/clients/:id/activities", clientHandler.GetClientActivities)
		apiGroup.POST("/clients/:id/activities", clientHandler.AddClientActivity)
		apiGroup.GET("/clients/:id/emails", clientHandler.GetClientEmails)
		apiGroup.POST("/clients/:id/send-email", clientHandler.SendClientEmail)

		// Client Status Routes
		apiGroup.GET("/statuses", clientHandler.GetStatuses)
		apiGroup.POST("/statuses", clientHandler.CreateStatus)
		apiGroup.DELETE("/statuses/:id", clientHandler.DeleteStatus)

		// Project & Team Routes
		apiGroup.GET("/projects", projectHandler.GetProjects)
		apiGroup.POST("/projects", projectHandler.CreateProject)
		apiGroup.GET("/projects/:id", projectHandler.GetProject)
		apiGroup.PATCH("/projects/:id", projectHandler.UpdateProject)
		apiGroup.GET("/projects/:id/remarks", projectHandler.GetProjectRemarks)
		apiGroup.POST("/projects/:id/remarks", projectHandler.AddProjectRemark)
		apiGroup.POST("/users", projectHandler.CreateUser)
		apiGroup.DELETE("/users/:id", projectHandler.DeleteUser)
		apiGroup.GET("/employees", projectHandler.GetEmployees)
		apiGroup.GET("/interns", projectHandler.GetInterns)

		// Call Log Routes
		apiGroup.GET("/calls", callHandler.GetCalls)
		apiGroup.POST("/calls", callHandler.CreateCall)
		apiGroup.PATCH("/calls/:id", callHandler.UpdateCall)
		apiGroup.GET("/calls/summary", callHandler.CallSummary)

		// Document Routes
		apiGroup.POST("/documents/ocr", documentHandler.OCR)

		// Dashboard
		apiGroup.GET("/dashboard-stats", dashboardHandler.GetStats)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
