package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"spgovern/application"
	"spgovern/database"
	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/graphauth"
	"spgovern/infrastructure/config"
	"spgovern/infrastructure/graphclient"
	"spgovern/infrastructure/repositories"
	"spgovern/interfaces/web/handlers"
	"spgovern/interfaces/web/presenters"
	"spgovern/logging"
	"spgovern/platform/events"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Initialize Graph credentials
	graphCfg, err := graphauth.FromEnv()
	if err != nil {
		logger.Error("Failed to load Graph configuration", "error", err)
		os.Exit(1)
	}

	// Build dependencies with app context
	deps := buildDependencies(appCtx, cfg, graphCfg, db, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	BrowseService     *application.BrowseService
	ApplyService      *application.ApplyService
	BulkApplyService  *application.BulkApplyService
	MembershipService *application.MembershipService
	ReportService     *application.ReportService
	EventBus          *events.OperationEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	// Presenters
	GovernancePresenter *presenters.GovernancePresenter
	ReportPresenter     *presenters.ReportPresenter

	// Handlers
	BrowseHandlers     *handlers.BrowseHandlers
	GovernanceHandlers *handlers.GovernanceHandlers
	MembershipHandlers *handlers.MembershipHandlers
	ReportHandlers     *handlers.ReportHandlers
	SSEManager         *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB       *database.Database
	Client   contracts.DirectoryClient
	Journal  contracts.OperationJournal
	GraphCfg graphauth.Config
	Logger   *logging.Logger

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(
	cfg *config.AppConfig,
	client contracts.DirectoryClient,
	journal contracts.OperationJournal,
) *ApplicationServices {
	// Create event bus for operation events
	eventBus := events.NewOperationEventBus()

	classifier := directory.NewClassifier(cfg.Conventions)

	applyService := application.NewApplyService(client, classifier, journal, eventBus)
	bulkApplyService := application.NewBulkApplyService(client, classifier, applyService)
	browseService := application.NewBrowseService(client, classifier)
	membershipService := application.NewMembershipService(client)
	reportService := application.NewReportService(client, classifier, cfg.Traversal, eventBus)

	return &ApplicationServices{
		BrowseService:     browseService,
		ApplyService:      applyService,
		BulkApplyService:  bulkApplyService,
		MembershipService: membershipService,
		ReportService:     reportService,
		EventBus:          eventBus,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(appCtx context.Context, services *ApplicationServices) *PresentationLayer {
	// Build presenters (view logic)
	governancePresenter := presenters.NewGovernancePresenter()
	reportPresenter := presenters.NewReportPresenter()

	// Build handlers - orchestrate services & presenters
	sseManager := handlers.NewSSEManager(appCtx)
	browseHandlers := handlers.NewBrowseHandlers(services.BrowseService, governancePresenter)
	governanceHandlers := handlers.NewGovernanceHandlers(
		services.ApplyService,
		services.BulkApplyService,
		governancePresenter,
	)
	membershipHandlers := handlers.NewMembershipHandlers(services.MembershipService)
	reportHandlers := handlers.NewReportHandlers(services.ReportService, reportPresenter)

	// Setup event system for operation notifications
	setupEventHandlers(services, sseManager)

	return &PresentationLayer{
		GovernancePresenter: governancePresenter,
		ReportPresenter:     reportPresenter,
		BrowseHandlers:      browseHandlers,
		GovernanceHandlers:  governanceHandlers,
		MembershipHandlers:  membershipHandlers,
		ReportHandlers:      reportHandlers,
		SSEManager:          sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(
	appCtx context.Context,
	cfg *config.AppConfig,
	graphCfg graphauth.Config,
	db *database.Database,
	logger *logging.Logger,
) *Dependencies {
	tokens := graphauth.NewProvider(appCtx, graphCfg)
	client := graphclient.NewClient(tokens, cfg.Conventions)
	journal := repositories.NewSqliteOperationJournal(db)

	services := buildApplicationServices(cfg, client, journal)
	presentation := buildPresentationLayer(appCtx, services)

	return &Dependencies{
		DB:           db,
		Client:       client,
		Journal:      journal,
		GraphCfg:     graphCfg,
		Services:     services,
		Presentation: presentation,
		Logger:       logger,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps, cfg)

	// Main application routes
	setupAPIRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("spgovern", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"status":   "ok",
			"database": stats,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	r.Get("/events", deps.Presentation.SSEManager.HandleSSEConnection)

	// Front-end bootstrap settings. The client secret never leaves the server.
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"theme":    cfg.UITheme,
			"tenantId": deps.GraphCfg.TenantID,
			"clientId": deps.GraphCfg.ClientID,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})
}

func setupAPIRoutes(r *chi.Mux, deps *Dependencies) {
	// Browse surface
	r.Get("/api/sites", deps.Presentation.BrowseHandlers.SearchSites)
	r.Get("/api/sites/{siteID}/drives", deps.Presentation.BrowseHandlers.ListDrives)
	r.Get("/api/sites/{siteID}/drives/{driveID}/folders", deps.Presentation.BrowseHandlers.ListFolders)
	r.Get("/api/sites/{siteID}/drives/{driveID}/folders/{folderID}/permissions", deps.Presentation.BrowseHandlers.ListFolderPermissions)
	r.Get("/api/groups", deps.Presentation.BrowseHandlers.ListGovernanceGroups)
	r.Get("/api/users/search", deps.Presentation.BrowseHandlers.SearchUsers)

	// Permission application
	r.Post("/api/permissions/apply", deps.Presentation.GovernanceHandlers.Apply)
	r.Post("/api/permissions/bulk", deps.Presentation.GovernanceHandlers.BulkApply)
	r.Get("/api/operations/incomplete", deps.Presentation.GovernanceHandlers.ListIncompleteOperations)

	// Membership management
	r.Get("/api/groups/{groupID}/members", deps.Presentation.MembershipHandlers.ListGroupMembers)
	r.Post("/api/groups/{groupID}/members", deps.Presentation.MembershipHandlers.AddGroupMember)
	r.Delete("/api/groups/{groupID}/members/{userID}", deps.Presentation.MembershipHandlers.RemoveGroupMember)
	r.Get("/api/users/{userID}/groups", deps.Presentation.MembershipHandlers.ListUserGroups)
	r.Post("/api/memberships/clone", deps.Presentation.MembershipHandlers.CloneMemberships)

	// Access report
	r.Get("/api/sites/{siteID}/drives/{driveID}/report", deps.Presentation.ReportHandlers.Generate)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to signal all services to shutdown
		logger.Info("Cancelling app context...")
		appCancel()

		// Close SSE connections immediately
		logger.Info("Closing SSE connections...")
		deps.Presentation.SSEManager.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers wires up the event handlers for operation notifications
func setupEventHandlers(services *ApplicationServices, sseManager *handlers.SSEManager) {
	notificationHandlers := events.NewNotificationEventHandlers(sseManager)
	notificationHandlers.RegisterHandlers(services.EventBus)
}
