package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careercompass/compass-web/internal/config"
	"github.com/careercompass/compass-web/internal/controllers"
	"github.com/careercompass/compass-web/internal/crypto"
	"github.com/careercompass/compass-web/internal/middleware"
	"github.com/careercompass/compass-web/internal/models"
	"github.com/careercompass/compass-web/internal/services"
	"github.com/careercompass/compass-web/internal/views"
	"github.com/careercompass/compass-web/migrations"
	"github.com/careercompass/compass-web/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg := config.MustLoad()

	if err := run(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup the view state store ---------------
	store, db, err := openViewStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	var health controllers.HealthChecker
	if db != nil {
		defer db.Close()
		health = db
	}

	// Setup Services ---------------
	client := services.NewAnalysisClient(cfg.Analysis.BaseURL)
	registry := services.NewFlowRegistry(store, client, cfg.Analysis.Timeout, cfg.Security.ViewTTL)
	go registry.RunSweeper(ctx, sweepInterval)

	extractor := services.NewResumeExtractor()

	// Setup Controllers ---------------
	views.TemplateFS = templates.FS
	views.Development = cfg.IsDevelopment()

	staticCtrl := controllers.NewStaticController(controllers.StaticTemplates{
		Home:     views.MustParseFS("pages/home.gohtml"),
		About:    views.MustParseFS("pages/about.gohtml"),
		NotFound: views.MustParseFS("pages/not_found.gohtml"),
	})

	authTpl := views.MustParseFS("pages/auth.gohtml")
	authCtrl := controllers.NewAuthController(controllers.AuthTemplates{
		Login:    authTpl,
		Register: authTpl,
	})

	analysisCtrl := controllers.NewAnalysisController(
		registry,
		extractor,
		views.MustParseFS("pages/job_analysis.gohtml"),
		cfg.Analysis.MaxUploadBytes,
	)

	// Middleware ---------------
	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFSecret),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
		csrf.TrustedOrigins(cfg.Security.TrustedOrigins),
	)
	cookieKey, err := crypto.DeriveKey(cfg.Security.ViewStateSecret, crypto.ViewCookieInfo)
	if err != nil {
		return err
	}
	viewMw := middleware.NewViewMiddleware(
		cookieKey,
		cfg.Security.ViewCookieName,
		cfg.Security.ViewTTL,
		cfg.Security.SecureCookies,
	)

	// Setup router and routes ---------------
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", controllers.HealthCheck(health))

	r.Group(func(r chi.Router) {
		if !cfg.Security.SecureCookies {
			r.Use(middleware.PlaintextHTTP)
		}
		r.Use(csrfMw)
		r.Use(viewMw.SetView)

		r.Get("/", staticCtrl.GetHome)
		r.Get("/about", staticCtrl.GetAbout)

		r.Get("/login", authCtrl.GetLogin)
		r.Post("/login", authCtrl.PostLogin)
		r.Get("/register", authCtrl.GetRegister)
		r.Post("/register", authCtrl.PostRegister)

		r.Route("/job-analysis", func(r chi.Router) {
			r.Get("/", analysisCtrl.GetJobAnalysis)
			r.Post("/", analysisCtrl.PostJobAnalysis)
			r.Post("/questions", analysisCtrl.PostQuestions)
			r.Get("/status", analysisCtrl.GetStatus)
		})
	})

	r.NotFound(staticCtrl.NotFound)

	// Start the Server ---------------
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s (env=%s, analysis=%s)", cfg.Server.Address, cfg.Server.Environment, cfg.Analysis.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openViewStateStore picks PostgreSQL when DATABASE_URL is set and memory otherwise.
// The database is nil for the memory store.
func openViewStateStore(ctx context.Context, cfg *config.Config) (models.ViewStateStore, *models.Database, error) {
	if !cfg.UsesDatabase() {
		log.Println("DATABASE_URL not set, keeping view state in memory")
		return models.NewMemoryViewStateStore(cfg.Security.ViewTTL), nil, nil
	}

	log.Println("Connecting to database...")
	if err := models.MigrateURL(cfg.Database.URL, migrations.FS); err != nil {
		return nil, nil, err
	}

	db, err := models.NewDatabase(ctx, models.DefaultDatabaseConfig(cfg.Database.URL))
	if err != nil {
		return nil, nil, err
	}
	log.Println("Database connected successfully")

	encryptor, err := crypto.NewEncryptorFromSecret(cfg.Security.ViewStateSecret)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return models.NewPostgresViewStateStore(db.Pool, encryptor, cfg.Security.ViewTTL), db, nil
}
