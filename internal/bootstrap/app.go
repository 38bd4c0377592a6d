package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapply-backend/internal/applications"
	"jobapply-backend/internal/jobs"
	"jobapply-backend/internal/resumes"
	"jobapply-backend/internal/shared/config"
	"jobapply-backend/internal/shared/server"
	"jobapply-backend/internal/shared/storage/db"
	"jobapply-backend/internal/shared/storage/upload"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Uploads    *upload.Store
	JobsClient *jobs.Client

	ResumesRepo      resumes.Repo
	ApplicationsRepo applications.Repo

	ResumesService *resumes.Service
	ApplyService   *applications.Service
	ApplyHandler   *applications.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Uploads:    upload.New(cfg.UploadDir),
		JobsClient: jobs.NewClient(cfg.JobsAPIBaseURL, cfg.JobsAPITimeout),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       app.Config,
		ApplyHandler: app.ApplyHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildServices(app *App) {
	var resumeRepo resumes.Repo
	var appRepo applications.Repo
	var tx applications.TxRunner

	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
		tx = &db.TxManager{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
		tx = applications.NoTx{}
	}

	resumeSvc := &resumes.Service{
		Repo:  resumeRepo,
		Files: app.Uploads,
	}

	applySvc := &applications.Service{
		Ledger:    appRepo,
		Snapshots: resumeSvc,
		Jobs:      app.JobsClient,
		Tx:        tx,
	}

	app.ResumesRepo = resumeRepo
	app.ApplicationsRepo = appRepo
	app.ResumesService = resumeSvc
	app.ApplyService = applySvc
	app.ApplyHandler = applications.NewHandler(applySvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
