package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/analyses"
	"analysis-backend/internal/files"
	"analysis-backend/internal/llm"
	"analysis-backend/internal/llm/gemini"
	"analysis-backend/internal/llm/openai"
	"analysis-backend/internal/org"
	"analysis-backend/internal/records"
	"analysis-backend/internal/shared/config"
	"analysis-backend/internal/shared/server"
	"analysis-backend/internal/shared/server/middleware"
	"analysis-backend/internal/shared/storage/db"
	"analysis-backend/internal/shared/storage/object"
	localstore "analysis-backend/internal/shared/storage/object/local"
	s3store "analysis-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	FilesService    *files.Service
	AnalysesService *analyses.Service
	RecordsService  *records.Service
	FilesHandler    *files.Handler
	AnalysisHandler *analyses.Handler
	RecordsHandler  *records.Handler
	OrgHandler      *org.Handler
}

// Option customizes Build, mainly for tests.
type Option func(*App)

// WithLLM replaces the configured LLM provider.
func WithLLM(client llm.Client) Option {
	return func(a *App) {
		a.LLM = client
	}
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if app.LLM == nil {
		client, err := buildLLM(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.LLM = client
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DB:              app.DB,
		FilesHandler:    app.FilesHandler,
		AnalysisHandler: app.AnalysisHandler,
		RecordsHandler:  app.RecordsHandler,
		OrgHandler:      app.OrgHandler,
		Limiter:         middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
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
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Config{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; analysis disabled")
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; analysis disabled")
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var (
		fileRepo     files.Repo
		analysisRepo analyses.Repo
		recordRepo   records.Repo
	)
	if app.DB != nil {
		fileRepo = &files.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		recordRepo = &records.PGRepo{DB: app.DB}
	} else {
		fileRepo = files.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		recordRepo = records.NewMemoryRepo()
	}

	fileSvc := &files.Service{
		Store:           app.Store,
		Repo:            fileRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}
	analysisSvc := &analyses.Service{
		Repo:     analysisRepo,
		Files:    fileSvc,
		LLM:      app.LLM,
		Provider: app.Config.LLMProvider,
		Model:    app.Config.LLMModel,
		Timeout:  app.Config.LLMTimeout,
		MaxBytes: app.Config.MaxUploadBytes,
	}
	recordSvc := &records.Service{Repo: recordRepo}

	app.FilesService = fileSvc
	app.AnalysesService = analysisSvc
	app.RecordsService = recordSvc
	app.FilesHandler = files.NewHandler(fileSvc, app.Config.MaxUploadBytes)
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.RecordsHandler = records.NewHandler(recordSvc)
	app.OrgHandler = org.NewHandler(app.Config.OrgBaseURL, app.Config.FlowAPIName)
}
