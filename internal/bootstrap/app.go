package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docingest-backend/internal/documents"
	"docingest-backend/internal/extract"
	"docingest-backend/internal/index"
	openaiembed "docingest-backend/internal/index/openai"
	"docingest-backend/internal/ingest"
	"docingest-backend/internal/shared/config"
	"docingest-backend/internal/shared/server"
	"docingest-backend/internal/shared/storage/blob"
	localstore "docingest-backend/internal/shared/storage/blob/local"
	s3store "docingest-backend/internal/shared/storage/blob/s3"
	"docingest-backend/internal/shared/storage/db"
)

// App holds shared dependencies for one process. The caller owns the DB
// lifecycle; everything else is plain wiring.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Blobs           blob.Store
	Repo            documents.Repo
	Pipeline        *ingest.Pipeline
	IngestHandler   *ingest.Handler
	DocumentHandler *documents.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.BlobStoreType) == "" {
		cfg.BlobStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	var repo documents.Repo
	if sqlDB != nil {
		repo = &documents.PGRepo{DB: sqlDB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	pipeline := &ingest.Pipeline{
		Blobs:     blobs,
		Repo:      repo,
		Extractor: &extract.Service{Blobs: blobs},
		Indexer:   &index.Builder{Dir: cfg.IndexDir, Embedder: embedder},
	}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Blobs:           blobs,
		Repo:            repo,
		Pipeline:        pipeline,
		IngestHandler:   ingest.NewHandler(pipeline),
		DocumentHandler: documents.NewHandler(repo),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		IngestHandler:   app.IngestHandler,
		DocumentHandler: app.DocumentHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
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

func buildBlobs(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.UploadsDir), nil
	}
}

func buildEmbedder(cfg config.Config) (index.Embedder, error) {
	if cfg.EmbeddingProvider == "openai" {
		return openaiembed.NewEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}
	return index.LocalEmbedder{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
