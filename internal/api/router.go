package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/edustack/edustack/internal/api/handlers"
	"github.com/edustack/edustack/internal/api/middleware"
	"github.com/edustack/edustack/internal/auth"
	"github.com/edustack/edustack/internal/cache"
	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/embedding"
	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/generate"
	"github.com/edustack/edustack/internal/inference"
	"github.com/edustack/edustack/internal/knowledge"
	"github.com/edustack/edustack/internal/llm"
	"github.com/edustack/edustack/internal/queue"
	"github.com/edustack/edustack/internal/rag"
	"github.com/edustack/edustack/internal/records"
	"github.com/edustack/edustack/internal/storage"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		llmGW: llm.NewGateway(cfg.Inference),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	client := inference.NewClient(rt.cfg.Inference)
	fetcher := fetch.NewHTTPFetcher()
	dispatcher := generate.NewDispatcher(rt.llmGW, client, fetcher, rt.cfg.Inference)

	var store storage.Storage
	if rt.cfg.Storage.SupabaseURL != "" {
		store = storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey)
	}

	knowledgeRepo := knowledge.NewRepo(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	knowledgeSvc := knowledge.NewService(knowledgeRepo, queueClient)

	recordsRepo := records.NewRepo(rt.db)

	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.RAG.EmbeddingModel)
	embedCache := cache.NewEmbeddingCache(cache.NewCache(rt.redis))
	engine := rag.NewEngine(knowledgeRepo, embedSvc, rt.llmGW, embedCache, rt.cfg.RAG.AnswerModel)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		generateH := handlers.NewGenerateHandler(dispatcher)
		r.Post("/generate", generateH.Generate)

		transcribeH := handlers.NewTranscribeHandler(client, generate.TranscriptionModel)
		r.Post("/transcribe", transcribeH.Transcribe)

		ragH := handlers.NewRAGHandler(engine)
		r.Post("/rag/query", ragH.Query)

		knowledgeH := handlers.NewKnowledgeHandler(knowledgeSvc, knowledgeRepo)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", knowledgeH.Create)
			r.Post("/upload", knowledgeH.Upload)
			r.Get("/", knowledgeH.List)
			r.Get("/{id}", knowledgeH.Get)
			r.Put("/{id}/status", knowledgeH.SetStatus)
			r.Delete("/{id}", knowledgeH.Delete)
		})

		recordsH := handlers.NewRecordsHandler(recordsRepo)
		r.Route("/records", func(r chi.Router) {
			r.Post("/", recordsH.Create)
			r.Get("/", recordsH.List)
			r.Get("/{id}", recordsH.Get)
			r.Delete("/{id}", recordsH.Delete)
		})

		filesH := handlers.NewFilesHandler(store, rt.cfg.Storage.Bucket)
		r.Post("/files", filesH.Upload)
	})

	return r
}
