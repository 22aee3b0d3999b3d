package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/database"
	"github.com/edustack/edustack/internal/embedding"
	"github.com/edustack/edustack/internal/knowledge"
	"github.com/edustack/edustack/internal/llm"
	"github.com/edustack/edustack/internal/queue"
	"github.com/edustack/edustack/internal/queue/workers"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	repo := knowledge.NewRepo(db)
	embedSvc := embedding.NewService(llm.NewGateway(cfg.Inference), cfg.RAG.EmbeddingModel)
	embedWorker := workers.NewKnowledgeEmbedWorker(repo, embedSvc)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeKnowledgeEmbed, asynq.HandlerFunc(embedWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
