package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"course-qa/internal/config"
	"course-qa/internal/database"
	"course-qa/internal/directory"
	"course-qa/internal/engine"
	"course-qa/internal/handlers"
	"course-qa/internal/logger"
	"course-qa/internal/middleware"
	"course-qa/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open comment store", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Error("failed to close comment store", "error", err)
		}
	}()

	metrics := utils.NewMetricsCollector()
	dir := directory.New(store, log)

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store, dir, metrics, log)

	server := handlers.NewServer(system, eng, metrics, store, log)
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret)
	cors := middleware.DefaultCORSConfig(cfg.AllowedOrigins)

	mux := http.NewServeMux()
	route := func(path string, handler http.HandlerFunc) {
		counted := func(w http.ResponseWriter, r *http.Request) {
			metrics.IncrementRequests()
			handler(w, r)
		}
		mux.HandleFunc(path, middleware.ApplyCORS(auth.ApplyJWT(counted, path), cors))
	}

	route("/health", server.HandleHealth())
	route("/comment", server.HandleComment())
	route("/comment/tree", server.HandleCommentTree())
	route("/comment/list", server.HandleListTopLevel())
	route("/comment/vote", server.HandleCommentVote())
	route("/comment/helpful", server.HandleMarkHelpful())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", serverAddr, "store", cfg.Database.Type)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatal("server failed to start", "error", err)
	}
}

func openStore(cfg *config.Config, log *logger.Logger) (database.CommentStore, error) {
	switch cfg.Database.Type {
	case "memory":
		log.Warn("using volatile in-memory store; data will not survive restarts")
		return database.NewMemoryStore(), nil
	default:
		mongo, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name, log)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return mongo, nil
	}
}
