package handlers

import (
	"time"

	"course-qa/internal/database"
	"course-qa/internal/engine"
	"course-qa/internal/logger"
	"course-qa/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Store          database.CommentStore
	Log            *logger.Logger
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	store database.CommentStore,
	log *logger.Logger,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Store:          store,
		Log:            log,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}
