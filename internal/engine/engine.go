package engine

import (
	"course-qa/internal/database"
	"course-qa/internal/directory"
	"course-qa/internal/engine/actors"
	"course-qa/internal/logger"
	"course-qa/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns and holds the actors that serialize mutations against the
// discussion store.
type Engine struct {
	commentPID *actor.PID
	votePID    *actor.PID
}

func NewEngine(system *actor.ActorSystem, store database.CommentStore, dir *directory.Directory, metrics *utils.MetricsCollector, log *logger.Logger) *Engine {
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, dir, metrics, log)
	})
	voteProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewVoteActor(store, metrics, log)
	})

	return &Engine{
		commentPID: system.Root.Spawn(commentProps),
		votePID:    system.Root.Spawn(voteProps),
	}
}

func (e *Engine) CommentActor() *actor.PID { return e.commentPID }
func (e *Engine) VoteActor() *actor.PID    { return e.votePID }
