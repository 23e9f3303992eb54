package actors

import (
	stdctx "context"
	"time"

	"course-qa/internal/database"
	"course-qa/internal/logger"
	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for VoteActor
type (
	ToggleVoteMsg struct {
		CommentID uuid.UUID         `json:"commentId"`
		UserID    uuid.UUID         `json:"userId"`
		Action    models.VoteAction `json:"action"`
	}

	MarkHelpfulMsg struct {
		CommentID uuid.UUID `json:"commentId"`
		UserID    uuid.UUID `json:"userId"`
	}
)

// VoteActor owns vote aggregation. It delegates to the store's atomic
// voter-set updates rather than holding counters itself, so concurrent
// distinct-user votes are never lost and repeated votes by the same user
// stay idempotent.
type VoteActor struct {
	store   database.CommentStore
	metrics *utils.MetricsCollector
	log     *logger.Logger
}

func NewVoteActor(store database.CommentStore, metrics *utils.MetricsCollector, log *logger.Logger) actor.Actor {
	return &VoteActor{
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

func (a *VoteActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("VoteActor started", "pid", context.Self().String())

	case *ToggleVoteMsg:
		start := time.Now()
		a.handleToggleVote(context, msg)
		a.metrics.AddOperationLatency("toggleVote", time.Since(start))

	case *MarkHelpfulMsg:
		start := time.Now()
		a.handleMarkHelpful(context, msg)
		a.metrics.AddOperationLatency("markHelpful", time.Since(start))

	default:
		a.log.Debug("VoteActor: unknown message", "type", msg)
	}
}

func (a *VoteActor) handleToggleVote(context actor.Context, msg *ToggleVoteMsg) {
	ctx := stdctx.Background()

	if !msg.Action.Valid() {
		a.metrics.IncrementErrors()
		context.Respond(utils.NewValidationError("invalid vote action"))
		return
	}

	counts, err := a.store.ApplyVote(ctx, msg.CommentID, msg.UserID, msg.Action)
	if err != nil {
		a.metrics.IncrementErrors()
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to process vote", err))
		}
		return
	}

	context.Respond(counts)
}

func (a *VoteActor) handleMarkHelpful(context actor.Context, msg *MarkHelpfulMsg) {
	ctx := stdctx.Background()

	count, err := a.store.AddHelpfulVote(ctx, msg.CommentID, msg.UserID)
	if err != nil {
		a.metrics.IncrementErrors()
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to record helpful vote", err))
		}
		return
	}

	context.Respond(count)
}
