package actors

import (
	stdctx "context"
	"strings"
	"time"

	"course-qa/internal/database"
	"course-qa/internal/directory"
	"course-qa/internal/engine/tree"
	"course-qa/internal/logger"
	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for CommentActor
type (
	CreateCommentMsg struct {
		Content     string             `json:"content"`
		ContentType models.ContentType `json:"contentType"`
		ContentID   uuid.UUID          `json:"contentId"`
		AuthorID    uuid.UUID          `json:"authorId"`
		AuthorType  models.AuthorType  `json:"authorType"`
		ParentID    *uuid.UUID         `json:"parentId,omitempty"`
	}

	UpdateCommentMsg struct {
		CommentID   uuid.UUID `json:"commentId"`
		Content     string    `json:"content"`
		RequesterID uuid.UUID `json:"requesterId"`
	}

	SoftDeleteCommentMsg struct {
		CommentID     uuid.UUID         `json:"commentId"`
		Reason        string            `json:"reason"`
		RequesterID   uuid.UUID         `json:"requesterId"`
		RequesterRole models.AuthorType `json:"requesterRole"`
	}

	GetCommentMsg struct {
		CommentID uuid.UUID `json:"commentId"`
	}

	GetCommentTreeMsg struct {
		ContentType models.ContentType `json:"contentType"`
		ContentID   uuid.UUID          `json:"contentId"`
		MaxDepth    int                `json:"maxDepth"`
	}

	ListTopLevelMsg struct {
		ContentType models.ContentType `json:"contentType"`
		ContentID   uuid.UUID          `json:"contentId"`
		SortBy      models.SortOrder   `json:"sortBy"`
		Limit       int                `json:"limit"`
		Offset      int                `json:"offset"`
	}

	GetCommentCountMsg struct{}
)

// CommentActor owns the comment store and moderation lifecycle. All
// mutations for comment records flow through this single actor, so edits
// and soft-deletes are serialized; reads are snapshot-style queries against
// the store and may race with in-flight writes.
type CommentActor struct {
	store     database.CommentStore
	directory *directory.Directory
	metrics   *utils.MetricsCollector
	log       *logger.Logger
}

func NewCommentActor(store database.CommentStore, dir *directory.Directory, metrics *utils.MetricsCollector, log *logger.Logger) actor.Actor {
	return &CommentActor{
		store:     store,
		directory: dir,
		metrics:   metrics,
		log:       log,
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("CommentActor started", "pid", context.Self().String())

	case *CreateCommentMsg:
		a.timed("createComment", func() { a.handleCreateComment(context, msg) })

	case *UpdateCommentMsg:
		a.timed("updateComment", func() { a.handleUpdateComment(context, msg) })

	case *SoftDeleteCommentMsg:
		a.timed("softDeleteComment", func() { a.handleSoftDelete(context, msg) })

	case *GetCommentMsg:
		a.timed("getComment", func() { a.handleGetComment(context, msg) })

	case *GetCommentTreeMsg:
		a.timed("getCommentTree", func() { a.handleGetCommentTree(context, msg) })

	case *ListTopLevelMsg:
		a.timed("listTopLevel", func() { a.handleListTopLevel(context, msg) })

	case *GetCommentCountMsg:
		a.handleGetCommentCount(context)

	default:
		a.log.Debug("CommentActor: unknown message", "type", msg)
	}
}

func (a *CommentActor) timed(op string, fn func()) {
	start := time.Now()
	fn()
	a.metrics.AddOperationLatency(op, time.Since(start))
}

func (a *CommentActor) respondErr(context actor.Context, err *utils.AppError) {
	a.metrics.IncrementErrors()
	context.Respond(err)
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	ctx := stdctx.Background()

	if strings.TrimSpace(msg.Content) == "" {
		a.respondErr(context, utils.NewValidationError("comment content cannot be empty"))
		return
	}
	if !msg.ContentType.Valid() {
		a.respondErr(context, utils.NewValidationError("invalid content type"))
		return
	}
	if !msg.AuthorType.Valid() {
		a.respondErr(context, utils.NewValidationError("invalid author type"))
		return
	}

	now := time.Now()
	commentID := uuid.New()

	newComment := &models.Comment{
		ID:            commentID,
		Content:       msg.Content,
		AuthorID:      msg.AuthorID,
		AuthorType:    msg.AuthorType,
		ContentType:   msg.ContentType,
		ContentID:     msg.ContentID,
		ParentID:      msg.ParentID,
		RootID:        commentID, // top-level comment is its own root
		Likes:         make([]uuid.UUID, 0),
		Dislikes:      make([]uuid.UUID, 0),
		HelpfulVoters: make([]uuid.UUID, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if msg.ParentID != nil {
		parent, err := a.store.GetComment(ctx, *msg.ParentID)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrNotFound) {
				a.respondErr(context, utils.NewAppError(utils.ErrNotFound, "parent comment not found", nil))
			} else {
				a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to fetch parent comment", err))
			}
			return
		}
		// A reply always attaches to the same content object as its parent.
		if parent.ContentID != msg.ContentID || parent.ContentType != msg.ContentType {
			a.respondErr(context, utils.NewAppError(utils.ErrNotFound, "parent comment belongs to different content", nil))
			return
		}
		// Every reply carries its thread root, making thread grouping an
		// O(1) lookup instead of a tree walk.
		newComment.RootID = parent.RootID
	}

	if err := a.store.SaveComment(ctx, newComment); err != nil {
		a.log.Error("failed to save comment", "commentId", commentID, "error", err)
		a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to save comment", err))
		return
	}

	a.log.Info("comment created", "commentId", commentID, "contentId", msg.ContentID, "authorId", msg.AuthorID)
	context.Respond(newComment)
}

func (a *CommentActor) handleUpdateComment(context actor.Context, msg *UpdateCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			a.respondErr(context, appErr)
		} else {
			a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to fetch comment", err))
		}
		return
	}

	if comment.AuthorID != msg.RequesterID {
		a.respondErr(context, utils.NewForbiddenError("only the author can edit a comment"))
		return
	}
	if !models.CanTransition(comment.State(), models.StateEdited) {
		a.respondErr(context, utils.NewInvalidOperationError("cannot edit a deleted comment"))
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		a.respondErr(context, utils.NewValidationError("comment content cannot be empty"))
		return
	}

	// Partial update: votes landing between the authorization read and this
	// write stay intact because the voter sets are never rewritten.
	updated, err := a.store.UpdateCommentContent(ctx, msg.CommentID, msg.Content)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			a.respondErr(context, appErr)
		} else {
			a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to update comment", err))
		}
		return
	}

	context.Respond(updated)
}

func (a *CommentActor) handleSoftDelete(context actor.Context, msg *SoftDeleteCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			a.respondErr(context, appErr)
		} else {
			a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to fetch comment", err))
		}
		return
	}

	if comment.AuthorID != msg.RequesterID && !msg.RequesterRole.CanModerate() {
		a.respondErr(context, utils.NewForbiddenError("only the author or a moderator can delete a comment"))
		return
	}

	// Deleting an already-deleted comment is an idempotent success, not a
	// conflict.
	if comment.IsDeleted {
		context.Respond(&models.StatusResponse{Success: true, Message: "comment already deleted"})
		return
	}

	// Tombstone the content in place; parentId/rootId and the voter sets
	// stay intact so replies remain valid. Deleted is terminal.
	if err := a.store.MarkCommentDeleted(ctx, msg.CommentID, msg.Reason); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			a.respondErr(context, appErr)
		} else {
			a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to delete comment", err))
		}
		return
	}

	a.log.Info("comment soft-deleted", "commentId", msg.CommentID, "requesterId", msg.RequesterID, "reason", msg.Reason)
	context.Respond(&models.StatusResponse{Success: true, Message: "comment deleted"})
}

func (a *CommentActor) handleGetComment(context actor.Context, msg *GetCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			a.respondErr(context, appErr)
		} else {
			a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to get comment", err))
		}
		return
	}

	a.directory.Hydrate(ctx, []*models.Comment{comment})
	context.Respond(comment)
}

func (a *CommentActor) handleGetCommentTree(context actor.Context, msg *GetCommentTreeMsg) {
	ctx := stdctx.Background()

	if !msg.ContentType.Valid() {
		a.respondErr(context, utils.NewValidationError("invalid content type"))
		return
	}

	comments, err := a.store.GetThreadComments(ctx, msg.ContentType, msg.ContentID)
	if err != nil {
		a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to fetch thread comments", err))
		return
	}

	maxDepth := msg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = tree.DefaultMaxDepth
	}

	trees := tree.Assemble(comments, maxDepth, a.log)
	a.directory.HydrateTree(ctx, trees)
	context.Respond(trees)
}

func (a *CommentActor) handleListTopLevel(context actor.Context, msg *ListTopLevelMsg) {
	ctx := stdctx.Background()

	if !msg.ContentType.Valid() {
		a.respondErr(context, utils.NewValidationError("invalid content type"))
		return
	}

	sortBy := msg.SortBy
	if sortBy == "" {
		sortBy = models.SortNewest
	}
	if !sortBy.Valid() {
		a.respondErr(context, utils.NewValidationError("invalid sort order"))
		return
	}

	comments, err := a.store.GetThreadComments(ctx, msg.ContentType, msg.ContentID)
	if err != nil {
		a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to fetch thread comments", err))
		return
	}

	topLevel := tree.TopLevel(comments, sortBy, msg.Limit, msg.Offset)
	a.directory.Hydrate(ctx, topLevel)
	context.Respond(topLevel)
}

func (a *CommentActor) handleGetCommentCount(context actor.Context) {
	ctx := stdctx.Background()

	count, err := a.store.CountComments(ctx)
	if err != nil {
		a.respondErr(context, utils.NewAppError(utils.ErrDatabase, "failed to count comments", err))
		return
	}
	context.Respond(count)
}
