package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"course-qa/internal/engine/actors"
	"course-qa/internal/middleware"
	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment.
// The author identity and role come from the validated token, never the
// request body.
type CreateCommentRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId"`
	ParentID    string `json:"parentId,omitempty"` // Optional, for replies
}

// UpdateCommentRequest represents a request to edit an existing comment
type UpdateCommentRequest struct {
	CommentID string `json:"commentId"`
	Content   string `json:"content"`
}

// VoteRequest represents a like/dislike toggle on a comment
type VoteRequest struct {
	CommentID string `json:"commentId"`
	Action    string `json:"action"`
}

// HelpfulRequest represents a helpful mark on a comment
type HelpfulRequest struct {
	CommentID string `json:"commentId"`
	Helpful   bool   `json:"helpful"`
}

// HandleComment handles comment CRUD operations
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.createComment(w, r)
		case http.MethodPut:
			s.updateComment(w, r)
		case http.MethodDelete:
			s.deleteComment(w, r)
		case http.MethodGet:
			s.getComment(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	requesterID, role, ok := middleware.GetRequesterFromContext(r.Context())
	if !ok {
		writeAppError(w, utils.NewAppError(utils.ErrUnauthorized, "missing requester identity", nil))
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		writeBadRequest(w, "invalid content ID")
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.Parse(req.ParentID)
		if err != nil {
			writeBadRequest(w, "invalid parent comment ID")
			return
		}
		parentID = &parsed
	}

	future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.CreateCommentMsg{
		Content:     req.Content,
		ContentType: models.ContentType(req.ContentType),
		ContentID:   contentID,
		AuthorID:    requesterID,
		AuthorType:  role,
		ParentID:    parentID,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
		return
	}

	respondActorResult(w, result)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	requesterID, _, ok := middleware.GetRequesterFromContext(r.Context())
	if !ok {
		writeAppError(w, utils.NewAppError(utils.ErrUnauthorized, "missing requester identity", nil))
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		writeBadRequest(w, "invalid comment ID")
		return
	}

	future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.UpdateCommentMsg{
		CommentID:   commentID,
		Content:     req.Content,
		RequesterID: requesterID,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
		return
	}

	respondActorResult(w, result)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	requesterID, role, ok := middleware.GetRequesterFromContext(r.Context())
	if !ok {
		writeAppError(w, utils.NewAppError(utils.ErrUnauthorized, "missing requester identity", nil))
		return
	}

	commentIDStr := r.URL.Query().Get("commentId")
	if commentIDStr == "" {
		writeBadRequest(w, "missing comment ID")
		return
	}

	commentID, err := uuid.Parse(commentIDStr)
	if err != nil {
		writeBadRequest(w, "invalid comment ID")
		return
	}

	future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.SoftDeleteCommentMsg{
		CommentID:     commentID,
		Reason:        r.URL.Query().Get("reason"),
		RequesterID:   requesterID,
		RequesterRole: role,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
		return
	}

	respondActorResult(w, result)
}

func (s *Server) getComment(w http.ResponseWriter, r *http.Request) {
	commentIDStr := r.URL.Query().Get("commentId")
	if commentIDStr == "" {
		writeBadRequest(w, "missing comment ID")
		return
	}

	commentID, err := uuid.Parse(commentIDStr)
	if err != nil {
		writeBadRequest(w, "invalid comment ID")
		return
	}

	future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.GetCommentMsg{
		CommentID: commentID,
	}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
		return
	}

	respondActorResult(w, result)
}

// HandleCommentTree retrieves the nested reply trees for a content object
func (s *Server) HandleCommentTree() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		contentID, err := uuid.Parse(r.URL.Query().Get("contentId"))
		if err != nil {
			writeBadRequest(w, "invalid content ID")
			return
		}

		maxDepth := 0
		if depthStr := r.URL.Query().Get("maxDepth"); depthStr != "" {
			maxDepth, err = strconv.Atoi(depthStr)
			if err != nil {
				writeBadRequest(w, "invalid maxDepth")
				return
			}
		}

		future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.GetCommentTreeMsg{
			ContentType: models.ContentType(r.URL.Query().Get("contentType")),
			ContentID:   contentID,
			MaxDepth:    maxDepth,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
			return
		}

		respondActorResult(w, result)
	}
}

// HandleListTopLevel retrieves an ordered, paginated top-level listing
func (s *Server) HandleListTopLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		contentID, err := uuid.Parse(r.URL.Query().Get("contentId"))
		if err != nil {
			writeBadRequest(w, "invalid content ID")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.ListTopLevelMsg{
			ContentType: models.ContentType(r.URL.Query().Get("contentType")),
			ContentID:   contentID,
			SortBy:      models.SortOrder(r.URL.Query().Get("sortBy")),
			Limit:       limit,
			Offset:      offset,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			writeAppError(w, utils.NewActorTimeoutError("CommentActor"))
			return
		}

		respondActorResult(w, result)
	}
}

// HandleCommentVote handles like/dislike toggles on comments
func (s *Server) HandleCommentVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requesterID, _, ok := middleware.GetRequesterFromContext(r.Context())
		if !ok {
			writeAppError(w, utils.NewAppError(utils.ErrUnauthorized, "missing requester identity", nil))
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		commentID, err := uuid.Parse(req.CommentID)
		if err != nil {
			writeBadRequest(w, "invalid comment ID")
			return
		}

		future := s.Context.RequestFuture(s.Engine.VoteActor(), &actors.ToggleVoteMsg{
			CommentID: commentID,
			UserID:    requesterID,
			Action:    models.VoteAction(req.Action),
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			writeAppError(w, utils.NewActorTimeoutError("VoteActor"))
			return
		}

		respondActorResult(w, result)
	}
}

// HandleMarkHelpful handles helpful marks on student answers
func (s *Server) HandleMarkHelpful() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requesterID, _, ok := middleware.GetRequesterFromContext(r.Context())
		if !ok {
			writeAppError(w, utils.NewAppError(utils.ErrUnauthorized, "missing requester identity", nil))
			return
		}

		var req HelpfulRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		if !req.Helpful {
			writeBadRequest(w, "unmarking helpful is not supported")
			return
		}

		commentID, err := uuid.Parse(req.CommentID)
		if err != nil {
			writeBadRequest(w, "invalid comment ID")
			return
		}

		future := s.Context.RequestFuture(s.Engine.VoteActor(), &actors.MarkHelpfulMsg{
			CommentID: commentID,
			UserID:    requesterID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			writeAppError(w, utils.NewActorTimeoutError("VoteActor"))
			return
		}

		respondActorResult(w, result)
	}
}
