package handlers

import (
	"net/http"
	"time"

	"course-qa/internal/engine/actors"
	"course-qa/internal/utils"
)

// HandleHealth reports engine status, comment count and metrics snapshot.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		future := s.Context.RequestFuture(s.Engine.CommentActor(), &actors.GetCommentCountMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get comment count", http.StatusInternalServerError)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			writeAppError(w, appErr)
			return
		}

		count, ok := result.(int64)
		if !ok {
			http.Error(w, "Unexpected engine reply", http.StatusInternalServerError)
			return
		}

		writeData(w, http.StatusOK, map[string]interface{}{
			"status":        "healthy",
			"comment_count": count,
			"metrics":       s.Metrics.Snapshot(),
			"server_time":   time.Now(),
		})
	}
}
