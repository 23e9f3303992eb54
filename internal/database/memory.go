package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/google/uuid"
)

// MemoryStore is a volatile CommentStore for tests and local development.
// All methods hold the store mutex for their full duration, which gives the
// same single-record atomicity the MongoDB adapter gets from one-document
// updates.
type MemoryStore struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]*models.Comment
	users    map[uuid.UUID]*models.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		comments: make(map[uuid.UUID]*models.Comment),
		users:    make(map[uuid.UUID]*models.UserProfile),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *comment
	stored.Likes = append([]uuid.UUID(nil), comment.Likes...)
	stored.Dislikes = append([]uuid.UUID(nil), comment.Dislikes...)
	stored.HelpfulVoters = append([]uuid.UUID(nil), comment.HelpfulVoters...)
	stored.Author = nil
	s.comments[comment.ID] = &stored
	return nil
}

func (s *MemoryStore) UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	if comment.IsDeleted {
		return nil, utils.NewInvalidOperationError("cannot edit a deleted comment")
	}

	comment.Content = content
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()
	return copyComment(comment), nil
}

func (s *MemoryStore) MarkCommentDeleted(ctx context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return utils.NewCommentNotFoundError(id.String())
	}

	comment.Content = models.TombstoneContent
	comment.IsDeleted = true
	comment.DeleteReason = reason
	comment.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	return copyComment(comment), nil
}

func (s *MemoryStore) GetThreadComments(ctx context.Context, contentType models.ContentType, contentID uuid.UUID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []*models.Comment
	for _, comment := range s.comments {
		if comment.ContentType == contentType && comment.ContentID == contentID {
			comments = append(comments, copyComment(comment))
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	if len(comments) > MaxThreadFetch {
		comments = comments[:MaxThreadFetch]
	}
	return comments, nil
}

func (s *MemoryStore) CountComments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.comments)), nil
}

func (s *MemoryStore) ApplyVote(ctx context.Context, commentID, userID uuid.UUID, action models.VoteAction) (*models.VoteCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, utils.NewCommentNotFoundError(commentID.String())
	}
	if comment.IsDeleted {
		return nil, utils.NewInvalidOperationError("cannot vote on a deleted comment")
	}

	switch action {
	case models.ActionLike:
		comment.Likes = addToSet(comment.Likes, userID)
		comment.Dislikes = removeFromSet(comment.Dislikes, userID)
	case models.ActionUnlike:
		comment.Likes = removeFromSet(comment.Likes, userID)
	case models.ActionDislike:
		comment.Dislikes = addToSet(comment.Dislikes, userID)
		comment.Likes = removeFromSet(comment.Likes, userID)
	case models.ActionUndislike:
		comment.Dislikes = removeFromSet(comment.Dislikes, userID)
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("unknown vote action %q", action))
	}

	return &models.VoteCounts{Likes: len(comment.Likes), Dislikes: len(comment.Dislikes)}, nil
}

func (s *MemoryStore) AddHelpfulVote(ctx context.Context, commentID, userID uuid.UUID) (*models.HelpfulCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, utils.NewCommentNotFoundError(commentID.String())
	}
	if comment.IsDeleted {
		return nil, utils.NewInvalidOperationError("cannot mark a deleted comment helpful")
	}
	if comment.AuthorType != models.AuthorStudent {
		return nil, utils.NewInvalidOperationError("helpful votes are reserved for student answers")
	}

	comment.HelpfulVoters = addToSet(comment.HelpfulVoters, userID)
	comment.HelpfulVotes = len(comment.HelpfulVoters)

	return &models.HelpfulCount{HelpfulVotes: len(comment.HelpfulVoters)}, nil
}

func (s *MemoryStore) GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "user not found: "+id.String(), nil)
	}
	copied := *profile
	return &copied, nil
}

// PutUserProfile seeds a directory entry. Memory adapter only.
func (s *MemoryStore) PutUserProfile(profile *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *profile
	s.users[profile.ID] = &copied
}

func copyComment(comment *models.Comment) *models.Comment {
	copied := *comment
	copied.Likes = append([]uuid.UUID(nil), comment.Likes...)
	copied.Dislikes = append([]uuid.UUID(nil), comment.Dislikes...)
	copied.HelpfulVoters = append([]uuid.UUID(nil), comment.HelpfulVoters...)
	copied.HelpfulVotes = len(comment.HelpfulVoters)
	return &copied
}

func addToSet(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func removeFromSet(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, existing := range set {
		if existing == id {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}
