package database

import (
	"context"
	"testing"
	"time"

	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedComment(t *testing.T, store *MemoryStore, authorType models.AuthorType, deleted bool) *models.Comment {
	t.Helper()
	id := uuid.New()
	comment := &models.Comment{
		ID:          id,
		Content:     "seed comment",
		AuthorID:    uuid.New(),
		AuthorType:  authorType,
		ContentType: models.ContentCourse,
		ContentID:   uuid.New(),
		RootID:      id,
		IsDeleted:   deleted,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if deleted {
		comment.Content = models.TombstoneContent
	}
	assert.NoError(t, store.SaveComment(context.Background(), comment))
	return comment
}

func TestApplyVoteIdempotentLike(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)
	voter := uuid.New()

	counts, err := store.ApplyVote(ctx, comment.ID, voter, models.ActionLike)
	assert.NoError(t, err)
	assert.Equal(t, 1, counts.Likes)

	// Second like by the same voter changes nothing.
	counts, err = store.ApplyVote(ctx, comment.ID, voter, models.ActionLike)
	assert.NoError(t, err)
	assert.Equal(t, 1, counts.Likes)
	assert.Equal(t, 0, counts.Dislikes)
}

func TestApplyVoteMutualExclusivity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)
	voter := uuid.New()

	_, err := store.ApplyVote(ctx, comment.ID, voter, models.ActionLike)
	assert.NoError(t, err)

	counts, err := store.ApplyVote(ctx, comment.ID, voter, models.ActionDislike)
	assert.NoError(t, err)
	assert.Equal(t, 0, counts.Likes)
	assert.Equal(t, 1, counts.Dislikes)

	stored, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.NotContains(t, stored.Likes, voter)
	assert.Contains(t, stored.Dislikes, voter)
}

func TestApplyVoteUnlikeIsNoOpWhenAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)

	counts, err := store.ApplyVote(ctx, comment.ID, uuid.New(), models.ActionUnlike)
	assert.NoError(t, err)
	assert.Equal(t, 0, counts.Likes)
	assert.Equal(t, 0, counts.Dislikes)
}

func TestApplyVoteRejectsDeletedAndMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	deleted := seedComment(t, store, models.AuthorStudent, true)

	_, err := store.ApplyVote(ctx, deleted.ID, uuid.New(), models.ActionLike)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidOperation))

	_, err = store.ApplyVote(ctx, uuid.New(), uuid.New(), models.ActionLike)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestAddHelpfulVoteIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)
	voter := uuid.New()

	count, err := store.AddHelpfulVote(ctx, comment.ID, voter)
	assert.NoError(t, err)
	assert.Equal(t, 1, count.HelpfulVotes)

	count, err = store.AddHelpfulVote(ctx, comment.ID, voter)
	assert.NoError(t, err)
	assert.Equal(t, 1, count.HelpfulVotes, "second mark by the same voter must not increment")

	count, err = store.AddHelpfulVote(ctx, comment.ID, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, 2, count.HelpfulVotes)
}

func TestAddHelpfulVoteStudentOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	teacherComment := seedComment(t, store, models.AuthorTeacher, false)
	_, err := store.AddHelpfulVote(ctx, teacherComment.ID, uuid.New())
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidOperation))

	deletedComment := seedComment(t, store, models.AuthorStudent, true)
	_, err = store.AddHelpfulVote(ctx, deletedComment.ID, uuid.New())
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidOperation))
}

func TestGetThreadCommentsSortedAndScoped(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	contentID := uuid.New()
	base := time.Now()
	var created []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		assert.NoError(t, store.SaveComment(ctx, &models.Comment{
			ID:          id,
			Content:     "c",
			AuthorID:    uuid.New(),
			AuthorType:  models.AuthorStudent,
			ContentType: models.ContentLesson,
			ContentID:   contentID,
			RootID:      id,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
		created = append(created, id)
	}
	// A comment on different content must not leak into the thread.
	seedComment(t, store, models.AuthorStudent, false)

	comments, err := store.GetThreadComments(ctx, models.ContentLesson, contentID)
	assert.NoError(t, err)
	assert.Len(t, comments, 3)
	for i, c := range comments {
		assert.Equal(t, created[i], c.ID, "oldest first")
	}
}

func TestUpdateCommentContentPreservesVotes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)
	voter := uuid.New()
	helper := uuid.New()

	// The editor reads its snapshot before the vote arrives.
	_, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)

	_, err = store.ApplyVote(ctx, comment.ID, voter, models.ActionLike)
	assert.NoError(t, err)
	_, err = store.AddHelpfulVote(ctx, comment.ID, helper)
	assert.NoError(t, err)

	updated, err := store.UpdateCommentContent(ctx, comment.ID, "revised")
	assert.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.True(t, updated.IsEdited)
	assert.Equal(t, 1, updated.LikeCount(), "vote landing before the content write must survive it")
	assert.Equal(t, 1, updated.HelpfulVotes)

	stored, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.Contains(t, stored.Likes, voter)
}

func TestUpdateCommentContentRejectsDeletedAndMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	deleted := seedComment(t, store, models.AuthorStudent, true)

	_, err := store.UpdateCommentContent(ctx, deleted.ID, "resurrect")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidOperation))

	_, err = store.UpdateCommentContent(ctx, uuid.New(), "ghost")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestMarkCommentDeletedPreservesLinksAndVotes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)
	voter := uuid.New()

	_, err := store.ApplyVote(ctx, comment.ID, voter, models.ActionLike)
	assert.NoError(t, err)

	assert.NoError(t, store.MarkCommentDeleted(ctx, comment.ID, "off topic"))

	stored, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, models.TombstoneContent, stored.Content)
	assert.Equal(t, "off topic", stored.DeleteReason)
	assert.Equal(t, comment.RootID, stored.RootID)
	assert.Contains(t, stored.Likes, voter, "tombstoning must not rewrite the voter sets")

	assert.True(t, utils.IsErrorCode(store.MarkCommentDeleted(ctx, uuid.New(), "x"), utils.ErrNotFound))
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	comment := seedComment(t, store, models.AuthorStudent, false)

	fetched, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	fetched.Content = "mutated by caller"
	fetched.Likes = append(fetched.Likes, uuid.New())

	again, err := store.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "seed comment", again.Content)
	assert.Empty(t, again.Likes)
}

func TestUserProfileRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	profile := &models.UserProfile{ID: uuid.New(), DisplayName: "Ada Lovelace"}
	store.PutUserProfile(profile)

	resolved, err := store.GetUserProfile(ctx, profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", resolved.DisplayName)

	_, err = store.GetUserProfile(ctx, uuid.New())
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}
