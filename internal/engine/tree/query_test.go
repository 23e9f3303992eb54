package tree

import (
	"testing"
	"time"

	"course-qa/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func topLevelComment(createdAt time.Time, likes, helpful int) *models.Comment {
	id := uuid.New()
	c := &models.Comment{
		ID:           id,
		Content:      "c",
		AuthorID:     uuid.New(),
		AuthorType:   models.AuthorStudent,
		ContentType:  models.ContentLesson,
		ContentID:    uuid.New(),
		RootID:       id,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
		HelpfulVotes: helpful,
	}
	for i := 0; i < likes; i++ {
		c.Likes = append(c.Likes, uuid.New())
	}
	return c
}

func TestTopLevelFiltersReplies(t *testing.T) {
	now := time.Now()
	root := topLevelComment(now, 0, 0)
	reply := topLevelComment(now.Add(time.Minute), 0, 0)
	parentID := root.ID
	reply.ParentID = &parentID

	result := TopLevel([]*models.Comment{root, reply}, models.SortNewest, 0, 0)

	assert.Len(t, result, 1)
	assert.Equal(t, root.ID, result[0].ID)
}

func TestTopLevelSortModes(t *testing.T) {
	base := time.Now()
	oldest := topLevelComment(base, 1, 5)
	middle := topLevelComment(base.Add(time.Minute), 3, 1)
	newest := topLevelComment(base.Add(2*time.Minute), 2, 2)
	all := []*models.Comment{middle, newest, oldest}

	byNewest := TopLevel(all, models.SortNewest, 0, 0)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, ids(byNewest))

	byOldest := TopLevel(all, models.SortOldest, 0, 0)
	assert.Equal(t, []uuid.UUID{oldest.ID, middle.ID, newest.ID}, ids(byOldest))

	byLikes := TopLevel(all, models.SortMostLiked, 0, 0)
	assert.Equal(t, []uuid.UUID{middle.ID, newest.ID, oldest.ID}, ids(byLikes))

	byHelpful := TopLevel(all, models.SortMostHelpful, 0, 0)
	assert.Equal(t, []uuid.UUID{oldest.ID, newest.ID, middle.ID}, ids(byHelpful))
}

func TestTopLevelTieBreaksByCreatedAtDescending(t *testing.T) {
	base := time.Now()
	older := topLevelComment(base, 2, 0)
	newer := topLevelComment(base.Add(time.Minute), 2, 0)
	all := []*models.Comment{older, newer}

	// Equal like counts: the newer comment wins, deterministically.
	for i := 0; i < 5; i++ {
		result := TopLevel(all, models.SortMostLiked, 0, 0)
		assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, ids(result))
	}
}

func TestTopLevelPagination(t *testing.T) {
	base := time.Now()
	var all []*models.Comment
	for i := 0; i < 250; i++ {
		all = append(all, topLevelComment(base.Add(time.Duration(i)*time.Second), 0, 0))
	}

	capped := TopLevel(all, models.SortNewest, 500, 0)
	assert.Len(t, capped, MaxPageSize, "requested limit must be capped")

	defaulted := TopLevel(all, models.SortNewest, 0, 0)
	assert.Len(t, defaulted, DefaultPageSize)

	page2 := TopLevel(all, models.SortOldest, 10, 10)
	assert.Len(t, page2, 10)
	assert.Equal(t, all[10].ID, page2[0].ID)

	beyond := TopLevel(all, models.SortNewest, 10, 1000)
	assert.Empty(t, beyond)
}

func ids(comments []*models.Comment) []uuid.UUID {
	out := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}
