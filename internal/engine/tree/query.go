package tree

import (
	"sort"

	"course-qa/internal/models"
)

// MaxPageSize is the hard cap on a single top-level listing, regardless of
// the limit a caller asks for.
const MaxPageSize = 100

// DefaultPageSize applies when the caller gives no limit.
const DefaultPageSize = 20

// TopLevel filters a flat comment slice down to top-level comments, orders
// them by the requested sort, and applies bounded pagination. The secondary
// sort key is createdAt descending in every mode, so pagination is
// deterministic across repeated calls even with tied primary keys.
func TopLevel(comments []*models.Comment, sortBy models.SortOrder, limit, offset int) []*models.Comment {
	roots := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsTopLevel() {
			roots = append(roots, c)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		a, b := roots[i], roots[j]
		switch sortBy {
		case models.SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case models.SortMostLiked:
			if a.LikeCount() != b.LikeCount() {
				return a.LikeCount() > b.LikeCount()
			}
		case models.SortMostHelpful:
			if a.HelpfulVotes != b.HelpfulVotes {
				return a.HelpfulVotes > b.HelpfulVotes
			}
		}
		// newest, and the tie-break for every other mode
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(roots) {
		return []*models.Comment{}
	}

	end := offset + limit
	if end > len(roots) {
		end = len(roots)
	}
	return roots[offset:end]
}
