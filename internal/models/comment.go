package models

import (
	"time"

	"github.com/google/uuid"
)

// TombstoneContent replaces the body of a soft-deleted comment. The record
// itself is never removed, so replies keep valid parent references.
const TombstoneContent = "[deleted]"

// ContentType identifies the kind of object a discussion thread attaches to.
type ContentType string

const (
	ContentCourse     ContentType = "course"
	ContentLesson     ContentType = "lesson"
	ContentDiscussion ContentType = "discussion"
	ContentAssignment ContentType = "assignment"
)

func (ct ContentType) Valid() bool {
	switch ct {
	case ContentCourse, ContentLesson, ContentDiscussion, ContentAssignment:
		return true
	}
	return false
}

// AuthorType is the role of the user who wrote a comment.
type AuthorType string

const (
	AuthorStudent AuthorType = "student"
	AuthorTeacher AuthorType = "teacher"
	AuthorAdmin   AuthorType = "admin"
)

func (at AuthorType) Valid() bool {
	switch at {
	case AuthorStudent, AuthorTeacher, AuthorAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may soft-delete other users' comments.
func (at AuthorType) CanModerate() bool {
	return at == AuthorTeacher || at == AuthorAdmin
}

// Comment represents one question, answer, or reply in a discussion thread.
// Likes, Dislikes and HelpfulVoters are sets of distinct voter ids; a voter
// appears in at most one of Likes/Dislikes. Author is an optional display
// snapshot hydrated from the user directory on reads, never persisted.
type Comment struct {
	ID            uuid.UUID    `json:"id"`
	Content       string       `json:"content"`
	AuthorID      uuid.UUID    `json:"authorId"`
	AuthorType    AuthorType   `json:"authorType"`
	Author        *UserProfile `json:"author,omitempty"`
	ContentType   ContentType  `json:"contentType"`
	ContentID     uuid.UUID    `json:"contentId"`
	ParentID      *uuid.UUID   `json:"parentId,omitempty"`
	RootID        uuid.UUID    `json:"rootId"`
	Likes         []uuid.UUID  `json:"likes"`
	Dislikes      []uuid.UUID  `json:"dislikes"`
	HelpfulVoters []uuid.UUID  `json:"-"`
	HelpfulVotes  int          `json:"helpfulVotes"`
	IsEdited      bool         `json:"isEdited"`
	IsDeleted     bool         `json:"isDeleted"`
	DeleteReason  string       `json:"deleteReason,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (c *Comment) LikeCount() int    { return len(c.Likes) }
func (c *Comment) DislikeCount() int { return len(c.Dislikes) }

// IsTopLevel reports whether the comment is the root of its thread.
func (c *Comment) IsTopLevel() bool { return c.ParentID == nil }

// CommentTree is one node of an assembled reply tree. TotalReplies counts
// all descendants, not just direct children. Depth is the distance from the
// thread root (root = 0) and never exceeds the maxDepth the tree was
// assembled with.
type CommentTree struct {
	Comment      *Comment       `json:"comment"`
	Replies      []*CommentTree `json:"replies"`
	TotalReplies int            `json:"totalReplies"`
	Depth        int            `json:"depth"`
}

// SortOrder selects the ordering of top-level thread listings.
type SortOrder string

const (
	SortNewest      SortOrder = "newest"
	SortOldest      SortOrder = "oldest"
	SortMostLiked   SortOrder = "mostLiked"
	SortMostHelpful SortOrder = "mostHelpful"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortMostLiked, SortMostHelpful:
		return true
	}
	return false
}
