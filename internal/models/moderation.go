package models

// CommentState is the moderation lifecycle state of a comment.
// Active -> Edited is a self-transition on content updates; Deleted is
// terminal (there is no restore path).
type CommentState string

const (
	StateActive  CommentState = "active"
	StateEdited  CommentState = "edited"
	StateDeleted CommentState = "deleted"
)

// State derives the lifecycle state from the record flags.
func (c *Comment) State() CommentState {
	switch {
	case c.IsDeleted:
		return StateDeleted
	case c.IsEdited:
		return StateEdited
	default:
		return StateActive
	}
}

// CanTransition reports whether a lifecycle transition is permitted.
func CanTransition(from, to CommentState) bool {
	switch from {
	case StateActive, StateEdited:
		return to == StateEdited || to == StateDeleted
	default:
		return false
	}
}
