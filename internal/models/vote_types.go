package models

// VoteAction represents a like/dislike toggle requested by a voter.
type VoteAction string

const (
	ActionLike      VoteAction = "like"
	ActionUnlike    VoteAction = "unlike"
	ActionDislike   VoteAction = "dislike"
	ActionUndislike VoteAction = "undislike"
)

func (a VoteAction) Valid() bool {
	switch a {
	case ActionLike, ActionUnlike, ActionDislike, ActionUndislike:
		return true
	}
	return false
}

// VoteCounts is the aggregate returned after a like/dislike toggle.
type VoteCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// HelpfulCount is the aggregate returned after a helpful mark.
type HelpfulCount struct {
	HelpfulVotes int `json:"helpfulVotes"`
}

// StatusResponse is a generic success/failure payload for mutations that
// return no entity.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
