package models

import "github.com/google/uuid"

// UserProfile is the display snapshot resolved from the user directory.
// The engine stores only the opaque authorId on comments; this snapshot is
// hydrated separately on read paths and never persisted with the comment.
type UserProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
}
