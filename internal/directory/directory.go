// Package directory resolves opaque author ids to display snapshots.
// The discussion engine never stores denormalized profile fields on a
// comment; reads hydrate the snapshot separately through this collaborator.
package directory

import (
	"context"
	"sync"

	"course-qa/internal/logger"
	"course-qa/internal/models"

	"github.com/google/uuid"
)

// ProfileSource is where directory lookups ultimately land.
type ProfileSource interface {
	GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

// Directory caches resolved profiles in process. Misses are logged and the
// author field is simply left unset; a missing profile never fails a read.
type Directory struct {
	mu     sync.RWMutex
	source ProfileSource
	cache  map[uuid.UUID]*models.UserProfile
	log    *logger.Logger
}

func New(source ProfileSource, log *logger.Logger) *Directory {
	return &Directory{
		source: source,
		cache:  make(map[uuid.UUID]*models.UserProfile),
		log:    log,
	}
}

// Resolve returns the display snapshot for a user, or nil when the
// directory has no entry.
func (d *Directory) Resolve(ctx context.Context, id uuid.UUID) *models.UserProfile {
	d.mu.RLock()
	profile, ok := d.cache[id]
	d.mu.RUnlock()
	if ok {
		return profile
	}

	profile, err := d.source.GetUserProfile(ctx, id)
	if err != nil {
		d.log.Warn("failed to resolve user profile", "userId", id, "error", err)
		return nil
	}

	d.mu.Lock()
	d.cache[id] = profile
	d.mu.Unlock()
	return profile
}

// Hydrate attaches display snapshots to a slice of comments.
func (d *Directory) Hydrate(ctx context.Context, comments []*models.Comment) {
	for _, comment := range comments {
		if comment.Author == nil {
			comment.Author = d.Resolve(ctx, comment.AuthorID)
		}
	}
}

// HydrateTree attaches display snapshots to every node of assembled trees.
func (d *Directory) HydrateTree(ctx context.Context, trees []*models.CommentTree) {
	for _, node := range trees {
		if node.Comment.Author == nil {
			node.Comment.Author = d.Resolve(ctx, node.Comment.AuthorID)
		}
		d.HydrateTree(ctx, node.Replies)
	}
}
