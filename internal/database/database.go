// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"course-qa/internal/logger"
	"course-qa/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxThreadFetch bounds the number of comments fetched for a single thread
// query, so one adversarially large thread cannot make a read unbounded.
const MaxThreadFetch = 1000

// CommentStore is the persistence contract for the discussion engine.
// Vote methods must apply set-add/set-remove semantics atomically against
// the stored voter sets; two concurrent distinct-user votes may never be
// lost to a read-increment-write race.
type CommentStore interface {
	Close(ctx context.Context) error

	// Comment records. SaveComment is for creation; edits and deletes go
	// through the partial updates below, which never touch the voter sets
	// and so cannot clobber votes landing concurrently.
	SaveComment(ctx context.Context, comment *models.Comment) error
	UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	MarkCommentDeleted(ctx context.Context, id uuid.UUID, reason string) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetThreadComments(ctx context.Context, contentType models.ContentType, contentID uuid.UUID) ([]*models.Comment, error)
	CountComments(ctx context.Context) (int64, error)

	// Voter sets, single-record atomic updates
	ApplyVote(ctx context.Context, commentID, userID uuid.UUID, action models.VoteAction) (*models.VoteCounts, error)
	AddHelpfulVote(ctx context.Context, commentID, userID uuid.UUID) (*models.HelpfulCount, error)

	// User directory reads
	GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

type MongoDB struct {
	Client   *mongo.Client
	Comments *mongo.Collection
	Users    *mongo.Collection
	log      *logger.Logger
}

func NewMongoDB(uri, dbName string, log *logger.Logger) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Info("connected to MongoDB", "database", dbName)

	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Comments: db.Collection("comments"),
		Users:    db.Collection("users"),
		log:      log,
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the read paths rely on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "contentType", Value: 1},
				{Key: "contentId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "parentId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "rootId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "authorId", Value: 1}},
		},
	}

	_, err := m.Comments.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	return nil
}
