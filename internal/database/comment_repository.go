package database

import (
	"context"
	"fmt"
	"time"

	"course-qa/internal/models"
	"course-qa/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents comment data in MongoDB. Voter sets are stored
// inside the comment document so a single UpdateOne keeps them consistent.
type CommentDocument struct {
	ID            string    `bson:"_id"`
	Content       string    `bson:"content"`
	AuthorID      string    `bson:"authorId"`
	AuthorType    string    `bson:"authorType"`
	ContentType   string    `bson:"contentType"`
	ContentID     string    `bson:"contentId"`
	ParentID      *string   `bson:"parentId,omitempty"`
	RootID        string    `bson:"rootId"`
	Likes         []string  `bson:"likes"`
	Dislikes      []string  `bson:"dislikes"`
	HelpfulVoters []string  `bson:"helpfulVoters"`
	IsEdited      bool      `bson:"isEdited"`
	IsDeleted     bool      `bson:"isDeleted"`
	DeleteReason  string    `bson:"deleteReason,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

// UserDocument holds the directory snapshot for an author.
type UserDocument struct {
	ID          string `bson:"_id"`
	DisplayName string `bson:"displayName"`
	AvatarURL   string `bson:"avatarUrl,omitempty"`
}

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		m.log.Error("failed to save comment", "commentId", comment.ID, "error", err)
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}

	return nil
}

// UpdateCommentContent rewrites the text body of a live comment. Only
// content, isEdited and updatedAt are $set, so voter-set updates landing
// concurrently are never overwritten. The filter asserts the comment is not
// deleted, making the edit-vs-delete race a single atomic document update.
func (m *MongoDB) UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	filter := bson.M{"_id": id.String(), "isDeleted": false}
	update := bson.M{"$set": bson.M{
		"content":   content,
		"isEdited":  true,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc CommentDocument
	err := m.Comments.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, m.classifyEditTarget(ctx, id)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to update comment", err)
	}

	return documentToComment(&doc)
}

// MarkCommentDeleted tombstones a comment in place. parentId, rootId and
// the voter sets are untouched.
func (m *MongoDB) MarkCommentDeleted(ctx context.Context, id uuid.UUID, reason string) error {
	update := bson.M{"$set": bson.M{
		"content":      models.TombstoneContent,
		"isDeleted":    true,
		"deleteReason": reason,
		"updatedAt":    time.Now(),
	}}

	res, err := m.Comments.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete comment", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewCommentNotFoundError(id.String())
	}
	return nil
}

func (m *MongoDB) classifyEditTarget(ctx context.Context, commentID uuid.UUID) error {
	comment, err := m.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return utils.NewInvalidOperationError("cannot edit a deleted comment")
	}
	return utils.NewAppError(utils.ErrDatabase, "content update matched no document", nil)
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get comment", err)
	}

	return documentToComment(&doc)
}

// GetThreadComments retrieves all comments attached to one content object,
// oldest first. The fetch is capped at MaxThreadFetch documents.
func (m *MongoDB) GetThreadComments(ctx context.Context, contentType models.ContentType, contentID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(MaxThreadFetch)

	cursor, err := m.Comments.Find(ctx, bson.M{
		"contentType": string(contentType),
		"contentId":   contentID.String(),
	}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get thread comments", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode comment", err)
		}

		comment, err := documentToComment(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

func (m *MongoDB) CountComments(ctx context.Context) (int64, error) {
	count, err := m.Comments.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count comments", err)
	}
	return count, nil
}

// ApplyVote applies a like/dislike toggle directly against the persisted
// voter sets. $addToSet on one set plus $pull from the other happens inside
// a single document update, so mutual exclusivity holds under concurrency.
func (m *MongoDB) ApplyVote(ctx context.Context, commentID, userID uuid.UUID, action models.VoteAction) (*models.VoteCounts, error) {
	voter := userID.String()

	var update bson.M
	switch action {
	case models.ActionLike:
		update = bson.M{
			"$addToSet": bson.M{"likes": voter},
			"$pull":     bson.M{"dislikes": voter},
		}
	case models.ActionUnlike:
		update = bson.M{"$pull": bson.M{"likes": voter}}
	case models.ActionDislike:
		update = bson.M{
			"$addToSet": bson.M{"dislikes": voter},
			"$pull":     bson.M{"likes": voter},
		}
	case models.ActionUndislike:
		update = bson.M{"$pull": bson.M{"dislikes": voter}}
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("unknown vote action %q", action))
	}

	filter := bson.M{"_id": commentID.String(), "isDeleted": false}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc CommentDocument
	err := m.Comments.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, m.classifyVoteTarget(ctx, commentID)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to record vote", err)
	}

	return &models.VoteCounts{Likes: len(doc.Likes), Dislikes: len(doc.Dislikes)}, nil
}

// AddHelpfulVote records a helpful mark. The voter id is added with
// $addToSet under a filter that also asserts the target is a live student
// comment, making the whole check-and-add one atomic document update and
// the operation idempotent per voter.
func (m *MongoDB) AddHelpfulVote(ctx context.Context, commentID, userID uuid.UUID) (*models.HelpfulCount, error) {
	filter := bson.M{
		"_id":        commentID.String(),
		"isDeleted":  false,
		"authorType": string(models.AuthorStudent),
	}
	update := bson.M{"$addToSet": bson.M{"helpfulVoters": userID.String()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc CommentDocument
	err := m.Comments.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, m.classifyHelpfulTarget(ctx, commentID)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to record helpful vote", err)
	}

	return &models.HelpfulCount{HelpfulVotes: len(doc.HelpfulVoters)}, nil
}

// classifyVoteTarget distinguishes a missing comment from a deleted one
// after a vote update matched nothing.
func (m *MongoDB) classifyVoteTarget(ctx context.Context, commentID uuid.UUID) error {
	comment, err := m.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return utils.NewInvalidOperationError("cannot vote on a deleted comment")
	}
	return utils.NewAppError(utils.ErrDatabase, "vote update matched no document", nil)
}

func (m *MongoDB) classifyHelpfulTarget(ctx context.Context, commentID uuid.UUID) error {
	comment, err := m.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return utils.NewInvalidOperationError("cannot mark a deleted comment helpful")
	}
	if comment.AuthorType != models.AuthorStudent {
		return utils.NewInvalidOperationError("helpful votes are reserved for student answers")
	}
	return utils.NewAppError(utils.ErrDatabase, "helpful update matched no document", nil)
}

// GetUserProfile resolves an author id to its directory snapshot.
func (m *MongoDB) GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "user not found: "+id.String(), nil)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get user", err)
	}

	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	return &models.UserProfile{
		ID:          userID,
		DisplayName: doc.DisplayName,
		AvatarURL:   doc.AvatarURL,
	}, nil
}

func commentToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:            comment.ID.String(),
		Content:       comment.Content,
		AuthorID:      comment.AuthorID.String(),
		AuthorType:    string(comment.AuthorType),
		ContentType:   string(comment.ContentType),
		ContentID:     comment.ContentID.String(),
		RootID:        comment.RootID.String(),
		Likes:         uuidsToStrings(comment.Likes),
		Dislikes:      uuidsToStrings(comment.Dislikes),
		HelpfulVoters: uuidsToStrings(comment.HelpfulVoters),
		IsEdited:      comment.IsEdited,
		IsDeleted:     comment.IsDeleted,
		DeleteReason:  comment.DeleteReason,
		CreatedAt:     comment.CreatedAt,
		UpdatedAt:     comment.UpdatedAt,
	}

	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}

	return doc
}

func documentToComment(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	contentID, err := uuid.Parse(doc.ContentID)
	if err != nil {
		return nil, fmt.Errorf("invalid content ID: %v", err)
	}

	rootID, err := uuid.Parse(doc.RootID)
	if err != nil {
		return nil, fmt.Errorf("invalid root ID: %v", err)
	}

	var parentID *uuid.UUID
	if doc.ParentID != nil {
		parsed, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID: %v", err)
		}
		parentID = &parsed
	}

	likes, err := stringsToUUIDs(doc.Likes)
	if err != nil {
		return nil, err
	}
	dislikes, err := stringsToUUIDs(doc.Dislikes)
	if err != nil {
		return nil, err
	}
	helpfulVoters, err := stringsToUUIDs(doc.HelpfulVoters)
	if err != nil {
		return nil, err
	}

	return &models.Comment{
		ID:            id,
		Content:       doc.Content,
		AuthorID:      authorID,
		AuthorType:    models.AuthorType(doc.AuthorType),
		ContentType:   models.ContentType(doc.ContentType),
		ContentID:     contentID,
		ParentID:      parentID,
		RootID:        rootID,
		Likes:         likes,
		Dislikes:      dislikes,
		HelpfulVoters: helpfulVoters,
		HelpfulVotes:  len(helpfulVoters),
		IsEdited:      doc.IsEdited,
		IsDeleted:     doc.IsDeleted,
		DeleteReason:  doc.DeleteReason,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func stringsToUUIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	for i, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid voter ID: %v", err)
		}
		out[i] = id
	}
	return out, nil
}
