package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Conversation, error)
	// ReplaceMessages swaps the whole message list. The write is guarded by the
	// turn the caller loaded; a mismatch returns utils.ErrConflict.
	ReplaceMessages(ctx context.Context, sessionID string, messages []models.ChatMessage, finished bool, expectedTurn int64) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Conversation, error)
}

type conversationRepo struct {
	col *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) ConversationRepository {
	return &conversationRepo{col: db.Collection("conversations")}
}

func (r *conversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.MaxQuestions == 0 {
		c.MaxQuestions = models.MaxInterviewQuestions
	}
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *conversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *conversationRepo) ReplaceMessages(ctx context.Context, sessionID string, messages []models.ChatMessage, finished bool, expectedTurn int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "turn": expectedTurn},
		bson.M{
			"$set": bson.M{"messages": messages, "finished": finished},
			"$inc": bson.M{"turn": int64(1)},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the session vanished or another turn won the race.
		_, ferr := r.GetBySessionID(ctx, sessionID)
		if ferr != nil {
			return ferr
		}
		return utils.ErrConflict
	}
	return nil
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
