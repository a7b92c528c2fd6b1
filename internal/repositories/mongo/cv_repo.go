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

type CVRepository interface {
	Insert(ctx context.Context, cv *models.CV) error
	GetByID(ctx context.Context, id string) (*models.CV, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.CV, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	SetExtractedText(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
}

type cvRepo struct {
	col *mongo.Collection
}

func NewCVRepo(db *mongo.Database) CVRepository {
	return &cvRepo{col: db.Collection("cvs")}
}

func (r *cvRepo) Insert(ctx context.Context, cv *models.CV) error {
	now := time.Now().UTC()
	if cv.UploadedAt.IsZero() {
		cv.UploadedAt = now
	}
	if cv.LastUsed.IsZero() {
		cv.LastUsed = now
	}
	_, err := r.col.InsertOne(ctx, cv)
	return err
}

func (r *cvRepo) GetByID(ctx context.Context, id string) (*models.CV, error) {
	var cv models.CV
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &cv, err
}

func (r *cvRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.CV, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "last_used", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CV
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cvRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		// $max keeps last_used non-decreasing even with clock skew
		bson.M{"$max": bson.M{"last_used": at.UTC()}},
	)
	return err
}

func (r *cvRepo) SetExtractedText(ctx context.Context, id, text string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"extracted_text": text}},
	)
	return err
}

func (r *cvRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
