package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const InterviewCollection = "interview_sessions"

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) repositories.InterviewRepository {
	return &interviewRepo{col: db.Collection(InterviewCollection)}
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *interviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.InterviewSession, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.InterviewSession{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interviewRepo) Update(ctx context.Context, id string, patch models.SessionPatch) (*models.InterviewSession, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Difficulty != nil {
		set["difficulty"] = *patch.Difficulty
	}
	if patch.Question != nil {
		set["question"] = *patch.Question
	}
	if patch.UserAnswer != nil {
		set["user_answer"] = *patch.UserAnswer
	}
	if patch.AudioURL != nil {
		set["audio_url"] = *patch.AudioURL
	}

	update := bson.M{"$set": set}
	switch {
	case patch.Feedback != nil:
		set["feedback"] = patch.Feedback
	case patch.ClearFeedback:
		update["$unset"] = bson.M{"feedback": ""}
	}

	var s models.InterviewSession
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *interviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
