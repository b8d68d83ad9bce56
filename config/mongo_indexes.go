package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/yoockh/interviewiq/internal/repositories/mongo"
)

// EnsureMongoIndexes creates the indexes the session queries rely on. Safe to rerun.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sessions := db.Collection(mongorepo.InterviewCollection)
	_, err := sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// list-by-owner, newest first
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_owner_created"),
		},
	})
	return err
}
