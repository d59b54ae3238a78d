package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every collection relies on. Safe to
// run repeatedly; Mongo treats identical index specs as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ensureUserIndexes(ctx, db); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := ensureActivityIndexes(ctx, db); err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	if err := ensureGroupIndexes(ctx, db); err != nil {
		return fmt.Errorf("group indexes: %w", err)
	}

	logrus.Info("📇 Database indexes ensured")
	return nil
}

func ensureUserIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "socialData.friends.userId", Value: 1}},
		},
		{
			// leaderboard sort
			Keys: bson.D{{Key: "streakData.currentStreak", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "streakData.totalActivitiesCompleted", Value: -1}},
		},
	}

	_, err := db.Collection("users").Indexes().CreateMany(ctx, indexes)
	return err
}

func ensureActivityIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "completionData.completedAt", Value: -1}},
		},
		{
			// shared feed and trending scans
			Keys: bson.D{
				{Key: "socialData.isShared", Value: 1},
				{Key: "isActive", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, err := db.Collection("activities").Indexes().CreateMany(ctx, indexes)
	return err
}

func ensureGroupIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "members.userId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "privacy", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "challenges.id", Value: 1}},
		},
	}

	_, err := db.Collection("groups").Indexes().CreateMany(ctx, indexes)
	return err
}
