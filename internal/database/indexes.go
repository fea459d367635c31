package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReportsCollection  = "userReports"
	ProfilesCollection = "users"
)

// EnsureIndexes creates the indexes the report and profile collections rely
// on. Pass it to NewMongo so it runs once per connection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ProfilesCollection: {
			{
				Keys:    bson.D{{Key: "uid", Value: 1}},
				Options: options.Index().SetName("uid_unique").SetUnique(true),
			},
		},
		ReportsCollection: {
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "deletedAt", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_deleted_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "reporterId", Value: 1}},
				Options: options.Index().SetName("idx_reporter"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
