package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	keys       bson.D
	opts       *options.IndexOptions
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		// Users
		{"users", bson.D{{Key: "email", Value: 1}}, options.Index().SetUnique(true)},
		{"users", bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}, nil},

		// Teams
		{"teams", bson.D{{Key: "members", Value: 1}}, nil},
		{"teams", bson.D{{Key: "createdBy", Value: 1}}, nil},
		{"teams", bson.D{{Key: "createdAt", Value: -1}}, nil},

		// Tasks
		{"tasks", bson.D{{Key: "teamId", Value: 1}, {Key: "createdAt", Value: -1}}, nil},
		{"tasks", bson.D{{Key: "assignedTo", Value: 1}}, nil},
		{"tasks", bson.D{{Key: "createdBy", Value: 1}}, nil},
		{"tasks", bson.D{{Key: "teamId", Value: 1}, {Key: "status", Value: 1}}, nil},
	}
}

// EnsureIndexes creates every index the repositories rely on. The unique
// email index backs the duplicate-signup check. Creating an index that
// already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range indexSpecs() {
		model := mongo.IndexModel{Keys: spec.keys, Options: spec.opts}

		name, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", spec.collection, err)
		}

		logrus.WithFields(logrus.Fields{
			"collection": spec.collection,
			"index":      name,
		}).Debug("index ensured")
	}
	return nil
}
