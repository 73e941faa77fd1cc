package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskboard/internal/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoFixture is a throwaway MongoDB database with the production indexes.
type mongoFixture struct {
	db *mongo.Database
}

// startMongo boots a mongo:7.0 container for the calling test. Everything
// it creates is torn down through t.Cleanup.
func startMongo(t *testing.T) *mongoFixture {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7.0")
	require.NoError(t, err, "start mongodb container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "connect to mongodb")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database(fmt.Sprintf("taskboard_%d", time.Now().UnixNano()))
	require.NoError(t, database.EnsureIndexes(ctx, db), "ensure indexes")

	return &mongoFixture{db: db}
}

// reset empties the named collections but keeps their indexes.
func (f *mongoFixture) reset(t *testing.T, collections ...string) {
	t.Helper()

	for _, name := range collections {
		_, err := f.db.Collection(name).DeleteMany(context.Background(), bson.D{})
		require.NoError(t, err, "reset %s", name)
	}
}
