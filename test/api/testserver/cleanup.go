//go:build api

package testserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// CleanupBetweenTests wipes MongoDB and Redis. Call it at the start of each
// top-level test.
func (ts *TestServer) CleanupBetweenTests(t *testing.T) {
	t.Helper()

	require.NoError(t, ts.Stores.Reset(context.Background()), "failed to reset stores")
}

// CleanupRedis clears only Redis, forcing the next request of every user
// to rebuild its session from MongoDB.
func (ts *TestServer) CleanupRedis(t *testing.T) {
	t.Helper()

	require.NoError(t, ts.Stores.FlushRedis(context.Background()), "failed to flush Redis")
}
