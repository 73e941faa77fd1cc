package cache_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/cache/mocks"
	"taskboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSessionStore_Fallback(t *testing.T) {
	ctx := context.Background()

	t.Run("stores when cache is empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)
		store := cache.NewSessionStore(mockCache)
		state := cache.SessionState{Role: models.RoleLead, TokenVersion: 1}

		mockCache.EXPECT().Get(ctx, "session:u1", gomock.Any()).Return(false, nil)
		mockCache.EXPECT().Set(ctx, "session:u1", state, time.Minute).Return(nil)

		require.NoError(t, store.Put(ctx, "u1", state, time.Minute))
	})

	t.Run("skips write when cached state is newer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)
		store := cache.NewSessionStore(mockCache)

		mockCache.EXPECT().
			Get(ctx, "session:u1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest interface{}) (bool, error) {
				*dest.(*cache.SessionState) = cache.SessionState{Role: models.RoleMember, TokenVersion: 5}
				return true, nil
			})

		require.NoError(t, store.Put(ctx, "u1", cache.SessionState{Role: models.RoleAdmin, TokenVersion: 4}, time.Minute))
	})

	t.Run("propagates cache errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)
		store := cache.NewSessionStore(mockCache)

		mockCache.EXPECT().Get(ctx, "session:u1", gomock.Any()).Return(false, assert.AnError)

		_, err := store.Get(ctx, "u1")
		assert.ErrorIs(t, err, assert.AnError)
		mockCache.EXPECT().Get(ctx, "session:u1", gomock.Any()).Return(false, assert.AnError)
		assert.ErrorIs(t, store.Put(ctx, "u1", cache.SessionState{}, time.Minute), assert.AnError)
	})
}
