package invalidator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/cache"
	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *StoreMock) Bump(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func setup(t *testing.T) (*Invalidator, *readcache.Service) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	return New(c, newNoopLogger()), readcache.New(c, time.Minute, newNoopLogger())
}

func counter(v *int) readcache.Loader {
	return func(context.Context) (any, error) {
		*v++
		return *v, nil
	}
}

func TestProfile_DropsDetailAndListsInBothLanguages(t *testing.T) {
	inv, rc := setup(t)
	ctx := context.Background()
	id := uuid.New()

	var loads int
	for _, l := range lang.All() {
		_, err := rc.Detail(ctx, readcache.Profile, l, id, counter(&loads))
		require.NoError(t, err)
		_, err = rc.List(ctx, readcache.Profiles, l, 1, nil, counter(&loads))
		require.NoError(t, err)
		_, err = rc.List(ctx, readcache.AdminProfiles, l, 1, nil, counter(&loads))
		require.NoError(t, err)
	}
	require.Equal(t, 6, loads)

	inv.Profile(ctx, id)

	for _, l := range lang.All() {
		_, err := rc.Detail(ctx, readcache.Profile, l, id, counter(&loads))
		require.NoError(t, err)
		_, err = rc.List(ctx, readcache.Profiles, l, 1, nil, counter(&loads))
		require.NoError(t, err)
		_, err = rc.List(ctx, readcache.AdminProfiles, l, 1, nil, counter(&loads))
		require.NoError(t, err)
	}
	assert.Equal(t, 12, loads)
}

func TestTask_AlsoDropsOwningProfile(t *testing.T) {
	inv, rc := setup(t)
	ctx := context.Background()
	taskID, profileID := uuid.New(), uuid.New()

	var loads int
	_, err := rc.Detail(ctx, readcache.Task, lang.RU, taskID, counter(&loads))
	require.NoError(t, err)
	_, err = rc.Detail(ctx, readcache.Profile, lang.EN, profileID, counter(&loads))
	require.NoError(t, err)
	_, err = rc.List(ctx, readcache.Tasks, lang.EN, 2, nil, counter(&loads))
	require.NoError(t, err)
	require.Equal(t, 3, loads)

	inv.Task(ctx, taskID, profileID)

	_, err = rc.Detail(ctx, readcache.Task, lang.RU, taskID, counter(&loads))
	require.NoError(t, err)
	_, err = rc.Detail(ctx, readcache.Profile, lang.EN, profileID, counter(&loads))
	require.NoError(t, err)
	_, err = rc.List(ctx, readcache.Tasks, lang.EN, 2, nil, counter(&loads))
	require.NoError(t, err)
	assert.Equal(t, 6, loads)
}

func TestUsers_LeavesOtherKindsCached(t *testing.T) {
	inv, rc := setup(t)
	ctx := context.Background()

	var loads int
	_, err := rc.List(ctx, readcache.AdminUsers, lang.RU, 1, nil, counter(&loads))
	require.NoError(t, err)
	_, err = rc.List(ctx, readcache.Profiles, lang.RU, 1, nil, counter(&loads))
	require.NoError(t, err)

	inv.Users(ctx)

	_, err = rc.List(ctx, readcache.AdminUsers, lang.RU, 1, nil, counter(&loads))
	require.NoError(t, err)
	_, err = rc.List(ctx, readcache.Profiles, lang.RU, 1, nil, counter(&loads))
	require.NoError(t, err)
	assert.Equal(t, 3, loads)
}

func TestInvalidate_StoreErrorsAreSwallowed(t *testing.T) {
	store := new(StoreMock)
	id := uuid.New()
	store.On("Delete", mock.Anything, []string{
		"profile_ru_" + id.String(), "profile_en_" + id.String(),
	}).Return(errors.New("redis down")).Once()
	store.On("Bump", mock.Anything, []string{
		"profiles_list_ru_gen", "profiles_list_en_gen", "admin_profiles_list_ru_gen", "admin_profiles_list_en_gen",
	}).Return(errors.New("redis down")).Once()

	assert.NotPanics(t, func() { New(store, newNoopLogger()).Profile(context.Background(), id) })
	store.AssertExpectations(t)
}
