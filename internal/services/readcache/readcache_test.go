package readcache

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
	"github.com/magabrotheeeer/task-platform/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setupRedis(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	return c, mr
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) GetRaw(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1), args.Error(2)
}

func (m *StoreMock) SetRaw(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *StoreMock) Generation(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	assert.Equal(t, "profile_ru_6ba7b810-9dad-11d1-80b4-00c04fd430c8", DetailKey(Profile, lang.RU, id))
	assert.Equal(t, "tasks_list_en_gen", GenerationKey(Tasks, lang.EN))
	assert.Equal(t, "profiles_list_ru_g3_page_2", ListKey(Profiles, lang.RU, 3, 2, nil))
	assert.Equal(t, "profiles_list_ru_g0_page_1", ListKey(Profiles, lang.RU, 0, 1, models.ProfileFilter{}))

	gte := 2
	filtered := ListKey(AdminUsers, lang.RU, 0, 1, models.UserFilter{ProfilesCount: models.CountFilter{Gte: &gte}})
	assert.Regexp(t, `^admin_users_list_ru_g0_page_1_q[0-9a-f]{16}$`, filtered)

	other := ListKey(AdminUsers, lang.RU, 0, 1, models.UserFilter{Ordering: "-username"})
	assert.NotEqual(t, filtered, other)
}

func TestFetch_SecondReadIsByteIdenticalAndSkipsLoad(t *testing.T) {
	c, _ := setupRedis(t)
	svc := New(c, time.Minute, newNoopLogger())
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return map[string]any{"id": "1", "description_ru": "Бэкенд", "tasks_count": calls}, nil
	}

	id := uuid.New()
	first, err := svc.Detail(ctx, Profile, lang.RU, id, load)
	require.NoError(t, err)
	second, err := svc.Detail(ctx, Profile, lang.RU, id, load)
	require.NoError(t, err)
	en, err := svc.Detail(ctx, Profile, lang.EN, id, load)
	require.NoError(t, err)

	assert.Equal(t, []byte(first), []byte(second))
	assert.NotEqual(t, []byte(first), []byte(en))
	assert.Equal(t, 2, calls)
}

func TestList_GenerationBumpMakesOldPagesUnreachable(t *testing.T) {
	c, _ := setupRedis(t)
	svc := New(c, time.Minute, newNoopLogger())
	ctx := context.Background()

	version := "old"
	load := func(context.Context) (any, error) { return map[string]string{"v": version}, nil }

	got, err := svc.List(ctx, Tasks, lang.EN, 1, nil, load)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"old"}`, string(got))

	version = "new"
	got, err = svc.List(ctx, Tasks, lang.EN, 1, nil, load)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"old"}`, string(got))

	require.NoError(t, c.Bump(ctx, GenerationKey(Tasks, lang.EN)))

	got, err = svc.List(ctx, Tasks, lang.EN, 1, nil, load)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"new"}`, string(got))
}

func TestFetch_ExpiresAfterTTL(t *testing.T) {
	c, mr := setupRedis(t)
	svc := New(c, 0, newNoopLogger())
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (any, error) { calls++; return calls, nil }

	_, err := svc.Fetch(ctx, Task, "task_ru_x", load)
	require.NoError(t, err)
	mr.FastForward(DefaultTTL + time.Second)
	got, err := svc.Fetch(ctx, Task, "task_ru_x", load)
	require.NoError(t, err)

	assert.Equal(t, "2", string(got))
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	store := new(StoreMock)
	store.On("GetRaw", mock.Anything, "task_ru_1").Return(nil, false, nil).Once()
	svc := New(store, time.Minute, newNoopLogger())

	_, err := svc.Fetch(context.Background(), Task, "task_ru_1", func(context.Context) (any, error) {
		return nil, errors.New("not found")
	})

	require.Error(t, err)
	store.AssertNotCalled(t, "SetRaw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestFetch_CacheFailuresDoNotFailRead(t *testing.T) {
	store := new(StoreMock)
	store.On("Generation", mock.Anything, "profiles_list_ru_gen").Return(int64(0), nil).Once()
	store.On("GetRaw", mock.Anything, "profiles_list_ru_g0_page_1").Return(nil, false, errors.New("redis down")).Once()
	store.On("SetRaw", mock.Anything, "profiles_list_ru_g0_page_1", []byte(`[1,2]`), time.Minute).
		Return(errors.New("redis down")).Once()
	svc := New(store, time.Minute, newNoopLogger())

	got, err := svc.List(context.Background(), Profiles, lang.RU, 1, nil, func(context.Context) (any, error) {
		return []int{1, 2}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
	store.AssertExpectations(t)
}

func TestList_GenerationFailureBypassesCache(t *testing.T) {
	store := new(StoreMock)
	store.On("Generation", mock.Anything, "admin_users_list_en_gen").Return(int64(0), errors.New("redis down")).Once()
	svc := New(store, time.Minute, newNoopLogger())

	got, err := svc.List(context.Background(), AdminUsers, lang.EN, 1, nil, func(context.Context) (any, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(got))
	store.AssertNotCalled(t, "GetRaw", mock.Anything, mock.Anything)
}
