package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secret-agents-service/internal/domain/models"
	"secret-agents-service/internal/test/testutil"
)

// memoryCache 进程内缓存，序列化方式与 RedisService 一致
type memoryCache struct {
	data    map[string][]byte
	gets    int
	sets    int
	failGet error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.gets++
	if m.failGet != nil {
		return m.failGet
	}
	raw, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

func levelNames(levels []models.AccessLevel) []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, l.Name)
	}
	return out
}

func TestGetAllAccessLevelsWithoutCache(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccessLevelService(db, nil, 0)

	levels, err := svc.GetAllAccessLevels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Confidential", "Secret", "Top Secret"}, levelNames(levels))
}

func TestGetAllAccessLevelsUsesCache(t *testing.T) {
	db := testutil.NewDB(t)
	cache := newMemoryCache()
	svc := NewAccessLevelService(db, cache, time.Minute)
	ctx := context.Background()

	first, err := svc.GetAllAccessLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.data, AccessLevelsCacheKey)

	// 命中缓存后不再访问数据库
	require.NoError(t, db.Create(&models.AccessLevel{Name: "Cosmic"}).Error)
	second, err := svc.GetAllAccessLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, levelNames(first), levelNames(second))
	assert.Equal(t, 1, cache.sets)

	svc.InvalidateCache(ctx)
	third, err := svc.GetAllAccessLevels(ctx)
	require.NoError(t, err)
	assert.Contains(t, levelNames(third), "Cosmic")
	assert.Equal(t, 2, cache.sets)
}

func TestGetAllAccessLevelsCacheFailureFallsBack(t *testing.T) {
	db := testutil.NewDB(t)
	cache := newMemoryCache()
	cache.failGet = errors.New("redis: connection refused")
	svc := NewAccessLevelService(db, cache, time.Minute)

	levels, err := svc.GetAllAccessLevels(context.Background())

	require.NoError(t, err)
	assert.Len(t, levels, 3)
}

func TestAccessLevelExists(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccessLevelService(db, nil, 0)
	ctx := context.Background()

	exists, err := svc.AccessLevelExists(ctx, testutil.LevelID(t, db, "Top Secret"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.AccessLevelExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
