package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "lookup:weather:москва", cacheKey("weather", "  Москва "))
	assert.Equal(t, cacheKey("food", "Банан"), cacheKey("food", "банан"))
}

func TestCachedLookups_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 1)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	t.Run("successful weather is cached", func(t *testing.T) {
		backend := &countingWeather{res: WeatherResult{City: "Sochi", Temperature: 28, Success: true}}
		cached := NewCachedWeather(backend, rdb, time.Minute, zap.NewNop())

		first := cached.Lookup(ctx, "Сочи")
		second := cached.Lookup(ctx, "сочи")

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), backend.calls.Load())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		backend := &countingWeather{res: WeatherResult{City: "Тмутаракань", Error: "API error: 404"}}
		cached := NewCachedWeather(backend, rdb, time.Minute, zap.NewNop())

		cached.Lookup(ctx, "Тмутаракань")
		cached.Lookup(ctx, "Тмутаракань")

		assert.Equal(t, int32(2), backend.calls.Load())
	})

	t.Run("food results round trip", func(t *testing.T) {
		calls := 0
		backend := foodFunc(func(ctx context.Context, product string) FoodResult {
			calls++
			return FoodResult{Name: "Рис", CaloriesPer100g: 130, Success: true}
		})
		cached := NewCachedFood(backend, rdb, time.Minute, zap.NewNop())

		cached.Lookup(ctx, "рис")
		res := cached.Lookup(ctx, "рис")

		assert.Equal(t, 1, calls)
		assert.Equal(t, 130.0, res.CaloriesPer100g)
	})
}

type foodFunc func(ctx context.Context, product string) FoodResult

func (f foodFunc) Lookup(ctx context.Context, product string) FoodResult {
	return f(ctx, product)
}
