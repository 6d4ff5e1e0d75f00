package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	_ WeatherLookup = (*CachedWeather)(nil)
	_ FoodLookup    = (*CachedFood)(nil)
)

func NewRedisClient(addr, password string, dbIndex int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func cacheKey(kind, query string) string {
	return fmt.Sprintf("lookup:%s:%s", kind, strings.ToLower(strings.TrimSpace(query)))
}

// readThrough отдает значение из кэша или вызывает fetch и кэширует только
// успешные ответы. Ошибки redis не мешают поиску.
func readThrough[T any](ctx context.Context, rdb *redis.Client, ttl time.Duration, log *zap.Logger,
	key string, ok func(T) bool, fetch func() T) T {
	val, err := rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if err := json.Unmarshal(val, &cached); err == nil {
			return cached
		}
		log.Warn("Поврежденная запись в кэше", zap.String("key", key))
		rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("Ошибка чтения из redis", zap.String("key", key), zap.Error(err))
	}

	res := fetch()
	if !ok(res) {
		return res
	}
	if data, err := json.Marshal(res); err == nil {
		if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Warn("Ошибка записи в redis", zap.String("key", key), zap.Error(err))
		}
	}
	return res
}

type CachedWeather struct {
	next  WeatherLookup
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedWeather(next WeatherLookup, cache *redis.Client, ttl time.Duration, log *zap.Logger) *CachedWeather {
	return &CachedWeather{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *CachedWeather) Lookup(ctx context.Context, city string) WeatherResult {
	return readThrough(ctx, c.cache, c.ttl, c.log, cacheKey("weather", city),
		func(r WeatherResult) bool { return r.Success },
		func() WeatherResult { return c.next.Lookup(ctx, city) })
}

type CachedFood struct {
	next  FoodLookup
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedFood(next FoodLookup, cache *redis.Client, ttl time.Duration, log *zap.Logger) *CachedFood {
	return &CachedFood{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *CachedFood) Lookup(ctx context.Context, product string) FoodResult {
	return readThrough(ctx, c.cache, c.ttl, c.log, cacheKey("food", product),
		func(r FoodResult) bool { return r.Success },
		func() FoodResult { return c.next.Lookup(ctx, product) })
}
