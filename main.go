package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/bot"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/db"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/handlers"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/logger"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/onboarding"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/scheduler"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/services"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/tracking"
)

type store interface {
	progress.Store
	onboarding.ProfileStore
}

func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}

	log := logger.L()
	defer log.Sync()
	log.Info("Инициализация логгера успешна")
	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Хранилище недоступно", zap.Error(err))
	}
	defer closeStore()

	weather, food, closeCache := lookups(cfg, log)
	defer closeCache()

	calculator := calc.New(cfg.Goals)
	tracker := progress.NewTracker(st, calculator, log)
	deps := &handlers.Deps{
		Tracker:    tracker,
		Onboarding: onboarding.NewFlow(calculator, weather, st, log),
		Food:       tracking.NewFoodDialogue(food, tracker, log),
	}

	reset, err := scheduler.New(tracker, cfg.Schedule.ResetSpec, cfg.Schedule.Location, log)
	if err != nil {
		log.Fatal("Некорректное расписание сброса", zap.String("spec", cfg.Schedule.ResetSpec), zap.Error(err))
	}
	reset.Start(ctx)

	b, err := bot.New(cfg, deps, log)
	if err != nil {
		log.Fatal("Не удалось запустить бота", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		log.Info("Получен сигнал остановки")
		b.Stop()
	}()

	b.Start()
	reset.Stop()
}

func openStore(cfg *config.Config, log *zap.Logger) (store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("Используется хранилище в памяти, данные не переживут перезапуск")
		return db.NewMemoryRepository(), func() {}, nil
	}

	conn, err := db.ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(conn, log); err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db.NewRepository(conn), closeFn, nil
}

// lookups собирает клиенты погоды и продуктов. При заданном REDIS_ADDR
// успешные ответы кэшируются; недоступный redis не мешает запуску.
func lookups(cfg *config.Config, log *zap.Logger) (services.WeatherLookup, services.FoodLookup, func()) {
	var weather services.WeatherLookup = services.NewWeatherClient(cfg.Weather.URL, cfg.Weather.APIKey, cfg.Weather.Timeout)
	var food services.FoodLookup = services.NewFoodClient(cfg.Food.URL, cfg.Food.Timeout)

	if cfg.Redis.Addr == "" {
		return weather, food, func() {}
	}

	rdb, err := services.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("Redis недоступен, кэш отключен", zap.Error(err))
		return weather, food, func() {}
	}
	log.Info("Кэш поиска включен", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))

	return services.NewCachedWeather(weather, rdb, cfg.Redis.TTL, log),
		services.NewCachedFood(food, rdb, cfg.Redis.TTL, log),
		func() { rdb.Close() }
}
