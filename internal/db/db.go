package db

import (
	"fmt"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error("Не удалось подключиться к базе данных", zap.Error(err))
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	log.Info("Подключение к базе данных установлено", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.Name))
	return conn, nil
}
