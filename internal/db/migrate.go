package db

import (
	"fmt"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(conn *gorm.DB, log *zap.Logger) error {
	if err := conn.AutoMigrate(&models.User{}, &models.WaterLog{}, &models.FoodLog{}, &models.WorkoutLog{}); err != nil {
		log.Error("Ошибка при миграции таблиц", zap.Error(err))
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("Автомиграция таблиц завершена успешно")
	return nil
}
