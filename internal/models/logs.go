package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WaterLog, FoodLog и WorkoutLog — неизменяемые записи журнала.
// Сумма записей с ResetEpoch пользователя равна соответствующему накоплению в User.

// LedgerEntry — запись, которую хранилище помечает номером дня.
type LedgerEntry interface {
	StampEpoch(epoch int64)
}

type WaterLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"index"`
	TelegramID int64     `gorm:"index;not null"`
	ResetEpoch int64     `gorm:"index;not null;default:0"`
	AmountMl   float64   `gorm:"not null"`
}

func (l *WaterLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}

func (l *WaterLog) StampEpoch(epoch int64) { l.ResetEpoch = epoch }

type FoodLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time `gorm:"index"`
	TelegramID      int64     `gorm:"index;not null"`
	ResetEpoch      int64     `gorm:"index;not null;default:0"`
	FoodName        string    `gorm:"not null"`
	CaloriesPer100g float64   `gorm:"not null"`
	Grams           float64   `gorm:"not null"`
	Calories        float64   `gorm:"not null"`
	Details         datatypes.JSON // источник данных: {"source":"openfoodfacts","brand":"..."}
}

func (l *FoodLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}

func (l *FoodLog) StampEpoch(epoch int64) { l.ResetEpoch = epoch }

type WorkoutLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time `gorm:"index"`
	TelegramID      int64     `gorm:"index;not null"`
	ResetEpoch      int64     `gorm:"index;not null;default:0"`
	WorkoutType     string    `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	CaloriesBurned  float64   `gorm:"not null"`
}

func (l *WorkoutLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}

func (l *WorkoutLog) StampEpoch(epoch int64) { l.ResetEpoch = epoch }
