package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
)

// User — профиль пользователя вместе с дневными накоплениями.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TelegramID      int64 `gorm:"uniqueIndex;not null"` // Telegram user ID
	Name            string
	WeightKg        float64 `gorm:"not null"`
	HeightCm        float64 `gorm:"not null"`
	AgeYears        int     `gorm:"not null"`
	Gender          string  `gorm:"size:16;not null;default:male"`
	ActivityMinutes int     `gorm:"not null;default:0"`
	City            string
	GoalType        string `gorm:"size:16;not null;default:maintain"`
	GoalCalories    int    `gorm:"not null"`
	GoalWaterMl     int    `gorm:"not null"`

	// Дневные накопления, обнуляются в полночь
	WaterLoggedMl  float64 `gorm:"not null;default:0"`
	CaloriesLogged float64 `gorm:"not null;default:0"`
	CaloriesBurned float64 `gorm:"not null;default:0"`
	LastResetAt    *time.Time
	// Номер текущего дня: растёт при каждом обнулении накоплений.
	// Записи журнала получают его в той же транзакции, что и накопление.
	ResetEpoch int64 `gorm:"not null;default:0"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// ResetTotals обнуляет дневные накопления, не трогая цели.
func (u *User) ResetTotals(at time.Time) {
	u.WaterLoggedMl = 0
	u.CaloriesLogged = 0
	u.CaloriesBurned = 0
	u.LastResetAt = &at
}
