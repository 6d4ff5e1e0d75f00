// Package calc считает дневные нормы калорий и воды по параметрам тела,
// активности и погоде. Функции чистые, диапазоны проверяет вызывающий код.
package calc

import (
	"math"
	"sort"
	"strings"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
)

// metValues — метаболический эквивалент по типу тренировки.
var metValues = map[string]float64{
	"бег":       8.0,
	"ходьба":    3.5,
	"велосипед": 7.5,
	"плавание":  6.0,
	"силовая":   5.0,
	"йога":      3.0,
	"кардио":    7.0,
	"танцы":     5.5,
	"футбол":    7.0,
	"баскетбол": 6.5,
}

type Calculator struct {
	goals config.Goals
}

func New(goals config.Goals) *Calculator {
	return &Calculator{goals: goals}
}

// BMR — базовый обмен по формуле Миффлина-Сан Жеора.
func (c *Calculator) BMR(weightKg, heightCm float64, ageYears int, gender string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == models.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// CalorieGoal умножает BMR на коэффициент активности, линейно растущий
// с минутами активности, и поправку на цель.
func (c *Calculator) CalorieGoal(bmr float64, activityMinutes int, goal string) int {
	factor := c.goals.BaseActivityFactor + (float64(activityMinutes)/60)*c.goals.ActivityFactorPerHour
	daily := bmr * factor

	switch goal {
	case models.GoalLose:
		daily *= c.goals.LoseMultiplier
	case models.GoalGain:
		daily *= c.goals.GainMultiplier
	}
	return int(math.Round(daily))
}

// WaterGoal — дневная норма воды в мл. Учитываются только полные 30 минут
// активности, надбавка за жару при температуре строго выше порога.
func (c *Calculator) WaterGoal(weightKg float64, activityMinutes int, temperatureC float64) int {
	base := weightKg * c.goals.WaterPerKg
	activity := float64(activityMinutes/30) * c.goals.WaterPer30Min

	weather := 0.0
	if temperatureC > c.goals.HotTemperature {
		weather = c.goals.HotWeatherWater
	}
	return int(math.Round(base + activity + weather))
}

// FallbackTemperature используется, если погоду узнать не удалось.
func (c *Calculator) FallbackTemperature() float64 {
	return c.goals.FallbackTemperature
}

// MET для неизвестных типов тренировки берётся из конфига.
func (c *Calculator) MET(workoutType string) float64 {
	if met, ok := metValues[strings.ToLower(strings.TrimSpace(workoutType))]; ok {
		return met
	}
	return c.goals.DefaultMET
}

func (c *Calculator) WorkoutBurn(workoutType string, durationMinutes int, weightKg float64) int {
	burned := c.MET(workoutType) * weightKg * (float64(durationMinutes) / 60)
	return int(math.Round(burned))
}

// WorkoutHydration — сколько мл воды выпить после тренировки.
func (c *Calculator) WorkoutHydration(durationMinutes int) int {
	return int(float64(durationMinutes/30) * c.goals.WorkoutWaterPer30Min)
}

// KnownWorkouts — типы тренировок со своим MET.
func KnownWorkouts() []string {
	types := make([]string, 0, len(metValues))
	for t := range metValues {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
