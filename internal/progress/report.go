package progress

import (
	"math"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
)

const (
	RecommendDrinkMore = "Выпейте больше воды! Еще не поздно достичь цели."
	RecommendExcess    = "Вы превысили дневную норму калорий."
	RecommendDeficit   = "Не забудьте поесть! У вас большой дефицит калорий."
)

type Report struct {
	WaterLoggedMl      float64
	GoalWaterMl        float64
	WaterRemainingMl   float64
	WaterProgressPct   float64
	CaloriesLogged     float64
	CaloriesBurned     float64
	CalorieBalance     float64
	GoalCalories       float64
	RemainingCalories  float64
	CalorieProgressPct float64
	Recommendations    []string
}

// BuildReport считает прогресс по накоплениям. Проценты ограничены [0,100]
// и равны нулю, если цель не положительна.
func BuildReport(u *models.User) Report {
	goalWater := float64(u.GoalWaterMl)
	goalCalories := float64(u.GoalCalories)
	balance := u.CaloriesLogged - u.CaloriesBurned

	r := Report{
		WaterLoggedMl:      u.WaterLoggedMl,
		GoalWaterMl:        goalWater,
		WaterRemainingMl:   math.Max(0, goalWater-u.WaterLoggedMl),
		WaterProgressPct:   percent(u.WaterLoggedMl, goalWater),
		CaloriesLogged:     u.CaloriesLogged,
		CaloriesBurned:     u.CaloriesBurned,
		CalorieBalance:     balance,
		GoalCalories:       goalCalories,
		RemainingCalories:  math.Max(0, goalCalories-balance),
		CalorieProgressPct: percent(balance, goalCalories),
	}

	if u.WaterLoggedMl < 0.5*goalWater {
		r.Recommendations = append(r.Recommendations, RecommendDrinkMore)
	}
	if balance > 1.1*goalCalories {
		r.Recommendations = append(r.Recommendations, RecommendExcess)
	} else if balance < 0.7*goalCalories {
		r.Recommendations = append(r.Recommendations, RecommendDeficit)
	}
	return r
}

func percent(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, value/goal*100))
}
