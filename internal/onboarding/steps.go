package onboarding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

const (
	MinCalorieGoal = 500
	MaxCalorieGoal = 5000
)

const (
	promptStart    = "Давайте настроим ваш профиль!\nВведите ваш вес (в кг):"
	promptHeight   = "Введите ваш рост (в см):"
	promptAge      = "Введите ваш возраст:"
	promptGender   = "Введите ваш пол (male/female или м/ж):"
	promptActivity = "Сколько минут активности у вас в день (в среднем)?"
	promptCity     = "В каком городе вы находитесь?"
	promptGoal     = "Какая у вас цель? (lose/maintain/gain или похудеть/поддерживать/набрать)"

	badWeight   = "Пожалуйста, введите корректный вес (до 300 кг), например: 75"
	badHeight   = "Пожалуйста, введите корректный рост (до 250 см), например: 180"
	badAge      = "Пожалуйста, введите целое число лет от 1 до 120:"
	badGender   = "Пожалуйста, введите 'male' или 'female' (или 'м'/'ж'):"
	badActivity = "Пожалуйста, введите целое количество минут (0-600):"
	badCity     = "Название города не может быть пустым. В каком городе вы находитесь?"
	badGoal     = "Пожалуйста, введите: lose, maintain или gain:"
	badConfirm  = "Ответьте «да», «нет» или введите свою цель числом (500-5000 ккал):"

	cancelled  = "❌ Настройка профиля отменена. Данные не сохранены."
	saveFailed = "⚠️ Не удалось сохранить профиль, попробуйте ответить еще раз."
)

var (
	yesTokens = map[string]bool{"да": true, "д": true, "yes": true, "y": true, "ок": true, "ok": true, "+": true}
	noTokens  = map[string]bool{"нет": true, "н": true, "no": true, "n": true, "-": true}
)

func parseInt(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	return v, err == nil
}

func (f *Flow) weight(p *Pending, text string) Reply {
	w, ok := utils.ParseNumber(text)
	if !ok || w <= 0 || w > 300 {
		return Reply{Text: badWeight, Step: p.Step}
	}
	p.WeightKg = w
	p.Step = StepHeight
	return Reply{Text: promptHeight, Step: p.Step}
}

func (f *Flow) height(p *Pending, text string) Reply {
	h, ok := utils.ParseNumber(text)
	if !ok || h <= 0 || h > 250 {
		return Reply{Text: badHeight, Step: p.Step}
	}
	p.HeightCm = h
	p.Step = StepAge
	return Reply{Text: promptAge, Step: p.Step}
}

func (f *Flow) age(p *Pending, text string) Reply {
	a, ok := parseInt(text)
	if !ok || a <= 0 || a > 120 {
		return Reply{Text: badAge, Step: p.Step}
	}
	p.AgeYears = a
	p.Step = StepGender
	return Reply{Text: promptGender, Step: p.Step}
}

func (f *Flow) gender(p *Pending, text string) Reply {
	g, ok := calc.ParseGender(text)
	if !ok {
		return Reply{Text: badGender, Step: p.Step}
	}
	p.Gender = g
	p.Step = StepActivity
	return Reply{Text: promptActivity, Step: p.Step}
}

func (f *Flow) activity(p *Pending, text string) Reply {
	m, ok := parseInt(text)
	if !ok || m < 0 || m > 600 {
		return Reply{Text: badActivity, Step: p.Step}
	}
	p.ActivityMinutes = m
	p.Step = StepCity
	return Reply{Text: promptCity, Step: p.Step}
}

// city не падает из-за погоды: при ошибке берётся температура из конфига.
func (f *Flow) city(ctx context.Context, userID int64, p *Pending, text string) Reply {
	city := strings.TrimSpace(text)
	if city == "" {
		return Reply{Text: badCity, Step: p.Step}
	}

	var notice string
	res := f.weather.Lookup(ctx, city)
	if res.Success {
		p.TemperatureC = res.Temperature
		notice = fmt.Sprintf("🌤️ Погода в %s: %s, %.1f°C", city, res.Description, res.Temperature)
	} else {
		p.TemperatureC = f.calc.FallbackTemperature()
		notice = fmt.Sprintf("⚠️ Не удалось получить погоду для %s. Используем температуру %.0f°C.", city, p.TemperatureC)
		f.log.Warn("Погода недоступна",
			zap.Int64("telegram_id", userID),
			zap.String("city", city),
			zap.String("error", res.Error),
		)
	}

	p.City = city
	p.Step = StepGoal
	return Reply{Text: notice + "\n\n" + promptGoal, Step: p.Step}
}

func (f *Flow) goal(p *Pending, text string) Reply {
	g, ok := calc.ParseGoal(text)
	if !ok {
		return Reply{Text: badGoal, Step: p.Step}
	}
	p.GoalType = g

	bmr := f.calc.BMR(p.WeightKg, p.HeightCm, p.AgeYears, p.Gender)
	p.RecommendedCalories = f.calc.CalorieGoal(bmr, p.ActivityMinutes, g)
	p.Step = StepConfirm

	msg := fmt.Sprintf(
		"🔥 Базовый обмен: %.0f ккал\n🎯 Рекомендуемая цель: %d ккал в день\n\n"+
			"Подтвердить? Ответьте «да», «нет» для отмены или введите свою цель (%d-%d ккал).",
		bmr, p.RecommendedCalories, MinCalorieGoal, MaxCalorieGoal)
	return Reply{Text: msg, Step: p.Step}
}

func (f *Flow) confirm(ctx context.Context, userID int64, s *session, text string) (Reply, error) {
	p := &s.p
	token := strings.ToLower(strings.TrimSpace(text))

	var calories int
	switch {
	case yesTokens[token]:
		calories = p.RecommendedCalories
	case noTokens[token]:
		p.Step = StepDone
		f.removeSession(userID, s)
		f.log.Info("Профиль отклонен пользователем", zap.Int64("telegram_id", userID))
		return Reply{Text: cancelled, Step: StepDone}, nil
	default:
		v, ok := parseInt(token)
		if !ok || v < MinCalorieGoal || v > MaxCalorieGoal {
			return Reply{Text: badConfirm, Step: p.Step}, nil
		}
		calories = v
	}

	u := &models.User{
		TelegramID:      userID,
		Name:            p.Name,
		WeightKg:        p.WeightKg,
		HeightCm:        p.HeightCm,
		AgeYears:        p.AgeYears,
		Gender:          p.Gender,
		ActivityMinutes: p.ActivityMinutes,
		City:            p.City,
		GoalType:        p.GoalType,
		GoalCalories:    calories,
		GoalWaterMl:     f.calc.WaterGoal(p.WeightKg, p.ActivityMinutes, p.TemperatureC),
	}
	u.ResetTotals(f.now())

	if err := f.store.UpsertProfile(ctx, u); err != nil {
		return Reply{Text: saveFailed, Step: p.Step}, fmt.Errorf("save profile %d: %w", userID, err)
	}

	p.Step = StepDone
	f.removeSession(userID, s)
	f.log.Info("Профиль сохранен",
		zap.Int64("telegram_id", userID),
		zap.Int("goal_calories", u.GoalCalories),
		zap.Int("goal_water_ml", u.GoalWaterMl),
	)
	return Reply{Text: savedText(u), Step: StepDone, Profile: u}, nil
}

func savedText(u *models.User) string {
	return fmt.Sprintf("✅ Профиль успешно сохранен!\n\n"+
		"🎯 Ваши дневные цели:\n"+
		"• Калории: %d ккал\n"+
		"• Вода: %d мл\n\n"+
		"Используйте команды:\n"+
		"/log_water <количество> - записать воду\n"+
		"/log_food <продукт> - записать еду\n"+
		"/log_workout <тип> <минуты> - записать тренировку\n"+
		"/check_progress - проверить прогресс",
		u.GoalCalories, u.GoalWaterMl)
}
