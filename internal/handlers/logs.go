package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/tracking"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

const maxWorkoutHours = 24

// /log_water <мл>
func LogWaterHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Использование: /log_water <количество мл>\nНапример: /log_water 250")
		}
		amount, ok := utils.ParseNumber(args[0])
		if !ok || amount <= 0 {
			return c.Send("Количество воды должно быть положительным числом мл.")
		}

		ctx, cancel := requestContext()
		defer cancel()

		u, err := d.Tracker.LogWater(ctx, c.Sender().ID, amount)
		if err != nil {
			return sendError(c, log, err)
		}

		r := progress.BuildReport(u)
		return c.Send(fmt.Sprintf("💧 Записано: %s мл воды.\nВыпито: %s из %d мл.\nОсталось: %s мл.",
			utils.FormatAmount(amount), utils.FormatAmount(r.WaterLoggedMl), u.GoalWaterMl, utils.FormatAmount(r.WaterRemainingMl)))
	}
}

// /log_food <продукт>
func LogFoodHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		product := strings.Join(c.Args(), " ")
		if product == "" {
			return c.Send("Использование: /log_food <название продукта>\nНапример: /log_food банан")
		}
		if d.Onboarding.Active(userID) {
			return c.Send("Сначала завершите настройку профиля или отправьте /cancel.")
		}

		ctx, cancel := requestContext()
		defer cancel()

		if _, err := d.Tracker.Profile(ctx, userID); err != nil {
			return sendError(c, log, err)
		}

		r := d.Food.Start(ctx, userID, product)
		return c.Send(r.Text, utils.CancelKeyboard())
	}
}

func foodText(d *Deps, log *zap.Logger, c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	r, err := d.Food.Handle(ctx, c.Sender().ID, c.Text())
	switch {
	case err == nil:
	case errors.Is(err, tracking.ErrNoSession):
		return utils.SendMainMenu(c)
	case r.Text != "":
		log.Error("Ошибка записи еды", zap.Int64("telegram_id", c.Sender().ID), zap.Error(err))
		return c.Send(r.Text)
	default:
		return sendError(c, log, err)
	}

	if r.Step == tracking.StepDone {
		return c.Send(r.Text, utils.MainMenuKeyboard())
	}
	return c.Send(r.Text)
}

// /log_workout <тип> <минуты>
func LogWorkoutHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Использование: /log_workout <тип> <минуты>\nНапример: /log_workout бег 30\n\n" +
				"Типы: " + strings.Join(calc.KnownWorkouts(), ", "))
		}

		minutes, err := strconv.Atoi(args[len(args)-1])
		if err != nil || minutes <= 0 || minutes > maxWorkoutHours*60 {
			return c.Send("Длительность тренировки должна быть целым числом минут, например: /log_workout бег 30")
		}
		workoutType := strings.ToLower(strings.Join(args[:len(args)-1], " "))

		ctx, cancel := requestContext()
		defer cancel()

		res, err := d.Tracker.LogWorkout(ctx, c.Sender().ID, workoutType, minutes)
		if err != nil {
			return sendError(c, log, err)
		}

		msg := fmt.Sprintf("🏃 %s, %d мин: сожжено %d ккал.\nВсего сожжено за день: %s ккал.",
			workoutType, minutes, res.Burned, utils.FormatAmount(res.Profile.CaloriesBurned))
		if res.WaterAdviceMl > 0 {
			msg += fmt.Sprintf("\n💧 Дополнительно выпейте %d мл воды.", res.WaterAdviceMl)
		}
		return c.Send(msg)
	}
}
