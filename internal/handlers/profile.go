package handlers

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/onboarding"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

var (
	genderNames = map[string]string{
		models.GenderMale:   "мужской",
		models.GenderFemale: "женский",
	}
	goalNames = map[string]string{
		models.GoalLose:     "похудеть",
		models.GoalMaintain: "поддерживать вес",
		models.GoalGain:     "набрать вес",
	}
)

func profileText(u *models.User) string {
	msg := fmt.Sprintf("📋 Ваш профиль:\n"+
		"• Вес: %s кг\n"+
		"• Рост: %s см\n"+
		"• Возраст: %d лет\n"+
		"• Пол: %s\n"+
		"• Активность: %d мин/день\n"+
		"• Город: %s\n"+
		"• Цель: %s\n"+
		"• Цель по калориям: %d ккал\n"+
		"• Цель по воде: %d мл",
		utils.FormatAmount(u.WeightKg), utils.FormatAmount(u.HeightCm), u.AgeYears,
		genderNames[u.Gender], u.ActivityMinutes, u.City, goalNames[u.GoalType],
		u.GoalCalories, u.GoalWaterMl)
	if u.LastResetAt != nil {
		msg += "\n\nДень начат: " + utils.FormatDateRu(*u.LastResetAt)
	}
	return msg
}

// keyboardFor подбирает клавиатуру под текущий шаг анкеты.
func keyboardFor(step onboarding.Step) *tele.ReplyMarkup {
	switch step {
	case onboarding.StepGender:
		return utils.OptionsKeyboard("м", "ж")
	case onboarding.StepGoal:
		return utils.OptionsKeyboard("похудеть", "поддерживать", "набрать")
	case onboarding.StepConfirm:
		return utils.OptionsKeyboard("да", "нет")
	case onboarding.StepDone:
		return utils.MainMenuKeyboard()
	}
	return utils.CancelKeyboard()
}

func SetProfileHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	log.Info("SetProfileHandler initialized")
	return func(c tele.Context) error {
		userID := c.Sender().ID
		d.Food.Cancel(userID)

		r := d.Onboarding.Start(userID, c.Sender().FirstName)
		return c.Send(r.Text, keyboardFor(r.Step))
	}
}

func onboardingText(d *Deps, log *zap.Logger, c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	r, err := d.Onboarding.Handle(ctx, c.Sender().ID, c.Text())
	if err != nil {
		log.Error("Ошибка при вводе профиля", zap.Int64("telegram_id", c.Sender().ID), zap.Error(err))
		if r.Text == "" {
			return utils.SendMainMenu(c)
		}
	}
	return c.Send(r.Text, keyboardFor(r.Step))
}

func ProfileHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		ctx, cancel := requestContext()
		defer cancel()

		u, err := d.Tracker.Profile(ctx, c.Sender().ID)
		if err != nil {
			return sendError(c, log, err)
		}
		return c.Send(profileText(u))
	}
}

// CancelHandler прерывает любой начатый пошаговый ввод.
func CancelHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		onboardingCancelled := d.Onboarding.Cancel(userID)
		foodCancelled := d.Food.Cancel(userID)

		if !onboardingCancelled && !foodCancelled {
			return c.Send("Нечего отменять.", utils.MainMenuKeyboard())
		}
		log.Info("Ввод отменен", zap.Int64("telegram_id", userID))
		return c.Send("❌ Ввод отменен.", utils.MainMenuKeyboard())
	}
}
