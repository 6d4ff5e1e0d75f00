package handlers

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

func helpText() string {
	return utils.MainMenuText + "\n\n" +
		"Примеры:\n" +
		"/log_water 250\n" +
		"/log_food банан\n" +
		"/log_workout бег 30\n\n" +
		"Типы тренировок: " + strings.Join(calc.KnownWorkouts(), ", ") +
		". Для остальных используется средний расход."
}

func HelpHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		return c.Send(helpText(), utils.MainMenuKeyboard())
	}
}
