package handlers

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

// TextHandler направляет свободный текст в активный диалог: сначала анкета
// профиля, затем запись еды. Без диалога показывается главное меню.
func TextHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		switch {
		case d.Onboarding.Active(userID):
			return onboardingText(d, log, c)
		case d.Food.Active(userID):
			return foodText(d, log, c)
		}
		return utils.SendMainMenu(c)
	}
}
