package handlers

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

func StartHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	log.Info("StartHandler initialized")
	return func(c tele.Context) error {
		name := c.Sender().FirstName
		menu := utils.MainMenuKeyboard()

		ctx, cancel := requestContext()
		defer cancel()

		_, err := d.Tracker.Profile(ctx, c.Sender().ID)
		if errors.Is(err, progress.ErrProfileNotFound) {
			msg := fmt.Sprintf(
				`👋 Привет, %s!

🏋️‍♂️ Я помогу вам отслеживать:
• Норму воды и калорий
• Питание и тренировки
• Прогресс по целям

Чтобы начать, настройте профиль:
/set_profile

Все команды: /help`, name)
			return c.Send(msg, menu)
		}
		if err != nil {
			return sendError(c, log, err)
		}

		msg := fmt.Sprintf("👋 Привет снова, %s!\nПродолжаем следить за водой и калориями 💪", name)
		return c.Send(msg, menu)
	}
}
