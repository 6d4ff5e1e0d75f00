package handlers

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/onboarding"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/tracking"
)

const (
	msgNoProfile = "Профиль не найден. Используйте /set_profile"
	msgFailure   = "Произошла ошибка, попробуйте позже 🙁"
)

const requestTimeout = 30 * time.Second

// Deps — зависимости, общие для всех хендлеров.
type Deps struct {
	Tracker    *progress.Tracker
	Onboarding *onboarding.Flow
	Food       *tracking.FoodDialogue
}

// sendError превращает ошибку ядра в сообщение пользователю. Ошибки
// хранилища логируются и наружу не выходят.
func sendError(c tele.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, progress.ErrProfileNotFound):
		return c.Send(msgNoProfile)
	case errors.Is(err, progress.ErrNonPositiveAmount):
		return c.Send("Значение должно быть положительным числом.")
	default:
		log.Error("Ошибка обработки команды",
			zap.Int64("telegram_id", c.Sender().ID),
			zap.Error(err),
		)
		return c.Send(msgFailure)
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
