package handlers

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// LoggingMiddleware пишет в лог каждое входящее обновление и ошибки хендлеров.
func LoggingMiddleware(log *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			fields := []zap.Field{zap.String("text", c.Text())}
			if s := c.Sender(); s != nil {
				fields = append(fields, zap.Int64("telegram_id", s.ID), zap.String("username", s.Username))
			}
			if ch := c.Chat(); ch != nil {
				fields = append(fields, zap.Int64("chat_id", ch.ID))
			}

			err := next(c)

			fields = append(fields, zap.Duration("took", time.Since(start)))
			if err != nil {
				log.Error("Ошибка обработки сообщения", append(fields, zap.Error(err))...)
				return err
			}
			log.Info("Сообщение обработано", fields...)
			return nil
		}
	}
}
