package bot

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/handlers"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

type Bot struct {
	tb  *tele.Bot
	log *zap.Logger
}

var commands = []tele.Command{
	{Text: "start", Description: "Начало работы"},
	{Text: "set_profile", Description: "Настроить профиль"},
	{Text: "profile", Description: "Мой профиль"},
	{Text: "log_water", Description: "Записать воду, мл"},
	{Text: "log_food", Description: "Записать еду"},
	{Text: "log_workout", Description: "Записать тренировку"},
	{Text: "check_progress", Description: "Прогресс за день"},
	{Text: "cancel", Description: "Отменить ввод"},
	{Text: "help", Description: "Помощь"},
}

func New(cfg *config.Config, d *handlers.Deps, log *zap.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TGtoken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("telegram_id", c.Sender().ID))
			}
			log.Error("Необработанная ошибка хендлера", fields...)
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		log.Error("Failed to create bot", zap.Error(err))
		return nil, err
	}

	if err := b.SetCommands(commands); err != nil {
		log.Warn("Не удалось установить список команд", zap.Error(err))
	}

	register(b, d, log)
	return &Bot{tb: b, log: log}, nil
}

func register(b *tele.Bot, d *handlers.Deps, log *zap.Logger) {
	b.Use(handlers.LoggingMiddleware(log))

	b.Handle("/start", handlers.StartHandler(d, log))
	b.Handle("/help", handlers.HelpHandler(d, log))
	b.Handle(utils.BtnHelp, handlers.HelpHandler(d, log))

	b.Handle("/set_profile", handlers.SetProfileHandler(d, log))
	b.Handle(utils.BtnSetup, handlers.SetProfileHandler(d, log))
	b.Handle("/profile", handlers.ProfileHandler(d, log))
	b.Handle(utils.BtnProfile, handlers.ProfileHandler(d, log))
	b.Handle("/cancel", handlers.CancelHandler(d, log))
	b.Handle(utils.BtnCancel, handlers.CancelHandler(d, log))

	b.Handle("/log_water", handlers.LogWaterHandler(d, log))
	b.Handle("/log_food", handlers.LogFoodHandler(d, log))
	b.Handle("/log_workout", handlers.LogWorkoutHandler(d, log))
	b.Handle("/check_progress", handlers.CheckProgressHandler(d, log))
	b.Handle(utils.BtnProgress, handlers.CheckProgressHandler(d, log))

	// Весь остальной текст идёт в активный пошаговый диалог
	b.Handle(tele.OnText, handlers.TextHandler(d, log))
}

// Start блокируется до вызова Stop.
func (b *Bot) Start() {
	b.log.Info("Bot started")
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
	b.log.Info("Bot stopped")
}
