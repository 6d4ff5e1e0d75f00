// Package scheduler сбрасывает дневные накопления по cron-расписанию,
// по умолчанию "@midnight". Пропущенная во время простоя полночь не догоняется.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const resetTimeout = time.Minute

type Resetter interface {
	ResetDaily(ctx context.Context) error
}

type DailyReset struct {
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	resetter Resetter
	log      *zap.Logger
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func New(resetter Resetter, spec string, loc *time.Location, log *zap.Logger) (*DailyReset, error) {
	if loc == nil {
		loc = time.Local
	}
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse reset spec %q: %w", spec, err)
	}

	cl := cronLogger{log: log.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	return &DailyReset{
		cron:     c,
		schedule: schedule,
		location: loc,
		resetter: resetter,
		log:      log,
	}, nil
}

// Start ставит сброс в расписание и сразу возвращается. Остановка по отмене ctx.
func (d *DailyReset) Start(ctx context.Context) {
	d.cron.Schedule(d.schedule, cron.FuncJob(func() {
		d.Fire(ctx)
	}))
	d.cron.Start()
	d.log.Info("Планировщик сброса запущен", zap.Time("next_reset", d.NextReset(time.Now())))

	go func() {
		<-ctx.Done()
		d.Stop()
	}()
}

// Stop останавливает расписание и ждёт завершения текущего сброса.
func (d *DailyReset) Stop() {
	<-d.cron.Stop().Done()
	d.log.Info("Планировщик сброса остановлен")
}

// Fire выполняет один сброс. Ошибка логируется, расписание продолжается.
func (d *DailyReset) Fire(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	if err := d.resetter.ResetDaily(ctx); err != nil {
		d.log.Error("Ошибка сброса дневных накоплений", zap.Error(err))
		return
	}
	d.log.Info("Дневные логи сброшены", zap.Time("next_reset", d.NextReset(time.Now())))
}

// NextReset — ближайшее время сброса строго после now.
func (d *DailyReset) NextReset(now time.Time) time.Time {
	return d.schedule.Next(now.In(d.location))
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
