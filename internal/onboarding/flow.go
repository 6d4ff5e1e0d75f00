// Package onboarding пошагово собирает профиль и сохраняет его
// вместе с рассчитанными дневными целями.
package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/services"
)

var ErrNoSession = errors.New("no onboarding in progress")

type Step int

const (
	StepWeight Step = iota + 1
	StepHeight
	StepAge
	StepGender
	StepActivity
	StepCity
	StepGoal
	StepConfirm
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepWeight:
		return "weight"
	case StepHeight:
		return "height"
	case StepAge:
		return "age"
	case StepGender:
		return "gender"
	case StepActivity:
		return "activity"
	case StepCity:
		return "city"
	case StepGoal:
		return "goal"
	case StepConfirm:
		return "confirm"
	case StepDone:
		return "done"
	}
	return "unknown"
}

// Pending — данные, собранные до сохранения профиля.
type Pending struct {
	Step                Step
	Name                string
	WeightKg            float64
	HeightCm            float64
	AgeYears            int
	Gender              string
	ActivityMinutes     int
	City                string
	TemperatureC        float64
	GoalType            string
	RecommendedCalories int
}

type Reply struct {
	Text    string
	Step    Step
	Profile *models.User // сохраненный профиль, только после подтверждения
}

type ProfileStore interface {
	UpsertProfile(ctx context.Context, u *models.User) error
}

type session struct {
	mu sync.Mutex
	p  Pending
}

type Flow struct {
	sessions cmap.ConcurrentMap[int64, *session]
	calc     *calc.Calculator
	weather  services.WeatherLookup
	store    ProfileStore
	log      *zap.Logger
	now      func() time.Time
}

func shardByID(id int64) uint32 {
	return uint32(id) ^ uint32(id>>32)
}

func NewFlow(calculator *calc.Calculator, weather services.WeatherLookup, store ProfileStore, log *zap.Logger) *Flow {
	return &Flow{
		sessions: cmap.NewWithCustomShardingFunction[int64, *session](shardByID),
		calc:     calculator,
		weather:  weather,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Start начинает ввод профиля заново, отбрасывая незаконченный.
func (f *Flow) Start(userID int64, name string) Reply {
	f.sessions.Set(userID, &session{p: Pending{Step: StepWeight, Name: name}})
	f.log.Info("Начат ввод профиля", zap.Int64("telegram_id", userID))
	return Reply{Text: promptStart, Step: StepWeight}
}

func (f *Flow) Active(userID int64) bool {
	return f.sessions.Has(userID)
}

// Cancel отбрасывает собранные данные. Возвращает, была ли сессия.
func (f *Flow) Cancel(userID int64) bool {
	_, ok := f.sessions.Pop(userID)
	if ok {
		f.log.Info("Ввод профиля отменен", zap.Int64("telegram_id", userID))
	}
	return ok
}

// Snapshot возвращает копию собранных данных.
func (f *Flow) Snapshot(userID int64) (Pending, bool) {
	s, ok := f.sessions.Get(userID)
	if !ok {
		return Pending{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p, true
}

// Handle передаёт сообщение текущему шагу. Некорректный ввод повторяет вопрос
// и не меняет собранные поля. Ошибка возвращается, только если сессии нет
// или профиль не удалось сохранить.
func (f *Flow) Handle(ctx context.Context, userID int64, text string) (Reply, error) {
	s, ok := f.sessions.Get(userID)
	if !ok {
		return Reply{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.p.Step {
	case StepWeight:
		return f.weight(&s.p, text), nil
	case StepHeight:
		return f.height(&s.p, text), nil
	case StepAge:
		return f.age(&s.p, text), nil
	case StepGender:
		return f.gender(&s.p, text), nil
	case StepActivity:
		return f.activity(&s.p, text), nil
	case StepCity:
		return f.city(ctx, userID, &s.p, text), nil
	case StepGoal:
		return f.goal(&s.p, text), nil
	case StepConfirm:
		return f.confirm(ctx, userID, s, text)
	}

	f.removeSession(userID, s)
	return Reply{}, ErrNoSession
}

// removeSession удаляет только сессию s: ввод профиля, начатый заново
// во время сохранения, остаётся.
func (f *Flow) removeSession(userID int64, s *session) {
	f.sessions.RemoveCb(userID, func(_ int64, v *session, exists bool) bool {
		return exists && v == s
	})
}
