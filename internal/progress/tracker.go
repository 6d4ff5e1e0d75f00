// Package progress ведёт дневные накопления пользователя и строит отчёт о прогрессе.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNegativeCalories  = errors.New("calories per 100g cannot be negative")
	ErrProfileNotFound   = errors.New("profile not found")
)

// Store добавляет запись журнала и увеличивает накопление атомарно,
// возвращая обновлённый профиль.
type Store interface {
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	AppendWaterLog(ctx context.Context, entry *models.WaterLog) (*models.User, error)
	AppendFoodLog(ctx context.Context, entry *models.FoodLog) (*models.User, error)
	AppendWorkoutLog(ctx context.Context, entry *models.WorkoutLog) (*models.User, error)
	ResetAllDailyTotals(ctx context.Context) (int64, error)
	LedgerForEpoch(ctx context.Context, telegramID, epoch int64) (models.Ledger, error)
}

type Tracker struct {
	store Store
	calc  *calc.Calculator
	log   *zap.Logger
}

func NewTracker(store Store, calculator *calc.Calculator, log *zap.Logger) *Tracker {
	return &Tracker{
		store: store,
		calc:  calculator,
		log:   log,
	}
}

type WorkoutResult struct {
	Burned        int
	WaterAdviceMl int
	Profile       *models.User
}

func (t *Tracker) Profile(ctx context.Context, telegramID int64) (*models.User, error) {
	u, err := t.store.GetUser(ctx, telegramID)
	return u, mapNotFound(err)
}

func (t *Tracker) LogWater(ctx context.Context, telegramID int64, amountMl float64) (*models.User, error) {
	if amountMl <= 0 {
		return nil, fmt.Errorf("water %v ml: %w", amountMl, ErrNonPositiveAmount)
	}

	u, err := t.store.AppendWaterLog(ctx, &models.WaterLog{TelegramID: telegramID, AmountMl: amountMl})
	if err != nil {
		return nil, mapNotFound(err)
	}
	t.log.Info("Записана вода", zap.Int64("telegram_id", telegramID), zap.Float64("ml", amountMl))
	return u, nil
}

// LogFood записывает приём пищи. caloriesPer100g уже известен: если продукт
// не найден, его спрашивают у пользователя до вызова.
func (t *Tracker) LogFood(ctx context.Context, telegramID int64, foodName string, caloriesPer100g, grams float64, details datatypes.JSON) (*models.FoodLog, *models.User, error) {
	if grams <= 0 {
		return nil, nil, fmt.Errorf("food %v g: %w", grams, ErrNonPositiveAmount)
	}
	if caloriesPer100g < 0 {
		return nil, nil, fmt.Errorf("food %v kcal/100g: %w", caloriesPer100g, ErrNegativeCalories)
	}

	entry := &models.FoodLog{
		TelegramID:      telegramID,
		FoodName:        foodName,
		CaloriesPer100g: caloriesPer100g,
		Grams:           grams,
		Calories:        caloriesPer100g * grams / 100,
		Details:         details,
	}
	u, err := t.store.AppendFoodLog(ctx, entry)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	t.log.Info("Записана еда",
		zap.Int64("telegram_id", telegramID),
		zap.String("food", foodName),
		zap.Float64("kcal", entry.Calories),
	)
	return entry, u, nil
}

// LogWorkout считает сожжённые калории по весу из профиля и возвращает
// рекомендацию по воде вместе с обновлённым профилем.
func (t *Tracker) LogWorkout(ctx context.Context, telegramID int64, workoutType string, durationMinutes int) (*WorkoutResult, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("workout %d min: %w", durationMinutes, ErrNonPositiveAmount)
	}

	profile, err := t.store.GetUser(ctx, telegramID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	burned := t.calc.WorkoutBurn(workoutType, durationMinutes, profile.WeightKg)
	u, err := t.store.AppendWorkoutLog(ctx, &models.WorkoutLog{
		TelegramID:      telegramID,
		WorkoutType:     workoutType,
		DurationMinutes: durationMinutes,
		CaloriesBurned:  float64(burned),
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	t.log.Info("Записана тренировка",
		zap.Int64("telegram_id", telegramID),
		zap.String("type", workoutType),
		zap.Int("minutes", durationMinutes),
		zap.Int("kcal", burned),
	)

	return &WorkoutResult{
		Burned:        burned,
		WaterAdviceMl: t.calc.WorkoutHydration(durationMinutes),
		Profile:       u,
	}, nil
}

// Report строит отчёт за текущий день и возвращает записи журнала
// того же дня учёта.
func (t *Tracker) Report(ctx context.Context, telegramID int64) (Report, models.Ledger, error) {
	u, err := t.store.GetUser(ctx, telegramID)
	if err != nil {
		return Report{}, models.Ledger{}, mapNotFound(err)
	}

	ledger, err := t.store.LedgerForEpoch(ctx, telegramID, u.ResetEpoch)
	if err != nil {
		return Report{}, models.Ledger{}, err
	}
	return BuildReport(u), ledger, nil
}

// ResetDaily обнуляет накопления всех пользователей. Цели и история журнала
// не меняются.
func (t *Tracker) ResetDaily(ctx context.Context) error {
	n, err := t.store.ResetAllDailyTotals(ctx)
	if err != nil {
		return err
	}
	t.log.Info("Дневные накопления сброшены", zap.Int64("users", n))
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, models.ErrUserNotFound) {
		return ErrProfileNotFound
	}
	return err
}
