package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/db"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
)

const userID int64 = 1001

func newTracker(t *testing.T) (*progress.Tracker, *db.MemoryRepository) {
	t.Helper()

	repo := db.NewMemoryRepository()
	require.NoError(t, repo.UpsertProfile(context.Background(), &models.User{
		TelegramID:   userID,
		WeightKg:     70,
		HeightCm:     175,
		AgeYears:     30,
		Gender:       models.GenderMale,
		GoalCalories: 2000,
		GoalWaterMl:  2600,
	}))
	return progress.NewTracker(repo, calc.New(config.DefaultGoals()), zap.NewNop()), repo
}

func TestTracker_LogWater(t *testing.T) {
	ctx := context.Background()
	tr, repo := newTracker(t)

	amounts := []float64{250, 500, 330.5}
	var total float64
	for _, a := range amounts {
		u, err := tr.LogWater(ctx, userID, a)
		require.NoError(t, err)
		total += a
		assert.Equal(t, total, u.WaterLoggedMl)
	}

	ledger, err := repo.LedgerSince(ctx, userID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, ledger.Water, len(amounts))
	assert.Equal(t, total, ledger.WaterTotal(), "running total equals the ledger sum")
}

func TestTracker_LogWater_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	tr, repo := newTracker(t)

	for _, amount := range []float64{0, -100} {
		_, err := tr.LogWater(ctx, userID, amount)
		assert.ErrorIs(t, err, progress.ErrNonPositiveAmount)
	}

	ledger, err := repo.LedgerSince(ctx, userID, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, ledger.Water)
}

func TestTracker_LogFood(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	entry, u, err := tr.LogFood(ctx, userID, "банан", 89, 150, nil)
	require.NoError(t, err)
	assert.InDelta(t, 133.5, entry.Calories, 1e-9)
	assert.InDelta(t, 133.5, u.CaloriesLogged, 1e-9)

	_, _, err = tr.LogFood(ctx, userID, "банан", 89, 0, nil)
	assert.ErrorIs(t, err, progress.ErrNonPositiveAmount)

	_, _, err = tr.LogFood(ctx, userID, "банан", -1, 100, nil)
	assert.ErrorIs(t, err, progress.ErrNegativeCalories)
}

func TestTracker_LogWorkout(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	res, err := tr.LogWorkout(ctx, userID, "бег", 30)
	require.NoError(t, err)
	assert.Equal(t, 280, res.Burned)
	assert.Equal(t, 200, res.WaterAdviceMl)
	assert.Equal(t, 280.0, res.Profile.CaloriesBurned)

	res, err = tr.LogWorkout(ctx, userID, "неизвестное", 45)
	require.NoError(t, err)
	assert.Equal(t, 263, res.Burned)
	assert.Equal(t, 200, res.WaterAdviceMl)
	assert.Equal(t, 543.0, res.Profile.CaloriesBurned)

	_, err = tr.LogWorkout(ctx, userID, "бег", 0)
	assert.ErrorIs(t, err, progress.ErrNonPositiveAmount)
}

func TestTracker_MissingProfile(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)
	const stranger int64 = 5

	_, err := tr.LogWater(ctx, stranger, 100)
	assert.ErrorIs(t, err, progress.ErrProfileNotFound)

	_, _, err = tr.LogFood(ctx, stranger, "рис", 130, 100, nil)
	assert.ErrorIs(t, err, progress.ErrProfileNotFound)

	_, err = tr.LogWorkout(ctx, stranger, "бег", 30)
	assert.ErrorIs(t, err, progress.ErrProfileNotFound)

	_, _, err = tr.Report(ctx, stranger)
	assert.ErrorIs(t, err, progress.ErrProfileNotFound)

	_, err = tr.Profile(ctx, stranger)
	assert.True(t, errors.Is(err, progress.ErrProfileNotFound))
}

func TestTracker_ResetDaily(t *testing.T) {
	ctx := context.Background()
	tr, repo := newTracker(t)

	_, err := tr.LogWater(ctx, userID, 1000)
	require.NoError(t, err)
	_, _, err = tr.LogFood(ctx, userID, "рис", 130, 200, nil)
	require.NoError(t, err)
	_, err = tr.LogWorkout(ctx, userID, "йога", 60)
	require.NoError(t, err)

	require.NoError(t, tr.ResetDaily(ctx))
	require.NoError(t, tr.ResetDaily(ctx), "reset is idempotent")

	u, err := tr.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, u.WaterLoggedMl)
	assert.Zero(t, u.CaloriesLogged)
	assert.Zero(t, u.CaloriesBurned)
	assert.Equal(t, 2000, u.GoalCalories)
	assert.Equal(t, 2600, u.GoalWaterMl)

	history, err := repo.LedgerSince(ctx, userID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, history.Water, 1)
	assert.Len(t, history.Food, 1)
	assert.Len(t, history.Workouts, 1)

	report, today, err := tr.Report(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, report.WaterLoggedMl)
	assert.Empty(t, today.Water, "entries before the reset are not part of today")
}

func TestTracker_ReportMatchesTotalsUnderConcurrentReset(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				assert.NoError(t, tr.ResetDaily(ctx))
				return
			}
			_, err := tr.LogWater(ctx, userID, 100)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	report, today, err := tr.Report(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, report.WaterLoggedMl, today.WaterTotal())
}

func TestTracker_Report(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	_, err := tr.LogWater(ctx, userID, 2000)
	require.NoError(t, err)
	_, _, err = tr.LogFood(ctx, userID, "паста", 350, 400, nil)
	require.NoError(t, err)

	report, ledger, err := tr.Report(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, report.WaterLoggedMl)
	assert.Equal(t, 600.0, report.WaterRemainingMl)
	assert.Equal(t, 1400.0, report.CalorieBalance)
	assert.Equal(t, 600.0, report.RemainingCalories)
	assert.InDelta(t, 70.0, report.CalorieProgressPct, 1e-9)
	assert.Empty(t, report.Recommendations)
	assert.Len(t, ledger.Water, 1)
	assert.Len(t, ledger.Food, 1)
}
