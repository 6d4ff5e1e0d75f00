package db

import (
	"context"
	"sync"
	"time"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"

	"github.com/google/uuid"
)

// MemoryRepository — хранилище в памяти процесса (STORAGE=memory).
// Все операции выполняются под одной блокировкой.
type MemoryRepository struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	water    []models.WaterLog
	food     []models.FoodLog
	workouts []models.WorkoutLog
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[int64]*models.User),
		now:   time.Now,
	}
}

func (r *MemoryRepository) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpsertProfile(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if existing, ok := r.users[user.TelegramID]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		user.ResetEpoch = existing.ResetEpoch + 1
	} else {
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	cp := *user
	r.users[user.TelegramID] = &cp
	return nil
}

func (r *MemoryRepository) AppendWaterLog(ctx context.Context, entry *models.WaterLog) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[entry.TelegramID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	entry.ID = uuid.New()
	entry.CreatedAt = r.now()
	entry.ResetEpoch = u.ResetEpoch
	r.water = append(r.water, *entry)
	u.WaterLoggedMl += entry.AmountMl

	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) AppendFoodLog(ctx context.Context, entry *models.FoodLog) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[entry.TelegramID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	entry.ID = uuid.New()
	entry.CreatedAt = r.now()
	entry.ResetEpoch = u.ResetEpoch
	r.food = append(r.food, *entry)
	u.CaloriesLogged += entry.Calories

	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) AppendWorkoutLog(ctx context.Context, entry *models.WorkoutLog) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[entry.TelegramID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	entry.ID = uuid.New()
	entry.CreatedAt = r.now()
	entry.ResetEpoch = u.ResetEpoch
	r.workouts = append(r.workouts, *entry)
	u.CaloriesBurned += entry.CaloriesBurned

	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) ResetAllDailyTotals(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := r.now()
	for _, u := range r.users {
		u.ResetTotals(at)
		u.ResetEpoch++
	}
	return int64(len(r.users)), nil
}

func (r *MemoryRepository) LedgerForEpoch(ctx context.Context, telegramID, epoch int64) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ledger(func(id, e int64, _ time.Time) bool {
		return id == telegramID && e == epoch
	}), nil
}

func (r *MemoryRepository) LedgerSince(ctx context.Context, telegramID int64, since time.Time) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ledger(func(id, _ int64, at time.Time) bool {
		return id == telegramID && !at.Before(since)
	}), nil
}

// ledger вызывается под r.mu.
func (r *MemoryRepository) ledger(match func(telegramID, epoch int64, at time.Time) bool) models.Ledger {
	var ledger models.Ledger
	for _, e := range r.water {
		if match(e.TelegramID, e.ResetEpoch, e.CreatedAt) {
			ledger.Water = append(ledger.Water, e)
		}
	}
	for _, e := range r.food {
		if match(e.TelegramID, e.ResetEpoch, e.CreatedAt) {
			ledger.Food = append(ledger.Food, e)
		}
	}
	for _, e := range r.workouts {
		if match(e.TelegramID, e.ResetEpoch, e.CreatedAt) {
			ledger.Workouts = append(ledger.Workouts, e)
		}
	}
	return ledger
}
