package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"

	"gorm.io/gorm"
)

// Repository хранит профили и журналы в реляционной БД через gorm.
// Каждая запись журнала добавляется в одной транзакции с увеличением
// соответствующего накопления, поэтому сброс и запись не теряют обновлений.
type Repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", telegramID, err)
	}
	return &user, nil
}

// UpsertProfile создаёт профиль или перезаписывает существующий целиком,
// сохраняя его ID и дату создания. Перезапись начинает новый день учёта.
func (r *Repository) UpsertProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// UPDATE первым: параллельные записи журнала ждут окончания транзакции
		res := tx.Model(&models.User{}).
			Where("telegram_id = ?", user.TelegramID).
			UpdateColumn("reset_epoch", gorm.Expr("reset_epoch + 1"))
		if res.Error != nil {
			return fmt.Errorf("lock user %d: %w", user.TelegramID, res.Error)
		}
		if res.RowsAffected == 0 {
			return tx.Create(user).Error
		}

		var existing models.User
		if err := tx.First(&existing, "telegram_id = ?", user.TelegramID).Error; err != nil {
			return fmt.Errorf("find user %d: %w", user.TelegramID, err)
		}
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		user.ResetEpoch = existing.ResetEpoch
		return tx.Save(user).Error
	})
}

func (r *Repository) AppendWaterLog(ctx context.Context, entry *models.WaterLog) (*models.User, error) {
	return r.appendLog(ctx, entry.TelegramID, entry, "water_logged_ml", entry.AmountMl)
}

func (r *Repository) AppendFoodLog(ctx context.Context, entry *models.FoodLog) (*models.User, error) {
	return r.appendLog(ctx, entry.TelegramID, entry, "calories_logged", entry.Calories)
}

func (r *Repository) AppendWorkoutLog(ctx context.Context, entry *models.WorkoutLog) (*models.User, error) {
	return r.appendLog(ctx, entry.TelegramID, entry, "calories_burned", entry.CaloriesBurned)
}

func (r *Repository) appendLog(ctx context.Context, telegramID int64, entry models.LedgerEntry, column string, amount float64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// UPDATE первым: блокирует строку пользователя до конца транзакции
		res := tx.Model(&models.User{}).
			Where("telegram_id = ?", telegramID).
			UpdateColumn(column, gorm.Expr(column+" + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}

		if err := tx.First(&user, "telegram_id = ?", telegramID).Error; err != nil {
			return err
		}
		entry.StampEpoch(user.ResetEpoch)
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("append %s for %d: %w", column, telegramID, err)
	}
	return &user, nil
}

// ResetAllDailyTotals обнуляет накопления у всех пользователей одним запросом
// и открывает новый день учёта.
func (r *Repository) ResetAllDailyTotals(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("1 = 1").
		UpdateColumns(map[string]any{
			"water_logged_ml": 0,
			"calories_logged": 0,
			"calories_burned": 0,
			"reset_epoch":     gorm.Expr("reset_epoch + 1"),
			"last_reset_at":   time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("reset daily totals: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// LedgerForEpoch возвращает записи текущего дня учёта: их сумма совпадает
// с накоплениями пользователя с тем же ResetEpoch.
func (r *Repository) LedgerForEpoch(ctx context.Context, telegramID, epoch int64) (models.Ledger, error) {
	return r.ledger(r.db.WithContext(ctx).
		Where("telegram_id = ? AND reset_epoch = ?", telegramID, epoch))
}

// LedgerSince — история записей по времени, независимо от сбросов.
func (r *Repository) LedgerSince(ctx context.Context, telegramID int64, since time.Time) (models.Ledger, error) {
	return r.ledger(r.db.WithContext(ctx).
		Where("telegram_id = ? AND created_at >= ?", telegramID, since))
}

func (r *Repository) ledger(scope *gorm.DB) (models.Ledger, error) {
	var ledger models.Ledger
	q := scope.Order("created_at").Session(&gorm.Session{})

	if err := q.Find(&ledger.Water).Error; err != nil {
		return ledger, fmt.Errorf("water logs: %w", err)
	}
	if err := q.Find(&ledger.Food).Error; err != nil {
		return ledger, fmt.Errorf("food logs: %w", err)
	}
	if err := q.Find(&ledger.Workouts).Error; err != nil {
		return ledger, fmt.Errorf("workout logs: %w", err)
	}
	return ledger, nil
}
