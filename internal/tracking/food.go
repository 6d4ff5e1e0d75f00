// Package tracking ведёт диалог записи еды: поиск продукта, вес порции
// и ручной ввод калорийности, если продукт не найден.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/services"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

var ErrNoSession = errors.New("no food logging in progress")

const (
	SourceLookup = "openfoodfacts"
	SourceManual = "manual"

	MaxGrams           = 5000
	MaxCaloriesPer100g = 900
)

type Step int

const (
	StepGrams Step = iota + 1
	StepCalories
	StepDone
)

type PendingFood struct {
	Step            Step
	Query           string
	FoodName        string
	Brand           string
	CaloriesPer100g float64
	Grams           float64
	Source          string
}

// Details сохраняется в JSON-поле записи журнала.
type Details struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	Brand  string `json:"brand,omitempty"`
}

type Reply struct {
	Text  string
	Step  Step
	Entry *models.FoodLog
	Total float64 // калорий за день после записи
}

type FoodLogger interface {
	LogFood(ctx context.Context, telegramID int64, foodName string, caloriesPer100g, grams float64, details datatypes.JSON) (*models.FoodLog, *models.User, error)
}

type session struct {
	mu sync.Mutex
	p  PendingFood
}

type FoodDialogue struct {
	sessions cmap.ConcurrentMap[int64, *session]
	lookup   services.FoodLookup
	tracker  FoodLogger
	log      *zap.Logger
}

func NewFoodDialogue(lookup services.FoodLookup, tracker FoodLogger, log *zap.Logger) *FoodDialogue {
	return &FoodDialogue{
		sessions: cmap.NewWithCustomShardingFunction[int64, *session](func(id int64) uint32 {
			return uint32(id) ^ uint32(id>>32)
		}),
		lookup:  lookup,
		tracker: tracker,
		log:     log,
	}
}

// Start ищет продукт и переходит к весу порции. Если продукт не найден,
// после веса спрашивается калорийность.
func (d *FoodDialogue) Start(ctx context.Context, userID int64, product string) Reply {
	product = strings.TrimSpace(product)
	p := PendingFood{Step: StepGrams, Query: product, FoodName: product}

	var text string
	res := d.lookup.Lookup(ctx, product)
	if res.Success {
		p.FoodName = res.Name
		p.Brand = res.Brand
		p.CaloriesPer100g = res.CaloriesPer100g
		p.Source = SourceLookup
		text = fmt.Sprintf("🍎 %s: %s ккал на 100 г.\nСколько грамм вы съели?", res.Name, utils.FormatAmount(res.CaloriesPer100g))
	} else {
		p.Source = SourceManual
		text = fmt.Sprintf("⚠️ %s. Калорийность введем вручную.\nСколько грамм «%s» вы съели?", res.Error, product)
		d.log.Warn("Продукт не найден",
			zap.Int64("telegram_id", userID),
			zap.String("query", product),
			zap.String("error", res.Error),
		)
	}

	d.sessions.Set(userID, &session{p: p})
	return Reply{Text: text, Step: StepGrams}
}

func (d *FoodDialogue) Active(userID int64) bool {
	return d.sessions.Has(userID)
}

func (d *FoodDialogue) Cancel(userID int64) bool {
	_, ok := d.sessions.Pop(userID)
	return ok
}

func (d *FoodDialogue) Snapshot(userID int64) (PendingFood, bool) {
	s, ok := d.sessions.Get(userID)
	if !ok {
		return PendingFood{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p, true
}

// Handle продвигает диалог. В журнал ничего не пишется, пока не известна
// калорийность.
func (d *FoodDialogue) Handle(ctx context.Context, userID int64, text string) (Reply, error) {
	s, ok := d.sessions.Get(userID)
	if !ok {
		return Reply{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.p

	switch p.Step {
	case StepGrams:
		g, ok := utils.ParseNumber(text)
		if !ok || g <= 0 || g > MaxGrams {
			return Reply{Text: fmt.Sprintf("Введите вес порции в граммах (больше 0, не более %d):", MaxGrams), Step: p.Step}, nil
		}
		p.Grams = g
		if p.Source == SourceManual {
			p.Step = StepCalories
			return Reply{Text: "Сколько ккал содержится в 100 г продукта?", Step: p.Step}, nil
		}
		return d.save(ctx, userID, s)

	case StepCalories:
		kcal, ok := utils.ParseNumber(text)
		if !ok || kcal < 0 || kcal > MaxCaloriesPer100g {
			return Reply{Text: fmt.Sprintf("Введите калорийность на 100 г числом (0-%d):", MaxCaloriesPer100g), Step: p.Step}, nil
		}
		p.CaloriesPer100g = kcal
		return d.save(ctx, userID, s)
	}

	d.removeSession(userID, s)
	return Reply{}, ErrNoSession
}

// removeSession удаляет только сессию s: новый /log_food, начатый во время
// записи, остаётся.
func (d *FoodDialogue) removeSession(userID int64, s *session) {
	d.sessions.RemoveCb(userID, func(_ int64, v *session, exists bool) bool {
		return exists && v == s
	})
}

func (d *FoodDialogue) save(ctx context.Context, userID int64, s *session) (Reply, error) {
	p := &s.p
	details, err := json.Marshal(Details{Source: p.Source, Query: p.Query, Brand: p.Brand})
	if err != nil {
		return Reply{}, fmt.Errorf("marshal food details: %w", err)
	}

	entry, u, err := d.tracker.LogFood(ctx, userID, p.FoodName, p.CaloriesPer100g, p.Grams, datatypes.JSON(details))
	if errors.Is(err, progress.ErrProfileNotFound) {
		p.Step = StepDone
		d.removeSession(userID, s)
		return Reply{Step: StepDone}, err
	}
	if err != nil {
		return Reply{Text: "⚠️ Не удалось записать еду, попробуйте еще раз.", Step: p.Step}, err
	}

	p.Step = StepDone
	d.removeSession(userID, s)
	return Reply{
		Text: fmt.Sprintf("✅ Записано: %s, %s г, %s ккал.\nВсего за день: %s ккал.",
			entry.FoodName, utils.FormatAmount(entry.Grams), utils.FormatAmount(entry.Calories), utils.FormatAmount(u.CaloriesLogged)),
		Step:  StepDone,
		Entry: entry,
		Total: u.CaloriesLogged,
	}, nil
}
