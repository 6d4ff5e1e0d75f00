package handlers

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/progress"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/tracking"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/utils"
)

const (
	barWidth      = 10
	recentEntries = 5
)

func progressText(r progress.Report, ledger models.Ledger, suggestions []string) string {
	var sb strings.Builder

	sb.WriteString("📊 Прогресс за сегодня:\n\n")
	sb.WriteString("💧 Вода:\n")
	sb.WriteString(fmt.Sprintf("• Выпито: %s мл из %s мл\n", utils.FormatAmount(r.WaterLoggedMl), utils.FormatAmount(r.GoalWaterMl)))
	sb.WriteString(fmt.Sprintf("• Осталось: %s мл\n", utils.FormatAmount(r.WaterRemainingMl)))
	sb.WriteString(utils.ProgressBar(r.WaterProgressPct, barWidth) + "\n\n")

	sb.WriteString("🔥 Калории:\n")
	sb.WriteString(fmt.Sprintf("• Потреблено: %s ккал из %s ккал\n", utils.FormatAmount(r.CaloriesLogged), utils.FormatAmount(r.GoalCalories)))
	sb.WriteString(fmt.Sprintf("• Сожжено: %s ккал\n", utils.FormatAmount(r.CaloriesBurned)))
	sb.WriteString(fmt.Sprintf("• Баланс: %s ккал\n", utils.FormatAmount(r.CalorieBalance)))
	sb.WriteString(fmt.Sprintf("• Осталось: %s ккал\n", utils.FormatAmount(r.RemainingCalories)))
	sb.WriteString(utils.ProgressBar(r.CalorieProgressPct, barWidth) + "\n")

	sb.WriteString(fmt.Sprintf("\n📝 Записей за день: вода %d, еда %d, тренировки %d\n",
		len(ledger.Water), len(ledger.Food), len(ledger.Workouts)))

	if len(ledger.Food) > 0 {
		sb.WriteString("\n🍽 Последние приемы пищи:\n")
		food := ledger.Food
		if len(food) > recentEntries {
			food = food[len(food)-recentEntries:]
		}
		for _, f := range food {
			sb.WriteString(fmt.Sprintf("• %s %s, %s г: %s ккал%s\n",
				f.CreatedAt.Format("15:04"), f.FoodName, utils.FormatAmount(f.Grams), utils.FormatAmount(f.Calories), foodSourceNote(f)))
		}
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\n💡 Рекомендации:\n")
		for _, rec := range r.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	if len(suggestions) > 0 {
		sb.WriteString("\n🥗 Низкокалорийные варианты:\n")
		for _, s := range suggestions {
			sb.WriteString("• " + s + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func foodSourceNote(f models.FoodLog) string {
	if len(f.Details) == 0 {
		return ""
	}
	var details tracking.Details
	if err := utils.UnmarshalJSON([]byte(f.Details), &details); err != nil {
		return ""
	}
	if details.Source == tracking.SourceManual {
		return " (вручную)"
	}
	if details.Brand != "" {
		return " (" + details.Brand + ")"
	}
	return ""
}

// /check_progress
func CheckProgressHandler(d *Deps, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		ctx, cancel := requestContext()
		defer cancel()

		report, ledger, err := d.Tracker.Report(ctx, c.Sender().ID)
		if err != nil {
			return sendError(c, log, err)
		}

		var suggestions []string
		if report.RemainingCalories > 0 {
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
			suggestions = progress.SuggestLowCalorieFoods(report.RemainingCalories, rnd)
		}
		return c.Send(progressText(report, ledger, suggestions))
	}
}
