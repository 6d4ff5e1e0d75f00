package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	BtnProgress = "📊 Прогресс"
	BtnProfile  = "👤 Профиль"
	BtnSetup    = "⚙️ Настроить профиль"
	BtnHelp     = "❓ Помощь"
	BtnCancel   = "❌ Отмена"
)

// Упрощённая функция для распаковки datatypes.JSON
func UnmarshalJSON(data interface{}, v interface{}) error {
	switch t := data.(type) {
	case []byte:
		return json.Unmarshal(t, v)
	case string:
		return json.Unmarshal([]byte(t), v)
	default:
		return json.Unmarshal([]byte(fmt.Sprintf("%v", t)), v)
	}
}

// ParseNumber понимает и "72.5", и "72,5".
func ParseNumber(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Клавиатура с кнопкой "Отмена" для пошаговых диалогов
func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	btnCancel := menu.Text(BtnCancel)
	menu.Reply(menu.Row(btnCancel))
	return menu
}

func OptionsKeyboard(options ...string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	row := make([]tele.Btn, 0, len(options))
	for _, o := range options {
		row = append(row, menu.Text(o))
	}
	menu.Reply(menu.Row(row...), menu.Row(menu.Text(BtnCancel)))
	return menu
}

func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(BtnProgress), menu.Text(BtnProfile)),
		menu.Row(menu.Text(BtnSetup), menu.Text(BtnHelp)),
	)
	return menu
}

const MainMenuText = "📋 Главное меню:\n\n" +
	"/set_profile – настроить профиль\n" +
	"/profile – ваш профиль\n" +
	"/log_water <мл> – записать воду\n" +
	"/log_food <продукт> – записать еду\n" +
	"/log_workout <тип> <минуты> – записать тренировку\n" +
	"/check_progress – прогресс за день\n" +
	"/cancel – отменить ввод\n" +
	"/help – помощь"

func SendMainMenu(c tele.Context) error {
	return c.Send(MainMenuText, MainMenuKeyboard())
}

func FormatDateRu(t time.Time) string {
	months := []string{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"}
	day := t.Day()
	month := months[int(t.Month())-1]
	year := t.Year()
	return fmt.Sprintf("%d %s %d", day, month, year)
}

// ProgressBar рисует полосу из width ячеек для процента в [0,100].
func ProgressBar(pct float64, width int) string {
	pct = math.Max(0, math.Min(100, pct))
	filled := int(math.Round(pct / 100 * float64(width)))
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %.0f%%", pct)
}

// FormatAmount убирает лишний ноль у целых значений: 250 вместо 250.0.
func FormatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
