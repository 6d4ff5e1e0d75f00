package calc

import (
	"strings"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
)

var genderSynonyms = map[string]string{
	"male":    models.GenderMale,
	"m":       models.GenderMale,
	"м":       models.GenderMale,
	"муж":     models.GenderMale,
	"мужчина": models.GenderMale,
	"мужской": models.GenderMale,
	"female":  models.GenderFemale,
	"f":       models.GenderFemale,
	"ж":       models.GenderFemale,
	"жен":     models.GenderFemale,
	"женщина": models.GenderFemale,
	"женский": models.GenderFemale,
}

var goalSynonyms = map[string]string{
	"lose":         models.GoalLose,
	"похудеть":     models.GoalLose,
	"сбросить":     models.GoalLose,
	"снизить вес":  models.GoalLose,
	"maintain":     models.GoalMaintain,
	"поддерживать": models.GoalMaintain,
	"поддержание":  models.GoalMaintain,
	"сохранить":    models.GoalMaintain,
	"gain":         models.GoalGain,
	"набрать":      models.GoalGain,
	"набор":        models.GoalGain,
	"набрать вес":  models.GoalGain,
}

// ParseGender приводит ввод к models.GenderMale или models.GenderFemale.
func ParseGender(input string) (string, bool) {
	g, ok := genderSynonyms[normalize(input)]
	return g, ok
}

// ParseGoal приводит ввод к одному из трёх типов цели.
func ParseGoal(input string) (string, bool) {
	g, ok := goalSynonyms[normalize(input)]
	return g, ok
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
