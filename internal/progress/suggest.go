package progress

import (
	"fmt"
	"math/rand"
)

type food struct {
	Name string
	Kcal float64 // на 100 г
}

var lowCalorieFoods = []food{
	{"огурец", 15},
	{"помидор", 18},
	{"салат листовой", 14},
	{"редис", 16},
	{"сельдерей", 12},
	{"шпинат", 23},
	{"капуста белокочанная", 25},
	{"брокколи", 34},
	{"цветная капуста", 30},
	{"кабачок", 24},
	{"перец болгарский", 27},
	{"спаржа", 20},
	{"грибы шампиньоны", 27},
	{"яблоко", 52},
	{"груша", 57},
	{"апельсин", 43},
	{"грейпфрут", 42},
	{"клубника", 41},
	{"малина", 52},
	{"черника", 57},
	{"арбуз", 30},
	{"дыня", 35},
	{"греческий йогурт 0%", 59},
	{"творог обезжиренный", 73},
	{"кефир 1%", 40},
	{"яйцо вареное", 155},
	{"куриная грудка", 165},
	{"рыба треска", 78},
	{"креветки", 99},
	{"тофу", 76},
}

const maxSuggestions = 3

// SuggestLowCalorieFoods подбирает до трёх продуктов, укладывающихся в остаток
// калорий. Если подходящих меньше, добирает случайными из всей таблицы.
func SuggestLowCalorieFoods(remaining float64, rnd *rand.Rand) []string {
	var picked []string
	seen := make(map[string]bool)
	add := func(f food) {
		line := fmt.Sprintf("%s: %.0f ккал/100г", f.Name, f.Kcal)
		if !seen[line] {
			seen[line] = true
			picked = append(picked, line)
		}
	}

	switch {
	case remaining < 100:
		for _, f := range lowCalorieFoods {
			if len(picked) == maxSuggestions {
				break
			}
			if f.Kcal < 50 {
				add(f)
			}
		}
	case remaining <= 300:
		for _, f := range lowCalorieFoods {
			if f.Kcal <= remaining*0.3 {
				add(f)
			}
		}
	default:
		for _, f := range lowCalorieFoods {
			if f.Kcal <= remaining*0.2 {
				add(f)
			}
		}
	}

	if len(picked) < maxSuggestions {
		shuffled := make([]food, len(lowCalorieFoods))
		copy(shuffled, lowCalorieFoods)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, f := range shuffled {
			if len(picked) == maxSuggestions {
				break
			}
			add(f)
		}
	}

	if len(picked) > maxSuggestions {
		picked = picked[:maxSuggestions]
	}
	return picked
}
