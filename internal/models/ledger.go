package models

// Ledger — записи журнала пользователя за выбранный период.
type Ledger struct {
	Water    []WaterLog
	Food     []FoodLog
	Workouts []WorkoutLog
}

func (l Ledger) WaterTotal() float64 {
	var sum float64
	for _, e := range l.Water {
		sum += e.AmountMl
	}
	return sum
}

func (l Ledger) FoodTotal() float64 {
	var sum float64
	for _, e := range l.Food {
		sum += e.Calories
	}
	return sum
}

func (l Ledger) BurnedTotal() float64 {
	var sum float64
	for _, e := range l.Workouts {
		sum += e.CaloriesBurned
	}
	return sum
}
