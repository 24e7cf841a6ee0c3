package domain

// Snapshot is the derived view of the ledger returned after every operation.
type Snapshot struct {
	CalorieLimit       int     `json:"calorieLimit"`
	TotalCalories      int     `json:"totalCalories"`
	Consumed           int     `json:"consumed"`
	Burned             int     `json:"burned"`
	Remaining          int     `json:"remaining"`
	ProgressPercentage float64 `json:"progressPercentage"`
	OverLimit          bool    `json:"overLimit"`
	MealCount          int     `json:"mealCount"`
	WorkoutCount       int     `json:"workoutCount"`
}

// SumMeals returns the calories consumed by meals.
func SumMeals(meals []Meal) int {
	total := 0
	for _, m := range meals {
		total += m.Calories
	}
	return total
}

// SumWorkouts returns the calories burned by workouts.
func SumWorkouts(workouts []Workout) int {
	total := 0
	for _, w := range workouts {
		total += w.Calories
	}
	return total
}

// ProgressPercentage returns total/limit as a percentage clamped to [0, 100].
// A limit of zero or below yields 0.
func ProgressPercentage(total, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	p := float64(total) / float64(limit) * 100
	return max(0, min(p, 100))
}

// NewSnapshot computes every derived quantity from raw ledger state.
func NewSnapshot(limit, total int, meals []Meal, workouts []Workout) Snapshot {
	remaining := limit - total
	return Snapshot{
		CalorieLimit:       limit,
		TotalCalories:      total,
		Consumed:           SumMeals(meals),
		Burned:             SumWorkouts(workouts),
		Remaining:          remaining,
		ProgressPercentage: ProgressPercentage(total, limit),
		OverLimit:          remaining <= 0,
		MealCount:          len(meals),
		WorkoutCount:       len(workouts),
	}
}
