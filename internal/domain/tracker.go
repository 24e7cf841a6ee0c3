package domain

import "context"

// TrackerRepository is the port for ledger persistence.
type TrackerRepository interface {
	CalorieLimit(ctx context.Context, def int) (int, error)
	SetCalorieLimit(ctx context.Context, v int) error
	TotalCalories(ctx context.Context, def int) (int, error)
	UpdateTotalCalories(ctx context.Context, v int) error

	Meals(ctx context.Context) ([]Meal, error)
	SaveMealWithTotal(ctx context.Context, meal Meal, total int) error
	RemoveMealWithTotal(ctx context.Context, id string, total int) error

	Workouts(ctx context.Context) ([]Workout, error)
	SaveWorkoutWithTotal(ctx context.Context, workout Workout, total int) error
	RemoveWorkoutWithTotal(ctx context.Context, id string, total int) error

	ClearAll(ctx context.Context) error
}
