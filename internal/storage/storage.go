// Package storage persists the tracker ledger into a domain.KeyValue store.
//
// The four entries use fixed keys. Numbers are stored as decimal text and the
// record lists as JSON arrays of {id, name, calories}; each list is read and
// rewritten as a whole on every change.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"calories/internal/domain"
)

// Keys of the persisted entries.
const (
	KeyCalorieLimit  = "calorieLimit"
	KeyTotalCalories = "totalCalories"
	KeyMeals         = "meals"
	KeyWorkouts      = "workouts"
)

// record is the constraint shared by Meal and Workout.
type record interface {
	domain.Meal | domain.Workout
	RecordID() string
}

// Storage is the persistence adapter for the tracker.
type Storage struct {
	kv domain.KeyValue
}

// New wraps kv. The caller keeps ownership of kv and closes it.
func New(kv domain.KeyValue) *Storage {
	return &Storage{kv: kv}
}

// CalorieLimit returns the stored limit or def when none is stored.
func (s *Storage) CalorieLimit(ctx context.Context, def int) (int, error) {
	return s.getInt(ctx, KeyCalorieLimit, def)
}

// SetCalorieLimit stores the limit.
func (s *Storage) SetCalorieLimit(ctx context.Context, v int) error {
	if err := s.kv.Set(ctx, KeyCalorieLimit, strconv.Itoa(v)); err != nil {
		return fmt.Errorf("storage: set calorie limit: %w", err)
	}
	return nil
}

// TotalCalories returns the stored running total or def when none is stored.
func (s *Storage) TotalCalories(ctx context.Context, def int) (int, error) {
	return s.getInt(ctx, KeyTotalCalories, def)
}

// UpdateTotalCalories stores the running total.
func (s *Storage) UpdateTotalCalories(ctx context.Context, v int) error {
	if err := s.kv.Set(ctx, KeyTotalCalories, strconv.Itoa(v)); err != nil {
		return fmt.Errorf("storage: update total calories: %w", err)
	}
	return nil
}

// Meals returns the stored meals in insertion order.
func (s *Storage) Meals(ctx context.Context) ([]domain.Meal, error) {
	return getList[domain.Meal](ctx, s.kv, KeyMeals)
}

// Workouts returns the stored workouts in insertion order.
func (s *Storage) Workouts(ctx context.Context) ([]domain.Workout, error) {
	return getList[domain.Workout](ctx, s.kv, KeyWorkouts)
}

// SaveMeal appends meal to the stored list.
func (s *Storage) SaveMeal(ctx context.Context, meal domain.Meal) error {
	return s.wrap("save meal", saveItem(ctx, s.kv, KeyMeals, meal, nil))
}

// SaveWorkout appends workout to the stored list.
func (s *Storage) SaveWorkout(ctx context.Context, workout domain.Workout) error {
	return s.wrap("save workout", saveItem(ctx, s.kv, KeyWorkouts, workout, nil))
}

// RemoveMeal drops every stored meal with the given id.
func (s *Storage) RemoveMeal(ctx context.Context, id string) error {
	return s.wrap("remove meal", removeItem[domain.Meal](ctx, s.kv, KeyMeals, id, nil))
}

// RemoveWorkout drops every stored workout with the given id.
func (s *Storage) RemoveWorkout(ctx context.Context, id string) error {
	return s.wrap("remove workout", removeItem[domain.Workout](ctx, s.kv, KeyWorkouts, id, nil))
}

// SaveMealWithTotal appends meal and stores total in one atomic write.
func (s *Storage) SaveMealWithTotal(ctx context.Context, meal domain.Meal, total int) error {
	return s.wrap("save meal", saveItem(ctx, s.kv, KeyMeals, meal, totalOp(total)))
}

// SaveWorkoutWithTotal appends workout and stores total in one atomic write.
func (s *Storage) SaveWorkoutWithTotal(ctx context.Context, workout domain.Workout, total int) error {
	return s.wrap("save workout", saveItem(ctx, s.kv, KeyWorkouts, workout, totalOp(total)))
}

// RemoveMealWithTotal drops the meal and stores total in one atomic write.
func (s *Storage) RemoveMealWithTotal(ctx context.Context, id string, total int) error {
	return s.wrap("remove meal", removeItem[domain.Meal](ctx, s.kv, KeyMeals, id, totalOp(total)))
}

// RemoveWorkoutWithTotal drops the workout and stores total in one atomic write.
func (s *Storage) RemoveWorkoutWithTotal(ctx context.Context, id string, total int) error {
	return s.wrap("remove workout", removeItem[domain.Workout](ctx, s.kv, KeyWorkouts, id, totalOp(total)))
}

// ClearAll removes the total and both lists. The calorie limit is kept.
func (s *Storage) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyTotalCalories, KeyMeals, KeyWorkouts); err != nil {
		return fmt.Errorf("storage: clear all: %w", err)
	}
	return nil
}

func (s *Storage) getInt(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("storage: get %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrPersistenceCorrupt, key, raw)
	}
	return n, nil
}

func (s *Storage) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("storage: %s: %w", op, err)
}

func totalOp(total int) *domain.Op {
	op := domain.SetOp(KeyTotalCalories, strconv.Itoa(total))
	return &op
}

func getList[T record](ctx context.Context, kv domain.KeyValue, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPersistenceCorrupt, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func putList[T record](key string, items []T, extra *domain.Op) ([]domain.Op, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	ops := []domain.Op{domain.SetOp(key, string(b))}
	if extra != nil {
		ops = append(ops, *extra)
	}
	return ops, nil
}

func saveItem[T record](ctx context.Context, kv domain.KeyValue, key string, item T, extra *domain.Op) error {
	items, err := getList[T](ctx, kv, key)
	if err != nil {
		return err
	}
	ops, err := putList(key, append(items, item), extra)
	if err != nil {
		return err
	}
	return kv.Apply(ctx, ops...)
}

func removeItem[T record](ctx context.Context, kv domain.KeyValue, key, id string, extra *domain.Op) error {
	items, err := getList[T](ctx, kv, key)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	ops, err := putList(key, kept, extra)
	if err != nil {
		return err
	}
	return kv.Apply(ctx, ops...)
}

var _ domain.TrackerRepository = (*Storage)(nil)
