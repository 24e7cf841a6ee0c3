package storage_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"calories/internal/adapter/memory"
	"calories/internal/domain"
	"calories/internal/storage"
)

type mockKV struct {
	getFn   func(ctx context.Context, key string) (string, bool, error)
	applyFn func(ctx context.Context, ops ...domain.Op) error
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", false, nil
}

func (m *mockKV) Set(ctx context.Context, key, value string) error {
	return m.Apply(ctx, domain.SetOp(key, value))
}

func (m *mockKV) Delete(ctx context.Context, keys ...string) error {
	ops := make([]domain.Op, 0, len(keys))
	for _, k := range keys {
		ops = append(ops, domain.DeleteOp(k))
	}
	return m.Apply(ctx, ops...)
}

func (m *mockKV) Apply(ctx context.Context, ops ...domain.Op) error {
	if m.applyFn != nil {
		return m.applyFn(ctx, ops...)
	}
	return nil
}

func (m *mockKV) Close() error { return nil }

func TestDefaults(t *testing.T) {
	s := storage.New(memory.New())
	ctx := context.Background()

	limit, err := s.CalorieLimit(ctx, 2000)
	if err != nil || limit != 2000 {
		t.Fatalf("CalorieLimit = %d, %v; want 2000", limit, err)
	}
	total, err := s.TotalCalories(ctx, 0)
	if err != nil || total != 0 {
		t.Fatalf("TotalCalories = %d, %v; want 0", total, err)
	}
	meals, err := s.Meals(ctx)
	if err != nil || meals == nil || len(meals) != 0 {
		t.Fatalf("Meals = %v, %v; want empty non-nil", meals, err)
	}
	workouts, err := s.Workouts(ctx)
	if err != nil || workouts == nil || len(workouts) != 0 {
		t.Fatalf("Workouts = %v, %v; want empty non-nil", workouts, err)
	}
}

func TestPersistedFormat(t *testing.T) {
	kv := memory.New()
	s := storage.New(kv)
	ctx := context.Background()

	if err := s.SetCalorieLimit(ctx, 1800); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMealWithTotal(ctx, domain.Meal{ID: "m1", Name: "Eggs", Calories: 300}, 300); err != nil {
		t.Fatal(err)
	}

	got := kv.Dump()
	want := map[string]string{
		"calorieLimit":  "1800",
		"totalCalories": "300",
		"meals":         `[{"id":"m1","name":"Eggs","calories":300}]`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted entries = %v; want %v", got, want)
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	kv := memory.New()
	s := storage.New(kv)
	ctx := context.Background()

	meals := []domain.Meal{
		{ID: "m1", Name: "Eggs", Calories: 300},
		{ID: "m2", Name: "Toast", Calories: 150},
		{ID: "m3", Name: "Eggs", Calories: 300},
	}
	for _, m := range meals {
		if err := s.SaveMeal(ctx, m); err != nil {
			t.Fatalf("SaveMeal: %v", err)
		}
	}
	if err := s.SaveWorkout(ctx, domain.Workout{ID: "w1", Name: "Run", Calories: 250}); err != nil {
		t.Fatalf("SaveWorkout: %v", err)
	}
	if err := s.UpdateTotalCalories(ctx, 500); err != nil {
		t.Fatalf("UpdateTotalCalories: %v", err)
	}

	reopened := storage.New(kv)
	gotMeals, err := reopened.Meals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotMeals, meals) {
		t.Fatalf("Meals = %v; want %v", gotMeals, meals)
	}
	gotWorkouts, _ := reopened.Workouts(ctx)
	if len(gotWorkouts) != 1 || gotWorkouts[0].ID != "w1" {
		t.Fatalf("Workouts = %v", gotWorkouts)
	}
	total, _ := reopened.TotalCalories(ctx, 0)
	if total != 500 {
		t.Fatalf("TotalCalories = %d; want 500", total)
	}
}

func TestRemove(t *testing.T) {
	s := storage.New(memory.New())
	ctx := context.Background()

	_ = s.SaveMeal(ctx, domain.Meal{ID: "m1", Name: "Eggs", Calories: 300})
	_ = s.SaveMeal(ctx, domain.Meal{ID: "m2", Name: "Toast", Calories: 150})
	_ = s.SaveWorkout(ctx, domain.Workout{ID: "w1", Name: "Run", Calories: 250})

	if err := s.RemoveMeal(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveMeal(ctx, "missing"); err != nil {
		t.Fatalf("removing unknown id should not fail: %v", err)
	}
	if err := s.RemoveWorkoutWithTotal(ctx, "w1", 150); err != nil {
		t.Fatal(err)
	}

	meals, _ := s.Meals(ctx)
	if len(meals) != 1 || meals[0].ID != "m2" {
		t.Fatalf("Meals = %v; want [m2]", meals)
	}
	workouts, _ := s.Workouts(ctx)
	if len(workouts) != 0 {
		t.Fatalf("Workouts = %v; want empty", workouts)
	}
	total, _ := s.TotalCalories(ctx, 0)
	if total != 150 {
		t.Fatalf("TotalCalories = %d; want 150", total)
	}
}

func TestClearAllKeepsLimit(t *testing.T) {
	kv := memory.New()
	s := storage.New(kv)
	ctx := context.Background()

	_ = s.SetCalorieLimit(ctx, 2500)
	_ = s.SaveMealWithTotal(ctx, domain.Meal{ID: "m1", Name: "Eggs", Calories: 300}, 300)
	_ = s.SaveWorkout(ctx, domain.Workout{ID: "w1", Name: "Run", Calories: 250})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	got := kv.Dump()
	if !reflect.DeepEqual(got, map[string]string{"calorieLimit": "2500"}) {
		t.Fatalf("after ClearAll entries = %v", got)
	}
}

func TestCorruptValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
		read func(s *storage.Storage) error
	}{
		{"limit", "calorieLimit", "abc", func(s *storage.Storage) error {
			_, err := s.CalorieLimit(context.Background(), 2000)
			return err
		}},
		{"total", "totalCalories", "12.5", func(s *storage.Storage) error {
			_, err := s.TotalCalories(context.Background(), 0)
			return err
		}},
		{"meals", "meals", "{not json", func(s *storage.Storage) error {
			_, err := s.Meals(context.Background())
			return err
		}},
		{"workouts on save", "workouts", `{"id":1}`, func(s *storage.Storage) error {
			return s.SaveWorkout(context.Background(), domain.Workout{ID: "w1", Name: "Run"})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kv := memory.New()
			_ = kv.Set(context.Background(), tc.key, tc.raw)
			err := tc.read(storage.New(kv))
			if !errors.Is(err, domain.ErrPersistenceCorrupt) {
				t.Fatalf("expected ErrPersistenceCorrupt, got %v", err)
			}
		})
	}
}

func TestAtomicWritesUseOneBatch(t *testing.T) {
	var batches [][]domain.Op
	kv := &mockKV{
		applyFn: func(_ context.Context, ops ...domain.Op) error {
			batches = append(batches, ops)
			return nil
		},
	}
	s := storage.New(kv)

	if err := s.SaveWorkoutWithTotal(context.Background(), domain.Workout{ID: "w1", Name: "Run", Calories: 250}, -250); err != nil {
		t.Fatal(err)
	}
	if len(batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(batches))
	}
	want := []domain.Op{
		domain.SetOp("workouts", `[{"id":"w1","name":"Run","calories":250}]`),
		domain.SetOp("totalCalories", "-250"),
	}
	if !reflect.DeepEqual(batches[0], want) {
		t.Fatalf("batch = %v; want %v", batches[0], want)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk full")
	kv := &mockKV{
		applyFn: func(context.Context, ...domain.Op) error { return boom },
	}
	err := storage.New(kv).SaveMeal(context.Background(), domain.Meal{ID: "m1", Name: "Eggs"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}

	kv.getFn = func(context.Context, string) (string, bool, error) { return "", false, boom }
	if _, err := storage.New(kv).CalorieLimit(context.Background(), 2000); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
