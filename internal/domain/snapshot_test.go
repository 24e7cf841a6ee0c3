package domain_test

import (
	"errors"
	"math"
	"testing"

	"calories/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name         string
		total, limit int
		want         float64
	}{
		{"empty", 0, 2000, 0},
		{"partial", 300, 2000, 15},
		{"exact", 2000, 2000, 100},
		{"over limit clamps", 2500, 2000, 100},
		{"negative total clamps", -250, 2000, 0},
		{"zero limit", 300, 0, 0},
		{"negative limit", 300, -100, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ProgressPercentage(tc.total, tc.limit)
			if math.IsNaN(got) || !almostEqual(got, tc.want, 0.001) {
				t.Errorf("ProgressPercentage(%d, %d) = %v; want %v", tc.total, tc.limit, got, tc.want)
			}
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	meals := []domain.Meal{{ID: "m1", Name: "Eggs", Calories: 300}, {ID: "m2", Name: "Toast", Calories: 200}}
	workouts := []domain.Workout{{ID: "w1", Name: "Run", Calories: 250}}

	s := domain.NewSnapshot(2000, 250, meals, workouts)
	if s.Consumed != 500 || s.Burned != 250 {
		t.Fatalf("consumed/burned = %d/%d; want 500/250", s.Consumed, s.Burned)
	}
	if s.Remaining != 1750 {
		t.Fatalf("remaining = %d; want 1750", s.Remaining)
	}
	if s.OverLimit {
		t.Fatal("expected overLimit=false")
	}
	if s.MealCount != 2 || s.WorkoutCount != 1 {
		t.Fatalf("counts = %d/%d; want 2/1", s.MealCount, s.WorkoutCount)
	}

	over := domain.NewSnapshot(500, 500, nil, nil)
	if !over.OverLimit {
		t.Fatal("expected overLimit=true when remaining is 0")
	}
}

type fixedIDs struct{}

func (fixedIDs) NewID(kind domain.Kind) string { return string(kind) + "-x" }

func TestNewMeal(t *testing.T) {
	m, err := domain.NewMeal(fixedIDs{}, "  Eggs ", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "meal-x" || m.Name != "Eggs" || m.Calories != 300 {
		t.Fatalf("unexpected meal: %+v", m)
	}

	if _, err := domain.NewWorkout(fixedIDs{}, "   ", 100); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if _, err := domain.NewMeal(fixedIDs{}, "Feast", math.MaxInt); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for huge calories, got %v", err)
	}
}

func TestValidateLimit(t *testing.T) {
	for _, limit := range []int{0, -1, 2000, domain.MaxCalories, -domain.MaxCalories} {
		if err := domain.ValidateLimit(limit); err != nil {
			t.Errorf("ValidateLimit(%d) = %v; want nil", limit, err)
		}
	}
	for _, limit := range []int{domain.MaxCalories + 1, math.MinInt, math.MaxInt} {
		if err := domain.ValidateLimit(limit); !errors.Is(err, domain.ErrInvalidLimit) {
			t.Errorf("ValidateLimit(%d) = %v; want ErrInvalidLimit", limit, err)
		}
	}
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     domain.Record
		wantErr bool
	}{
		{"valid", domain.Record{ID: "a", Name: "Eggs", Calories: 1}, false},
		{"negative calories allowed", domain.Record{ID: "a", Name: "Eggs", Calories: -5}, false},
		{"missing id", domain.Record{Name: "Eggs"}, true},
		{"missing name", domain.Record{ID: "a"}, true},
		{"calories at bound", domain.Record{ID: "a", Name: "Feast", Calories: domain.MaxCalories}, false},
		{"calories above bound", domain.Record{ID: "a", Name: "Feast", Calories: domain.MaxCalories + 1}, true},
		{"calories below bound", domain.Record{ID: "a", Name: "Ultra", Calories: -domain.MaxCalories - 1}, true},
		{"huge calories", domain.Record{ID: "a", Name: "Feast", Calories: math.MaxInt}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateRecord(tc.rec)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateRecord(%+v) err = %v; wantErr %v", tc.rec, err, tc.wantErr)
			}
		})
	}
}
