package id_test

import (
	"strings"
	"testing"

	"calories/internal/domain"
	"calories/internal/id"
)

func TestTypeIDPrefixAndUniqueness(t *testing.T) {
	gen := id.TypeID{}
	seen := make(map[string]bool)
	for range 100 {
		v := gen.NewID(domain.KindMeal)
		if !strings.HasPrefix(v, "meal_") {
			t.Fatalf("expected meal_ prefix, got %q", v)
		}
		if seen[v] {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = true
	}
	if v := gen.NewID(domain.KindWorkout); !strings.HasPrefix(v, "workout_") {
		t.Fatalf("expected workout_ prefix, got %q", v)
	}
}

func TestCounter(t *testing.T) {
	c := id.NewCounter(0)
	if got := c.NewID(domain.KindMeal); got != "meal-1" {
		t.Fatalf("got %q; want meal-1", got)
	}
	if got := c.NewID(domain.KindWorkout); got != "workout-2" {
		t.Fatalf("got %q; want workout-2", got)
	}

	c = id.NewCounter(41)
	if got := c.NewID(domain.KindMeal); got != "meal-42" {
		t.Fatalf("got %q; want meal-42", got)
	}
}
