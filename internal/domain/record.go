// Package domain contains the core business entities and interfaces.
package domain

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two record variants kept by the ledger.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// MaxCalories bounds the magnitude of a record's calories and of the
// calorie limit, keeping every running total far from int overflow.
const MaxCalories = 1_000_000

// Record is the shared shape of a meal or workout entry.
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Meal is a record whose calories count toward the running total.
type Meal Record

// Workout is a record whose calories are subtracted from the running total.
type Workout Record

// RecordID returns the meal identifier.
func (m Meal) RecordID() string { return m.ID }

// RecordID returns the workout identifier.
func (w Workout) RecordID() string { return w.ID }

// IDGenerator is the single construction point for record identifiers.
type IDGenerator interface {
	NewID(kind Kind) string
}

// NewMeal builds a meal with a freshly generated id.
func NewMeal(gen IDGenerator, name string, calories int) (Meal, error) {
	name, err := recordName(name)
	if err != nil {
		return Meal{}, err
	}
	if err := checkCalories(calories); err != nil {
		return Meal{}, err
	}
	return Meal{ID: gen.NewID(KindMeal), Name: name, Calories: calories}, nil
}

// NewWorkout builds a workout with a freshly generated id.
func NewWorkout(gen IDGenerator, name string, calories int) (Workout, error) {
	name, err := recordName(name)
	if err != nil {
		return Workout{}, err
	}
	if err := checkCalories(calories); err != nil {
		return Workout{}, err
	}
	return Workout{ID: gen.NewID(KindWorkout), Name: name, Calories: calories}, nil
}

// ValidateRecord performs the checks applied at the ledger boundary.
func ValidateRecord(r Record) error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if _, err := recordName(r.Name); err != nil {
		return err
	}
	return checkCalories(r.Calories)
}

// ValidateLimit rejects limits whose magnitude exceeds MaxCalories.
func ValidateLimit(limit int) error {
	if limit < -MaxCalories || limit > MaxCalories {
		return fmt.Errorf("%w: %d is outside ±%d", ErrInvalidLimit, limit, MaxCalories)
	}
	return nil
}

func checkCalories(calories int) error {
	if calories < -MaxCalories || calories > MaxCalories {
		return fmt.Errorf("%w: calories %d outside ±%d", ErrInvalidRecord, calories, MaxCalories)
	}
	return nil
}

func recordName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	return name, nil
}
