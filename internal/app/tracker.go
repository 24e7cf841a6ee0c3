// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"calories/internal/domain"
)

// DefaultCalorieLimit applies when no limit has been persisted.
const DefaultCalorieLimit = 2000

// CalorieTracker is the calorie ledger. It keeps the running total consistent
// with the meal and workout lists and writes every change through to the
// repository before committing it in memory.
type CalorieTracker struct {
	repo   domain.TrackerRepository
	logger *slog.Logger

	mu       sync.Mutex
	limit    int
	total    int
	meals    []domain.Meal
	workouts []domain.Workout
	// seq counts committed changes; it orders events.
	seq uint64

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	defaultLimit int
}

// Option configures a CalorieTracker.
type Option func(*CalorieTracker)

// WithLogger sets the tracker logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *CalorieTracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithDefaultLimit sets the limit used when none is stored.
func WithDefaultLimit(limit int) Option {
	return func(t *CalorieTracker) { t.defaultLimit = limit }
}

// NewCalorieTracker loads ledger state from repo.
//
// The persisted running total is checked against the lists; when they
// disagree the lists win and the corrected total is written back.
func NewCalorieTracker(ctx context.Context, repo domain.TrackerRepository, opts ...Option) (*CalorieTracker, error) {
	t := &CalorieTracker{
		repo:         repo,
		logger:       slog.New(slog.DiscardHandler),
		subs:         make(map[int]func(Event)),
		defaultLimit: DefaultCalorieLimit,
	}
	for _, opt := range opts {
		opt(t)
	}

	var err error
	if t.limit, err = repo.CalorieLimit(ctx, t.defaultLimit); err != nil {
		return nil, fmt.Errorf("load calorie limit: %w", err)
	}
	if t.total, err = repo.TotalCalories(ctx, 0); err != nil {
		return nil, fmt.Errorf("load total calories: %w", err)
	}
	if t.meals, err = repo.Meals(ctx); err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	if t.workouts, err = repo.Workouts(ctx); err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	if derived := domain.SumMeals(t.meals) - domain.SumWorkouts(t.workouts); derived != t.total {
		t.logger.Warn("persisted total out of sync, repairing",
			"persisted", t.total, "derived", derived)
		if err := repo.UpdateTotalCalories(ctx, derived); err != nil {
			return nil, fmt.Errorf("repair total calories: %w", err)
		}
		t.total = derived
	}

	t.logger.Debug("tracker loaded",
		"limit", t.limit, "total", t.total, "meals", len(t.meals), "workouts", len(t.workouts))
	return t, nil
}

// AddMeal records a meal and adds its calories to the running total.
func (t *CalorieTracker) AddMeal(ctx context.Context, meal domain.Meal) (domain.Snapshot, error) {
	if err := domain.ValidateRecord(domain.Record(meal)); err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	if slices.ContainsFunc(t.meals, func(m domain.Meal) bool { return m.ID == meal.ID }) {
		t.mu.Unlock()
		return t.Snapshot(), fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, meal.ID)
	}
	total := t.total + meal.Calories
	if err := t.repo.SaveMealWithTotal(ctx, meal, total); err != nil {
		t.mu.Unlock()
		return t.Snapshot(), err
	}
	t.meals = append(t.meals, meal)
	t.total = total
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("meal added", "id", meal.ID, "calories", meal.Calories, "total", snap.TotalCalories)
	t.publish(Event{Type: EventRecordAdded, Kind: domain.KindMeal, Record: domain.Record(meal), Snapshot: snap, Seq: seq})
	return snap, nil
}

// AddWorkout records a workout and subtracts its calories from the running total.
func (t *CalorieTracker) AddWorkout(ctx context.Context, workout domain.Workout) (domain.Snapshot, error) {
	if err := domain.ValidateRecord(domain.Record(workout)); err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	if slices.ContainsFunc(t.workouts, func(w domain.Workout) bool { return w.ID == workout.ID }) {
		t.mu.Unlock()
		return t.Snapshot(), fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, workout.ID)
	}
	total := t.total - workout.Calories
	if err := t.repo.SaveWorkoutWithTotal(ctx, workout, total); err != nil {
		t.mu.Unlock()
		return t.Snapshot(), err
	}
	t.workouts = append(t.workouts, workout)
	t.total = total
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("workout added", "id", workout.ID, "calories", workout.Calories, "total", snap.TotalCalories)
	t.publish(Event{Type: EventRecordAdded, Kind: domain.KindWorkout, Record: domain.Record(workout), Snapshot: snap, Seq: seq})
	return snap, nil
}

// RemoveMeal deletes the meal with id. It reports false, and changes
// nothing, when no such meal exists.
func (t *CalorieTracker) RemoveMeal(ctx context.Context, id string) (bool, domain.Snapshot, error) {
	t.mu.Lock()
	idx := slices.IndexFunc(t.meals, func(m domain.Meal) bool { return m.ID == id })
	if idx == -1 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return false, snap, nil
	}
	meal := t.meals[idx]
	total := t.total - meal.Calories
	if err := t.repo.RemoveMealWithTotal(ctx, id, total); err != nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return false, snap, err
	}
	t.meals = slices.Delete(t.meals, idx, idx+1)
	t.total = total
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("meal removed", "id", id, "total", snap.TotalCalories)
	t.publish(Event{Type: EventRecordRemoved, Kind: domain.KindMeal, Record: domain.Record(meal), Snapshot: snap, Seq: seq})
	return true, snap, nil
}

// RemoveWorkout deletes the workout with id. It reports false, and changes
// nothing, when no such workout exists.
func (t *CalorieTracker) RemoveWorkout(ctx context.Context, id string) (bool, domain.Snapshot, error) {
	t.mu.Lock()
	idx := slices.IndexFunc(t.workouts, func(w domain.Workout) bool { return w.ID == id })
	if idx == -1 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return false, snap, nil
	}
	workout := t.workouts[idx]
	total := t.total + workout.Calories
	if err := t.repo.RemoveWorkoutWithTotal(ctx, id, total); err != nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return false, snap, err
	}
	t.workouts = slices.Delete(t.workouts, idx, idx+1)
	t.total = total
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("workout removed", "id", id, "total", snap.TotalCalories)
	t.publish(Event{Type: EventRecordRemoved, Kind: domain.KindWorkout, Record: domain.Record(workout), Snapshot: snap, Seq: seq})
	return true, snap, nil
}

// SetLimit replaces the daily calorie limit. The running total is unchanged.
func (t *CalorieTracker) SetLimit(ctx context.Context, limit int) (domain.Snapshot, error) {
	if err := domain.ValidateLimit(limit); err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	if err := t.repo.SetCalorieLimit(ctx, limit); err != nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, err
	}
	t.limit = limit
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("limit changed", "limit", limit)
	t.publish(Event{Type: EventLimitChanged, Snapshot: snap, Seq: seq})
	return snap, nil
}

// Reset empties both lists and zeroes the total. The limit is kept.
func (t *CalorieTracker) Reset(ctx context.Context) (domain.Snapshot, error) {
	t.mu.Lock()
	if err := t.repo.ClearAll(ctx); err != nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, err
	}
	t.total = 0
	t.meals = []domain.Meal{}
	t.workouts = []domain.Workout{}
	t.seq++
	snap, seq := t.snapshotLocked(), t.seq
	t.mu.Unlock()

	t.logger.Debug("tracker reset")
	t.publish(Event{Type: EventReset, Snapshot: snap, Seq: seq})
	return snap, nil
}

// LoadItems re-publishes a record_added event, marked as a replay, for every
// loaded meal and then every loaded workout. State is not modified.
func (t *CalorieTracker) LoadItems() {
	t.mu.Lock()
	snap, seq := t.snapshotLocked(), t.seq
	events := make([]Event, 0, len(t.meals)+len(t.workouts))
	for _, m := range t.meals {
		events = append(events, Event{Type: EventRecordAdded, Kind: domain.KindMeal, Record: domain.Record(m), Snapshot: snap, Seq: seq, Replay: true})
	}
	for _, w := range t.workouts {
		events = append(events, Event{Type: EventRecordAdded, Kind: domain.KindWorkout, Record: domain.Record(w), Snapshot: snap, Seq: seq, Replay: true})
	}
	t.mu.Unlock()

	t.publish(events...)
}

// CalorieLimit returns the daily limit.
func (t *CalorieTracker) CalorieLimit() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limit
}

// TotalCalories returns the running total.
func (t *CalorieTracker) TotalCalories() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Meals returns a copy of the meals in insertion order.
func (t *CalorieTracker) Meals() []domain.Meal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.meals)
}

// Workouts returns a copy of the workouts in insertion order.
func (t *CalorieTracker) Workouts() []domain.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.workouts)
}

// FilterMeals returns the meals whose name contains q, ignoring case.
func (t *CalorieTracker) FilterMeals(q string) []domain.Meal {
	meals := t.Meals()
	return slices.DeleteFunc(meals, func(m domain.Meal) bool { return !nameMatches(m.Name, q) })
}

// FilterWorkouts returns the workouts whose name contains q, ignoring case.
func (t *CalorieTracker) FilterWorkouts(q string) []domain.Workout {
	workouts := t.Workouts()
	return slices.DeleteFunc(workouts, func(w domain.Workout) bool { return !nameMatches(w.Name, q) })
}

// Consumed is the sum of meal calories.
func (t *CalorieTracker) Consumed() int { return t.Snapshot().Consumed }

// Burned is the sum of workout calories.
func (t *CalorieTracker) Burned() int { return t.Snapshot().Burned }

// Remaining is the limit minus the running total.
func (t *CalorieTracker) Remaining() int { return t.Snapshot().Remaining }

// ProgressPercentage is total/limit in percent, clamped to [0, 100]; 0 when
// the limit is not positive.
func (t *CalorieTracker) ProgressPercentage() float64 { return t.Snapshot().ProgressPercentage }

// OverLimit reports whether nothing remains of the limit.
func (t *CalorieTracker) OverLimit() bool { return t.Snapshot().OverLimit }

// Snapshot returns every derived quantity for the current state.
func (t *CalorieTracker) Snapshot() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// SnapshotSeq returns the current snapshot together with the sequence number
// of the last committed change, for listeners that prime state before
// subscribing.
func (t *CalorieTracker) SnapshotSeq() (domain.Snapshot, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(), t.seq
}

func (t *CalorieTracker) snapshotLocked() domain.Snapshot {
	return domain.NewSnapshot(t.limit, t.total, t.meals, t.workouts)
}

func nameMatches(name, q string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(q))
}
