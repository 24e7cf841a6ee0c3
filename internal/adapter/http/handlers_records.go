package adapthttp

import (
	"errors"
	"fmt"
	"net/http"

	"calories/internal/domain"
)

func (s *Server) handleList(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		var items any
		if kind == domain.KindMeal {
			items = s.tracker.FilterMeals(q)
		} else {
			items = s.tracker.FilterWorkouts(q)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (s *Server) handleCreate(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name     string `json:"name"`
			Calories *int   `json:"calories"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.Calories == nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: calories is required", domain.ErrInvalidRecord))
			return
		}

		var (
			item any
			snap domain.Snapshot
			err  error
		)
		if kind == domain.KindMeal {
			var m domain.Meal
			if m, err = domain.NewMeal(s.ids, body.Name, *body.Calories); err == nil {
				item = m
				snap, err = s.tracker.AddMeal(r.Context(), m)
			}
		} else {
			var wk domain.Workout
			if wk, err = domain.NewWorkout(s.ids, body.Name, *body.Calories); err == nil {
				item = wk
				snap, err = s.tracker.AddWorkout(r.Context(), wk)
			}
		}
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"item": item, "snapshot": snap})
	}
}

func (s *Server) handleRemove(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var (
			removed bool
			snap    domain.Snapshot
			err     error
		)
		if kind == domain.KindMeal {
			removed, snap, err = s.tracker.RemoveMeal(r.Context(), id)
		} else {
			removed, snap, err = s.tracker.RemoveWorkout(r.Context(), id)
		}
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, errors.New(string(kind)+" not found"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"removed": true, "snapshot": snap})
	}
}
