package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"calories/internal/domain"
	"calories/internal/id"
)

// newRecordCmd builds the "meal" or "workout" command group.
func newRecordCmd(kind domain.Kind) *cobra.Command {
	group := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Add, remove or list %ss", kind),
	}

	add := &cobra.Command{
		Use:   "add NAME CALORIES",
		Short: fmt.Sprintf("Record a %s", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calories, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("calories must be an integer: %w", err)
			}
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			var (
				recID string
				snap  domain.Snapshot
			)
			if kind == domain.KindMeal {
				m, err := domain.NewMeal(id.Default, args[0], calories)
				if err != nil {
					return err
				}
				recID = m.ID
				if snap, err = s.tracker.AddMeal(cmd.Context(), m); err != nil {
					return err
				}
			} else {
				w, err := domain.NewWorkout(id.Default, args[0], calories)
				if err != nil {
					return err
				}
				recID = w.ID
				if snap, err = s.tracker.AddWorkout(cmd.Context(), w); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", kind, recID)
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   fmt.Sprintf("Remove a %s by id", kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			var (
				found bool
				snap  domain.Snapshot
			)
			if kind == domain.KindMeal {
				found, snap, err = s.tracker.RemoveMeal(cmd.Context(), args[0])
			} else {
				found, snap, err = s.tracker.RemoveWorkout(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s %q not found", kind, args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s %s\n", kind, args[0])
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   fmt.Sprintf("List %ss", kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			var records []domain.Record
			if kind == domain.KindMeal {
				for _, m := range s.tracker.FilterMeals(filter) {
					records = append(records, domain.Record(m))
				}
			} else {
				for _, w := range s.tracker.FilterWorkouts(filter) {
					records = append(records, domain.Record(w))
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tCALORIES")
			for _, r := range records {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.Name, r.Calories)
			}
			return tw.Flush()
		},
	}
	ls.Flags().String("filter", "", "only show names containing this text (case-insensitive)")

	group.AddCommand(add, rm, ls)
	return group
}
