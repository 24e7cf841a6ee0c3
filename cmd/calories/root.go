package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"calories/internal/domain"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calories",
		Short: "Track meals and workouts against a daily calorie limit",
		Long: `calories keeps a running calorie balance: meals add to it, workouts
subtract from it, and the balance is compared with a daily limit.
State is persisted in a local bbolt file by default.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("store", "bolt", "storage backend: bolt, sqlite, postgres or memory")
	root.PersistentFlags().String("dsn", "", "file path or connection string for the store")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newRecordCmd(domain.KindMeal),
		newRecordCmd(domain.KindWorkout),
		newLimitCmd(),
		newResetCmd(),
	)
	return root
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the limit, running total and derived values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			printSnapshot(cmd.OutOrStdout(), s.tracker.Snapshot())
			return nil
		},
	}
}

func newLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limit VALUE",
		Short: "Set the daily calorie limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("limit must be an integer: %w", err)
			}
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			snap, err := s.tracker.SetLimit(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every meal and workout and zero the total (the limit is kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			snap, err := s.tracker.Reset(cmd.Context())
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func printSnapshot(w io.Writer, s domain.Snapshot) {
	_, _ = fmt.Fprintf(w, "limit:     %d\n", s.CalorieLimit)
	_, _ = fmt.Fprintf(w, "total:     %d\n", s.TotalCalories)
	_, _ = fmt.Fprintf(w, "consumed:  %d (%d meals)\n", s.Consumed, s.MealCount)
	_, _ = fmt.Fprintf(w, "burned:    %d (%d workouts)\n", s.Burned, s.WorkoutCount)
	_, _ = fmt.Fprintf(w, "remaining: %d\n", s.Remaining)
	_, _ = fmt.Fprintf(w, "progress:  %.0f%%\n", s.ProgressPercentage)
	if s.OverLimit {
		_, _ = fmt.Fprintln(w, "over limit!")
	}
}
