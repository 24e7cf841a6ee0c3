package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"calories/internal/adapter/kvtest"
	"calories/internal/adapter/postgres"
	"calories/internal/domain"
)

// The suite runs against a real server only when CALORIES_TEST_POSTGRES is set.
func TestKeyValueContract(t *testing.T) {
	connStr := os.Getenv("CALORIES_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("CALORIES_TEST_POSTGRES not set")
	}

	kvtest.Run(t, func(t *testing.T) domain.KeyValue {
		db, err := postgres.Open(connStr)
		require.NoError(t, err)
		// Each subtest expects an empty table.
		require.NoError(t, db.Delete(context.Background(), "calorieLimit", "totalCalories", "meals", "workouts"))
		return db
	})
}
