package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"okrtracker/models"
)

// dryRunDB builds statements against the postgres dialect without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=okr dbname=okr sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return db
}

func TestKeyResultInsertKeepsZeroConfidence(t *testing.T) {
	kr := models.KeyResult{
		ObjectiveID: 1,
		Description: "Cut churn",
		TargetValue: 10,
		CreatedBy:   1,
		Confidence:  0,
		Status:      models.KeyResultNotStarted,
		TargetDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	tx := dryRunDB(t).Create(&kr)
	require.NoError(t, tx.Error)
	stmt := tx.Statement

	assert.Contains(t, stmt.SQL.String(), `"confidence"`)
	assert.Equal(t, 0.0, kr.Confidence)
	assert.NotContains(t, stmt.Vars, models.DefaultConfidence)
}

func TestObjectiveUpdateLeavesProgressAlone(t *testing.T) {
	objective := models.Objective{
		ID:        7,
		CompanyID: 3,
		Title:     "Grow revenue",
		Owners:    []uint{1},
		CreatedBy: 1,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Period:    []string{"Q1"},
		Progress:  42.5,
		Status:    models.ObjectiveActive,
	}

	tx := updateObjective(dryRunDB(t), &objective)
	require.NoError(t, tx.Error)
	stmt := tx.Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `UPDATE "objectives" SET`)
	assert.Contains(t, sql, `"title"`)
	assert.Contains(t, sql, `"status"`)
	assert.NotContains(t, sql, `"progress"`)
	assert.NotContains(t, sql, `"created_at"`)
	assert.Contains(t, sql, `company_id = `)
	assert.NotContains(t, stmt.Vars, 42.5)
}
