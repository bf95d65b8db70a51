package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/repositories"
	apperrors "hr-org-system/pkg/errors"
)

type fakeMigrationRepo struct {
	tables   map[string]bool
	counts   map[string]int64
	failStep string
	executed []string
	stmts    map[string][]repositories.Statement
}

func newFakeMigrationRepo() *fakeMigrationRepo {
	return &fakeMigrationRepo{
		tables: map[string]bool{"markets": true, "regions": true, "districts": true, "locations": true},
		counts: map[string]int64{"markets": 3, "regions": 5, "districts": 12, "locations": 40},
		stmts:  make(map[string][]repositories.Statement),
	}
}

func (r *fakeMigrationRepo) TableExists(_ context.Context, table string) (bool, error) {
	return r.tables[table], nil
}

func (r *fakeMigrationRepo) CountRows(_ context.Context, tables []string) (map[string]int64, error) {
	out := make(map[string]int64, len(tables))
	for _, t := range tables {
		if !r.tables[t] {
			out[t] = -1
			continue
		}
		out[t] = r.counts[t]
	}
	return out, nil
}

func (r *fakeMigrationRepo) ExecStep(_ context.Context, step string, stmts []repositories.Statement) error {
	if step == r.failStep {
		return errors.New("permission denied for table districts")
	}
	r.executed = append(r.executed, step)
	r.stmts[step] = stmts
	if step == StepCreateTables {
		r.tables["companies"] = true
		r.tables["divisions"] = true
		r.counts["companies"] = 1
		r.counts["divisions"] = 1
	}
	return nil
}

func (r *fakeMigrationRepo) ListTables(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for t := range r.tables {
		if len(t) > len(prefix) && t[:len(prefix)] == prefix {
			out = append(out, t)
		}
	}
	return out, nil
}

func testPlan() repositories.HierarchyPlan {
	return repositories.HierarchyPlan{
		BackupPrefix: "backup_",
		Seed: repositories.HierarchySeed{
			CompanyID: 1, CompanyName: "Default Company", CompanyCode: "DEFAULT",
			DivisionID: 1, DivisionName: "Default Division", DivisionCode: "DEFAULT",
		},
	}
}

func stepNames(results []dto.MigrationStepResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Step)
	}
	return out
}

func TestHierarchyMigration_Success(t *testing.T) {
	repo := newFakeMigrationRepo()
	locker := newFakeLocker()
	svc := NewHierarchyMigrationService(repo, locker, testPlan(), 0, zap.NewNop())

	result, err := svc.Migrate(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{
		StepSnapshotCounts, StepCreateTables, StepCreateBackups, StepDropConstraints, StepAddColumns,
		StepSeedDefaults, StepMigrateRelationships, StepAddConstraints, StepReportCounts,
	}, stepNames(result.Results))
	for _, r := range result.Results {
		assert.Equal(t, dto.StepStatusSuccess, r.Status)
	}

	assert.Equal(t, map[string]int64{"markets": 3, "regions": 5, "districts": 12, "locations": 40}, result.CurrentState)
	assert.EqualValues(t, 1, result.NewState["companies"])
	assert.EqualValues(t, 1, result.NewState["divisions"])

	assert.Len(t, repo.executed, 7)
	require.Len(t, repo.stmts[StepSeedDefaults], 4)
	assert.Equal(t, []interface{}{int64(1), "Default Company", "DEFAULT"}, repo.stmts[StepSeedDefaults][0].Args)

	assert.Equal(t, []string{"hierarchy-migration"}, locker.acquired)
	assert.Equal(t, []string{"hierarchy-migration"}, locker.released)
}

func TestHierarchyMigration_RefusesSecondRun(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.tables["companies"] = true
	svc := NewHierarchyMigrationService(repo, newFakeLocker(), testPlan(), 0, zap.NewNop())

	result, err := svc.Migrate(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrHierarchyAlreadyMigrated)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, repo.executed)
}

func TestHierarchyMigration_StepFailureKeepsCompletedSteps(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.failStep = StepDropConstraints
	svc := NewHierarchyMigrationService(repo, newFakeLocker(), testPlan(), 0, zap.NewNop())

	_, err := svc.Migrate(context.Background())
	require.Error(t, err)

	stepErr, ok := IsMigrationStepError(err)
	require.True(t, ok)
	assert.Equal(t, StepDropConstraints, stepErr.Step)
	assert.Equal(t, []string{StepSnapshotCounts, StepCreateTables, StepCreateBackups}, stepNames(stepErr.Results))
	assert.Contains(t, err.Error(), "permission denied")

	// completed steps stay applied, so a rerun is refused
	assert.Equal(t, []string{StepCreateTables, StepCreateBackups}, repo.executed)
	_, err = svc.Migrate(context.Background())
	assert.ErrorIs(t, err, ErrHierarchyAlreadyMigrated)
}

func TestHierarchyMigration_Locked(t *testing.T) {
	repo := newFakeMigrationRepo()
	locker := newFakeLocker()
	_, err := locker.Acquire(context.Background(), "hierarchy-migration", 0)
	require.NoError(t, err)

	svc := NewHierarchyMigrationService(repo, locker, testPlan(), 0, zap.NewNop())
	_, err = svc.Migrate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrLocked)
	assert.Empty(t, repo.executed)
}

func TestHierarchyMigration_Status(t *testing.T) {
	repo := newFakeMigrationRepo()
	svc := NewHierarchyMigrationService(repo, nil, testPlan(), 0, zap.NewNop())

	before, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, before.Applied)
	assert.Empty(t, before.BackupTables)
	assert.EqualValues(t, 12, before.Counts["districts"])

	_, err = svc.Migrate(context.Background())
	require.NoError(t, err)
	repo.tables["backup_regions"] = true

	after, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, after.Applied)
	assert.Equal(t, []string{"backup_regions"}, after.BackupTables)
	assert.EqualValues(t, 1, after.Counts["companies"])
}
