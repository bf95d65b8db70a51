package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/repositories"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

const (
	StepSnapshotCounts       = "snapshot_counts"
	StepCreateTables         = "create_tables"
	StepCreateBackups        = "create_backups"
	StepDropConstraints      = "drop_constraints"
	StepAddColumns           = "add_columns"
	StepSeedDefaults         = "seed_defaults"
	StepMigrateRelationships = "migrate_relationships"
	StepAddConstraints       = "add_constraints"
	StepReportCounts         = "report_counts"
)

// guardTable appears only once the migration has started.
const guardTable = "companies"

var (
	snapshotTables = []string{"markets", "regions", "districts", "locations"}
	reportTables   = []string{"companies", "divisions", "regions", "markets", "districts", "locations"}
)

var ErrHierarchyAlreadyMigrated = apperrors.NewHttpError(http.StatusBadRequest,
	"hierarchy migration already applied: table companies exists", nil, nil)

// MigrationStepError carries the failed step and the steps completed before it.
type MigrationStepError struct {
	Step    string
	Err     error
	Results []dto.MigrationStepResult
}

func (e *MigrationStepError) Error() string {
	return fmt.Sprintf("migration step %s failed: %v", e.Step, e.Err)
}

func (e *MigrationStepError) Unwrap() error { return e.Err }

type HierarchyMigrationServiceInterface interface {
	Migrate(ctx context.Context) (*dto.HierarchyMigrationResult, error)
	Status(ctx context.Context) (*dto.HierarchyMigrationStatusDTO, error)
}

type HierarchyMigrationService struct {
	repo    repositories.HierarchyMigrationRepositoryInterface
	locker  repositories.LockRepositoryInterface
	plan    repositories.HierarchyPlan
	lockTTL time.Duration
	logger  *zap.Logger
}

func NewHierarchyMigrationService(
	repo repositories.HierarchyMigrationRepositoryInterface,
	locker repositories.LockRepositoryInterface,
	plan repositories.HierarchyPlan,
	lockTTL time.Duration,
	logger *zap.Logger,
) HierarchyMigrationServiceInterface {
	if lockTTL <= 0 {
		lockTTL = 15 * time.Minute
	}
	return &HierarchyMigrationService{repo: repo, locker: locker, plan: plan, lockTTL: lockTTL, logger: logger}
}

type migrationStep struct {
	name string
	run  func(ctx context.Context) error
}

func (s *HierarchyMigrationService) exec(name string, build func() ([]repositories.Statement, error)) migrationStep {
	return migrationStep{name: name, run: func(ctx context.Context) error {
		stmts, err := build()
		if err != nil {
			return err
		}
		return s.repo.ExecStep(ctx, name, stmts)
	}}
}

func static(stmts []repositories.Statement) func() ([]repositories.Statement, error) {
	return func() ([]repositories.Statement, error) { return stmts, nil }
}

func (s *HierarchyMigrationService) Migrate(ctx context.Context) (*dto.HierarchyMigrationResult, error) {
	logger := utils.LoggerFromCtx(ctx, s.logger)

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "hierarchy-migration", s.lockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("migration lock release failed", zap.Error(err))
			}
		}()
	}

	exists, err := s.repo.TableExists(ctx, guardTable)
	if err != nil {
		return nil, fmt.Errorf("migration guard: %w", err)
	}
	if exists {
		logger.Warn("hierarchy migration refused, already applied")
		return nil, ErrHierarchyAlreadyMigrated
	}

	var currentState, newState map[string]int64
	steps := []migrationStep{
		{name: StepSnapshotCounts, run: func(ctx context.Context) (err error) {
			currentState, err = s.repo.CountRows(ctx, snapshotTables)
			return err
		}},
		s.exec(StepCreateTables, static(s.plan.CreateTables())),
		s.exec(StepCreateBackups, static(s.plan.CreateBackups())),
		s.exec(StepDropConstraints, static(s.plan.DropConstraints())),
		s.exec(StepAddColumns, static(s.plan.AddColumns())),
		s.exec(StepSeedDefaults, s.plan.SeedDefaults),
		s.exec(StepMigrateRelationships, s.plan.MigrateRelationships),
		s.exec(StepAddConstraints, static(s.plan.AddConstraints())),
		{name: StepReportCounts, run: func(ctx context.Context) (err error) {
			newState, err = s.repo.CountRows(ctx, reportTables)
			return err
		}},
	}

	results := make([]dto.MigrationStepResult, 0, len(steps))
	for _, step := range steps {
		started := time.Now()
		if err := step.run(ctx); err != nil {
			logger.Error("hierarchy migration step failed",
				zap.String("step", step.name),
				zap.Int("completed", len(results)),
				zap.Error(err))
			return nil, &MigrationStepError{Step: step.name, Err: err, Results: results}
		}
		results = append(results, dto.MigrationStepResult{Step: step.name, Status: dto.StepStatusSuccess})
		logger.Info("hierarchy migration step done",
			zap.String("step", step.name),
			zap.Duration("took", time.Since(started)))
	}

	return &dto.HierarchyMigrationResult{
		Success:      true,
		Message:      "hierarchy migrated to company > division > region > market > district",
		CurrentState: currentState,
		NewState:     newState,
		Results:      results,
	}, nil
}

func (s *HierarchyMigrationService) Status(ctx context.Context) (*dto.HierarchyMigrationStatusDTO, error) {
	applied, err := s.repo.TableExists(ctx, guardTable)
	if err != nil {
		return nil, err
	}
	backups, err := s.repo.ListTables(ctx, s.plan.BackupPrefix)
	if err != nil {
		return nil, err
	}
	tables := snapshotTables
	if applied {
		tables = reportTables
	}
	counts, err := s.repo.CountRows(ctx, tables)
	if err != nil {
		return nil, err
	}
	return &dto.HierarchyMigrationStatusDTO{Applied: applied, BackupTables: backups, Counts: counts}, nil
}

// IsMigrationStepError reports whether err came from a failed step.
func IsMigrationStepError(err error) (*MigrationStepError, bool) {
	var stepErr *MigrationStepError
	if errors.As(err, &stepErr) {
		return stepErr, true
	}
	return nil, false
}
