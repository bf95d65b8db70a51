package dto

const (
	StepStatusSuccess = "success"
)

type MigrationStepResult struct {
	Step   string `json:"step"`
	Status string `json:"status"`
}

// HierarchyMigrationResult is the body of a successful hierarchy migration.
type HierarchyMigrationResult struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	CurrentState map[string]int64      `json:"currentState"`
	NewState     map[string]int64      `json:"newState"`
	Results      []MigrationStepResult `json:"results"`
}

type HierarchyMigrationErrorDTO struct {
	Error string `json:"error"`
}

// HierarchyMigrationFailureDTO lists only the steps that completed before the failure.
type HierarchyMigrationFailureDTO struct {
	Error   string                `json:"error"`
	Details string                `json:"details"`
	Results []MigrationStepResult `json:"results"`
}

type HierarchyMigrationStatusDTO struct {
	Applied      bool             `json:"applied"`
	BackupTables []string         `json:"backupTables"`
	Counts       map[string]int64 `json:"counts"`
}
