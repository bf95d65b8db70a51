package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	"hr-org-system/internal/repositories"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

type ImportServiceInterface interface {
	Import(ctx context.Context, entity dto.ImportEntityType, mode dto.ImportMode, file *ParsedFile) (*dto.ImportResult, error)
}

type RowValidator interface {
	Validate(i interface{}) error
}

type ImportOptions struct {
	DefaultUserTypeID int64
	LockTTL           time.Duration
	MaxErrors         int
}

type ImportService struct {
	txManager     repositories.TxManagerInterface
	referenceRepo repositories.ReferenceRepositoryInterface
	addressRepo   repositories.AddressRepositoryInterface
	locationRepo  repositories.LocationRepositoryInterface
	employeeRepo  repositories.EmployeeRepositoryInterface
	assignments   AssignmentServiceInterface
	locker        repositories.LockRepositoryInterface
	validator     RowValidator
	opts          ImportOptions
	logger        *zap.Logger
}

func NewImportService(
	txManager repositories.TxManagerInterface,
	referenceRepo repositories.ReferenceRepositoryInterface,
	addressRepo repositories.AddressRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	assignments AssignmentServiceInterface,
	locker repositories.LockRepositoryInterface,
	rowValidator RowValidator,
	opts ImportOptions,
	logger *zap.Logger,
) ImportServiceInterface {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &ImportService{
		txManager:     txManager,
		referenceRepo: referenceRepo,
		addressRepo:   addressRepo,
		locationRepo:  locationRepo,
		employeeRepo:  employeeRepo,
		assignments:   assignments,
		locker:        locker,
		validator:     rowValidator,
		opts:          opts,
		logger:        logger,
	}
}

// fkRule ties an import column to the table its value must exist in.
type fkRule struct {
	Column string
	Table  repositories.ReferenceTable
	Hint   string
}

var (
	fkDistrict          = fkRule{"district_id", repositories.RefDistricts, "create or import the district first"}
	fkLocationManager   = fkRule{"manager_employee_id", repositories.RefEmployees, "import employees before locations"}
	fkUserType          = fkRule{"user_type_id", repositories.RefUserTypes, "seed user types first"}
	fkTerminationReason = fkRule{"termination_reason_id", repositories.RefTerminationReasons, "seed termination reasons first"}
	fkLocation          = fkRule{"location_id", repositories.RefLocations, "import locations before employees"}
	fkJobTitle          = fkRule{"job_title_id", repositories.RefJobTitles, "seed job titles first"}
	fkSupervisor        = fkRule{"supervisor_employee_id", repositories.RefEmployees, "import the supervisor first"}
)

type rowRef struct {
	rule  fkRule
	value null.Int64
}

// importRow is one decoded row waiting for the write phase.
type importRow struct {
	key     string
	id      int64
	err     error
	refs    []rowRef
	address *entities.Address
	write   func(ctx context.Context, tx pgx.Tx, addressID null.Int64) error
	// after runs outside the row transaction; its failure is only a warning
	after func(ctx context.Context) error
	// provides is the table this row adds its id to once written
	provides repositories.ReferenceTable
}

func (s *ImportService) Import(ctx context.Context, entity dto.ImportEntityType, mode dto.ImportMode, file *ParsedFile) (*dto.ImportResult, error) {
	logger := utils.LoggerFromCtx(ctx, s.logger).With(zap.String("entity", string(entity)), zap.String("mode", string(mode)))
	if !entity.Valid() {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("unsupported import type %q", entity), nil, nil)
	}
	if mode == "" {
		mode = dto.ImportModeInsert
	}
	if !mode.Valid() {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("unsupported import mode %q", mode), nil, nil)
	}
	if file == nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "no file provided", nil, nil)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "import:"+string(entity), s.opts.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("import lock release failed", zap.Error(err))
			}
		}()
	}

	logger.Info("import started", zap.Int("rows", len(file.Records)))

	rows := make([]*importRow, 0, len(file.Records))
	for i, rec := range file.Records {
		switch entity {
		case dto.ImportLocations:
			rows = append(rows, s.prepareLocation(i+1, rec))
		case dto.ImportEmployees:
			rows = append(rows, s.prepareEmployee(i+1, rec))
		}
	}

	valid, err := s.prevalidate(ctx, rows)
	if err != nil {
		logger.Error("foreign key pre-validation failed", zap.Error(err))
		return nil, fmt.Errorf("foreign key pre-validation: %w", err)
	}

	result := dto.NewImportResult()
	for _, row := range rows {
		s.applyRow(ctx, logger, row, mode, valid, result)
	}

	s.truncateErrors(result)
	logger.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// prevalidate issues one existence query per referenced table.
func (s *ImportService) prevalidate(ctx context.Context, rows []*importRow) (map[repositories.ReferenceTable]map[int64]struct{}, error) {
	wanted := make(map[repositories.ReferenceTable]map[int64]struct{})
	for _, row := range rows {
		if row.err != nil {
			continue
		}
		for _, ref := range row.refs {
			if !ref.value.Valid {
				continue
			}
			if wanted[ref.rule.Table] == nil {
				wanted[ref.rule.Table] = make(map[int64]struct{})
			}
			wanted[ref.rule.Table][ref.value.Int64] = struct{}{}
		}
	}

	tables := make([]string, 0, len(wanted))
	for table := range wanted {
		tables = append(tables, string(table))
	}
	sort.Strings(tables)

	valid := make(map[repositories.ReferenceTable]map[int64]struct{}, len(wanted))
	for _, name := range tables {
		table := repositories.ReferenceTable(name)
		ids := make([]int64, 0, len(wanted[table]))
		for id := range wanted[table] {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		found, err := s.referenceRepo.ExistingIDs(ctx, table, ids)
		if err != nil {
			return nil, err
		}
		valid[table] = found
	}
	return valid, nil
}

func (s *ImportService) applyRow(ctx context.Context, logger *zap.Logger, row *importRow, mode dto.ImportMode, valid map[repositories.ReferenceTable]map[int64]struct{}, result *dto.ImportResult) {
	if row.err != nil {
		result.Fail(row.key, row.err)
		return
	}
	for _, ref := range row.refs {
		if !ref.value.Valid {
			continue
		}
		if _, ok := valid[ref.rule.Table][ref.value.Int64]; !ok {
			result.Fail(row.key, fmt.Errorf("referenced entity not found: %s %d does not exist in %s (%s)",
				ref.rule.Column, ref.value.Int64, ref.rule.Table, ref.rule.Hint))
			return
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var addressID null.Int64
		if row.address != nil {
			id, err := s.addressRepo.Create(ctx, tx, *row.address)
			if err != nil {
				return err
			}
			addressID = null.Int64From(int64(id))
		}
		return row.write(ctx, tx, addressID)
	})
	if err != nil {
		if mode == dto.ImportModeSkip && errors.Is(err, apperrors.ErrDuplicateKey) {
			result.Skipped++
			logger.Debug("existing row skipped", zap.String("row", row.key))
			return
		}
		logger.Warn("import row failed", zap.String("row", row.key), zap.Error(err))
		result.Fail(row.key, fmt.Errorf("store write failed: %v", err))
		return
	}

	result.Imported++
	if row.provides != "" {
		if valid[row.provides] == nil {
			valid[row.provides] = make(map[int64]struct{})
		}
		valid[row.provides][row.id] = struct{}{}
	}

	if row.after != nil {
		if err := row.after(ctx); err != nil {
			logger.Warn("post-import step failed", zap.String("row", row.key), zap.Error(err))
			result.Warn(row.key, err.Error())
		}
	}
}

func (s *ImportService) truncateErrors(result *dto.ImportResult) {
	limit := s.opts.MaxErrors
	if limit <= 0 || len(result.Errors) <= limit {
		return
	}
	extra := len(result.Errors) - limit
	result.Errors = append(result.Errors[:limit], fmt.Sprintf("... and %d more", extra))
}

func rowKey(index int, column string, id null.Int64) string {
	if id.Valid {
		return fmt.Sprintf("%s=%d", column, id.Int64)
	}
	return fmt.Sprintf("row %d", index)
}

// requiredError turns validator output into the importer's wording.
func requiredError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "not_blank":
		return fmt.Errorf("missing required field %q", fe.Field())
	}
	return fmt.Errorf("invalid value for field %q (rule %s)", fe.Field(), fe.Tag())
}

func buildAddress(a dto.AddressImportFields) *entities.Address {
	if !a.Complete() {
		return nil
	}
	return &entities.Address{
		Street:     a.Street.String,
		City:       a.City.String,
		State:      a.State.String,
		PostalCode: a.PostalCode.String,
		Country:    a.Country.String,
		Phone:      a.Phone,
	}
}

func (s *ImportService) prepareLocation(index int, rec Record) *importRow {
	var r dto.LocationImportRow
	keyID, _ := rec.Int64("location_id")
	row := &importRow{key: rowKey(index, "location_id", keyID)}

	if err := rec.Decode(&r); err != nil {
		row.err = err
		return row
	}
	if err := s.validator.Validate(r); err != nil {
		row.err = requiredError(err)
		return row
	}

	row.id = r.LocationID.Int64
	row.provides = repositories.RefLocations
	row.refs = []rowRef{
		{fkDistrict, r.DistrictID},
		{fkLocationManager, r.ManagerEmployeeID},
	}
	row.address = buildAddress(r.AddressImportFields)

	loc := entities.Location{
		LocationID:        r.LocationID.Int64,
		DistrictID:        r.DistrictID.Int64,
		Name:              r.Name.String,
		StoreNumber:       r.StoreNumber,
		ManagerEmployeeID: r.ManagerEmployeeID,
		IsActive:          !r.IsActive.Valid || r.IsActive.Bool,
	}
	row.write = func(ctx context.Context, tx pgx.Tx, addressID null.Int64) error {
		loc.AddressID = addressID
		return s.locationRepo.Create(ctx, tx, loc)
	}
	return row
}

func (s *ImportService) prepareEmployee(index int, rec Record) *importRow {
	var r dto.EmployeeImportRow
	keyID, _ := rec.Int64("employee_id")
	row := &importRow{key: rowKey(index, "employee_id", keyID)}

	if err := rec.Decode(&r); err != nil {
		row.err = err
		return row
	}
	if err := s.validator.Validate(r); err != nil {
		row.err = requiredError(err)
		return row
	}
	if !r.UserTypeID.Valid {
		r.UserTypeID = null.Int64From(s.opts.DefaultUserTypeID)
	}

	row.id = r.EmployeeID.Int64
	row.provides = repositories.RefEmployees
	row.refs = []rowRef{
		{fkUserType, r.UserTypeID},
		{fkTerminationReason, r.TerminationReasonID},
		{fkLocation, r.LocationID},
		{fkJobTitle, r.JobTitleID},
		{fkSupervisor, r.SupervisorEmployeeID},
	}
	row.address = buildAddress(r.AddressImportFields)

	active := !r.TerminationDate.Valid
	if r.IsActive.Valid {
		active = r.IsActive.Bool
	}
	emp := entities.Employee{
		EmployeeID:          r.EmployeeID.Int64,
		Username:            r.Username.String,
		Email:               r.Email.String,
		FirstName:           r.FirstName.String,
		LastName:            r.LastName.String,
		UserTypeID:          r.UserTypeID.Int64,
		HireDate:            r.HireDate,
		TerminationDate:     r.TerminationDate,
		TerminationReasonID: r.TerminationReasonID,
		IsActive:            active,
	}
	row.write = func(ctx context.Context, tx pgx.Tx, addressID null.Int64) error {
		emp.AddressID = addressID
		return s.employeeRepo.Create(ctx, tx, emp)
	}

	if r.LocationID.Valid && r.JobTitleID.Valid {
		assignment := dto.CreateAssignmentDTO{
			EmployeeID:           r.EmployeeID.Int64,
			LocationID:           r.LocationID.Int64,
			JobTitleID:           r.JobTitleID.Int64,
			SupervisorEmployeeID: r.SupervisorEmployeeID,
			AssignmentType:       string(entities.AssignmentPrimary),
			IsPrimary:            true,
			IsCurrent:            utils.ToPtr(true),
		}
		if r.HireDate.Valid {
			assignment.StartDate = utils.ToPtr(r.HireDate.Time)
		}
		row.after = func(ctx context.Context) error {
			if _, err := s.assignments.Create(ctx, assignment); err != nil {
				return fmt.Errorf("employee imported but primary assignment failed: %v", err)
			}
			return nil
		}
	}
	return row
}
