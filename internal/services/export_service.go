package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	"hr-org-system/internal/repositories"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/types"
	"hr-org-system/pkg/utils"
)

// ExportTable is a header plus string rows in import column order.
type ExportTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

type ExportServiceInterface interface {
	Export(ctx context.Context, entity dto.ImportEntityType) (*ExportTable, error)
	Template(entity dto.ImportEntityType) ([]byte, error)
}

type ExportService struct {
	locationRepo repositories.LocationRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	addressRepo  repositories.AddressRepositoryInterface
	logger       *zap.Logger
}

func NewExportService(
	locationRepo repositories.LocationRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	addressRepo repositories.AddressRepositoryInterface,
	logger *zap.Logger,
) ExportServiceInterface {
	return &ExportService{
		locationRepo: locationRepo,
		employeeRepo: employeeRepo,
		addressRepo:  addressRepo,
		logger:       logger,
	}
}

func ImportColumns(entity dto.ImportEntityType) ([]string, error) {
	switch entity {
	case dto.ImportLocations:
		return Columns(dto.LocationImportRow{}), nil
	case dto.ImportEmployees:
		return Columns(dto.EmployeeImportRow{}), nil
	}
	return nil, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("unsupported type %q", entity), nil, nil)
}

func allRows() types.Filter {
	return types.Filter{WithPagination: false}
}

func (s *ExportService) Export(ctx context.Context, entity dto.ImportEntityType) (*ExportTable, error) {
	header, err := ImportColumns(entity)
	if err != nil {
		return nil, err
	}
	table := &ExportTable{Name: string(entity), Header: header}

	var records []map[string]string
	var addressIDs []int64
	switch entity {
	case dto.ImportLocations:
		list, _, err := s.locationRepo.GetAll(ctx, allRows())
		if err != nil {
			return nil, err
		}
		for _, l := range list {
			if l.AddressID.Valid {
				addressIDs = append(addressIDs, l.AddressID.Int64)
			}
		}
		addresses, err := s.addressRepo.FindByIDs(ctx, addressIDs)
		if err != nil {
			return nil, err
		}
		for _, l := range list {
			records = append(records, locationRecord(l, addresses))
		}
	case dto.ImportEmployees:
		list, _, err := s.employeeRepo.GetAll(ctx, allRows())
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			if e.AddressID.Valid {
				addressIDs = append(addressIDs, e.AddressID.Int64)
			}
		}
		addresses, err := s.addressRepo.FindByIDs(ctx, addressIDs)
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			records = append(records, employeeRecord(e, addresses))
		}
	}

	for _, rec := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = rec[col]
		}
		table.Rows = append(table.Rows, row)
	}
	s.logger.Info("export built", zap.String("entity", string(entity)), zap.Int("rows", len(table.Rows)))
	return table, nil
}

func addressColumns(rec map[string]string, addr *entities.Address) {
	if addr == nil {
		return
	}
	rec["street"] = addr.Street
	rec["city"] = addr.City
	rec["state"] = addr.State
	rec["postal_code"] = addr.PostalCode
	rec["country"] = addr.Country
	rec["phone"] = utils.NullStringValue(addr.Phone)
}

func locationRecord(l *entities.Location, addresses map[int64]*entities.Address) map[string]string {
	rec := map[string]string{
		"location_id":         strconv.FormatInt(l.LocationID, 10),
		"district_id":         strconv.FormatInt(l.DistrictID, 10),
		"name":                l.Name,
		"store_number":        utils.NullStringValue(l.StoreNumber),
		"manager_employee_id": utils.NullInt64String(l.ManagerEmployeeID),
		"is_active":           strconv.FormatBool(l.IsActive),
	}
	if l.AddressID.Valid {
		addressColumns(rec, addresses[l.AddressID.Int64])
	}
	return rec
}

func employeeRecord(e *entities.Employee, addresses map[int64]*entities.Address) map[string]string {
	rec := map[string]string{
		"employee_id":            strconv.FormatInt(e.EmployeeID, 10),
		"username":               e.Username,
		"email":                  e.Email,
		"first_name":             e.FirstName,
		"last_name":              e.LastName,
		"user_type_id":           strconv.FormatInt(e.UserTypeID, 10),
		"hire_date":              utils.NullDateString(e.HireDate),
		"termination_date":       utils.NullDateString(e.TerminationDate),
		"termination_reason_id":  utils.NullInt64String(e.TerminationReasonID),
		"is_active":              strconv.FormatBool(e.IsActive),
		"location_id":            utils.NullInt64String(e.PrimaryLocationID),
		"job_title_id":           utils.NullInt64String(e.PrimaryJobTitleID),
		"supervisor_employee_id": utils.NullInt64String(e.SupervisorEmployeeID),
	}
	if e.AddressID.Valid {
		addressColumns(rec, addresses[e.AddressID.Int64])
	}
	return rec
}

var templateNotes = map[dto.ImportEntityType][]string{
	dto.ImportLocations: {
		"Locations import template. Lines starting with # are ignored.",
		"Required: location_id, district_id, name.",
		"district_id must exist; manager_employee_id, if set, must be an imported employee.",
		"Address is stored only when street, city, state and postal_code are all filled.",
		"is_active accepts true/false (any case); empty means true.",
	},
	dto.ImportEmployees: {
		"Employees import template. Lines starting with # are ignored.",
		"Required: employee_id, username, email, first_name, last_name.",
		"user_type_id defaults to the standard employee role when empty.",
		"location_id + job_title_id together create the current PRIMARY assignment.",
		"Dates use YYYY-MM-DD. Import locations before employees.",
	},
}

func (s *ExportService) Template(entity dto.ImportEntityType) ([]byte, error) {
	header, err := ImportColumns(entity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, note := range templateNotes[entity] {
		buf.WriteString("# " + note + "\n")
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
