package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	apperrors "hr-org-system/pkg/errors"
)

func TestExportService_Template(t *testing.T) {
	svc := NewExportService(&fakeLocationRepo{}, &fakeEmployeeRepo{}, &fakeAddressRepo{}, zap.NewNop())

	body, err := svc.Template(dto.ImportLocations)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	for _, l := range lines[:len(lines)-1] {
		assert.True(t, strings.HasPrefix(l, "# "), l)
	}
	assert.Equal(t, strings.Join(Columns(dto.LocationImportRow{}), ","), lines[len(lines)-1])

	// the template parses as an empty file with the full header
	pf, err := ParseCSV(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Empty(t, pf.Records)
	assert.Equal(t, Columns(dto.LocationImportRow{}), pf.Header)

	_, err = svc.Template(dto.ImportEntityType("regions"))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestExportService_LocationsRoundTrip(t *testing.T) {
	addresses := &fakeAddressRepo{created: []entities.Address{
		{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"},
	}}
	locations := &fakeLocationRepo{created: []entities.Location{
		{LocationID: 1001, DistrictID: 7, Name: "Main", IsActive: true, AddressID: null.Int64From(1), StoreNumber: null.StringFrom("S-1")},
		{LocationID: 1002, DistrictID: 8, Name: "Oak", IsActive: false, ManagerEmployeeID: null.Int64From(900)},
	}}
	svc := NewExportService(locations, &fakeEmployeeRepo{}, addresses, zap.NewNop())

	table, err := svc.Export(context.Background(), dto.ImportLocations)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "locations", table.Name)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(table.Header))
	require.NoError(t, w.WriteAll(table.Rows))

	f := newImportFixture(t, ImportOptions{})
	pf, err := ParseCSV(&buf)
	require.NoError(t, err)
	result, err := f.svc.Import(context.Background(), dto.ImportLocations, dto.ImportModeInsert, pf)
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported, result.Errors)

	got := f.locations.created
	assert.Equal(t, "S-1", got[0].StoreNumber.String)
	assert.True(t, got[0].AddressID.Valid)
	assert.False(t, got[1].IsActive)
	assert.EqualValues(t, 900, got[1].ManagerEmployeeID.Int64)
	require.Len(t, f.addresses.created, 1)
	assert.Equal(t, "Springfield", f.addresses.created[0].City)
}

func TestExportService_Employees(t *testing.T) {
	employees := &fakeEmployeeRepo{created: []entities.Employee{{
		EmployeeID: 5001, Username: "ada", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		UserTypeID: 3, IsActive: true,
		PrimaryLocationID: null.Int64From(1001), PrimaryJobTitleID: null.Int64From(10),
	}}}
	svc := NewExportService(&fakeLocationRepo{}, employees, &fakeAddressRepo{}, zap.NewNop())

	table, err := svc.Export(context.Background(), dto.ImportEmployees)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := make(map[string]string, len(table.Header))
	for i, col := range table.Header {
		row[col] = table.Rows[0][i]
	}
	assert.Equal(t, "5001", row["employee_id"])
	assert.Equal(t, "1001", row["location_id"])
	assert.Equal(t, "10", row["job_title_id"])
	assert.Equal(t, "", row["hire_date"])
	assert.Equal(t, "true", row["is_active"])
}
