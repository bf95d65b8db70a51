package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hr-org-system/internal/dto"
)

func TestParseCSV_CommentsAreIgnored(t *testing.T) {
	plain := "location_id,district_id,name\n1001,7,Main St\n1002,7,Oak Ave\n"
	commented := "# locations export\n# columns: location_id, district_id, name\n" +
		"location_id,district_id,name\n" +
		"   # in between\n\n" +
		"1001,7,Main St\n" +
		"1002,7,Oak Ave\n" +
		"# trailing note\n"

	want, err := ParseCSV(strings.NewReader(plain))
	require.NoError(t, err)
	got, err := ParseCSV(strings.NewReader(commented))
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Len(t, got.Records, 2)
}

func TestParseCSV_Normalization(t *testing.T) {
	input := "\xEF\xBB\xBFlocation_id, name ,is_active,store_number\r\n" +
		"1001,  Main St  ,TRUE,\r\n" +
		"1002,Oak Ave,false\r\n"

	pf, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"location_id", "name", "is_active", "store_number"}, pf.Header)
	require.Len(t, pf.Records, 2)

	first := pf.Records[0]
	assert.Equal(t, "1001", first["location_id"])
	assert.Equal(t, "Main St", first["name"])
	assert.Equal(t, true, first["is_active"])
	assert.Nil(t, first["store_number"])

	// short rows pad missing cells with nil
	second := pf.Records[1]
	assert.Equal(t, false, second["is_active"])
	v, ok := second["store_number"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseCSV_MissingHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("# only a comment\n\n"))
	assert.ErrorIs(t, err, errMissingHeader)
}

func TestParseCSV_Malformed(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a,b\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestRecord_Accessors(t *testing.T) {
	rec := Record{
		"id":     "42",
		"bad":    "4x2",
		"flag":   "yes",
		"other":  true,
		"date":   "2024-03-15",
		"us":     "03/15/2024",
		"broken": "15.03.2024",
		"empty":  nil,
	}

	id, err := rec.Int64("id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id.Int64)

	_, err = rec.Int64("bad")
	assert.EqualError(t, err, `invalid value "4x2" for bad: expected an integer`)

	missing, err := rec.Int64("empty")
	require.NoError(t, err)
	assert.False(t, missing.Valid)

	flag, err := rec.Bool("flag")
	require.NoError(t, err)
	assert.True(t, flag.Bool)

	other, err := rec.Bool("other")
	require.NoError(t, err)
	assert.True(t, other.Bool)

	iso, err := rec.Date("date")
	require.NoError(t, err)
	us, err := rec.Date("us")
	require.NoError(t, err)
	assert.True(t, iso.Time.Equal(us.Time))

	_, err = rec.Date("broken")
	assert.Error(t, err)

	assert.False(t, rec.String("empty").Valid)
	assert.Equal(t, "true", rec.String("other").String)
}

func TestRecord_Decode(t *testing.T) {
	rec := Record{
		"location_id": "1001",
		"district_id": "7",
		"name":        "Main St",
		"is_active":   false,
		"street":      "1 Main St",
		"city":        "Springfield",
	}

	var row dto.LocationImportRow
	require.NoError(t, rec.Decode(&row))

	assert.EqualValues(t, 1001, row.LocationID.Int64)
	assert.EqualValues(t, 7, row.DistrictID.Int64)
	assert.Equal(t, "Main St", row.Name.String)
	assert.True(t, row.IsActive.Valid)
	assert.False(t, row.IsActive.Bool)
	assert.False(t, row.ManagerEmployeeID.Valid)
	assert.Equal(t, "Springfield", row.City.String)
	assert.False(t, row.Complete())

	rec["district_id"] = "seven"
	err := rec.Decode(&row)
	assert.EqualError(t, err, `invalid value "seven" for district_id: expected an integer`)

	assert.Error(t, rec.Decode(row))
}

func TestColumns_IncludesEmbeddedAddress(t *testing.T) {
	cols := Columns(dto.LocationImportRow{})
	assert.Equal(t, []string{
		"location_id", "district_id", "name", "store_number", "manager_employee_id", "is_active",
		"street", "city", "state", "postal_code", "country", "phone",
	}, cols)
}

func TestParseXLSX_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"# generated for tests"},
		{"employee_id", "first_name", "is_active"},
		{},
		{"5001", "Ada", "TRUE"},
		{"5002", " Grace ", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	pf, err := ParseXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"employee_id", "first_name", "is_active"}, pf.Header)
	require.Len(t, pf.Records, 2)
	assert.Equal(t, "5001", pf.Records[0]["employee_id"])
	assert.Equal(t, true, pf.Records[0]["is_active"])
	assert.Equal(t, "Grace", pf.Records[1]["first_name"])
	assert.Nil(t, pf.Records[1]["is_active"])
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("location_id\n1\n"))
	assert.Error(t, err)
}
