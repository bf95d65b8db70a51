package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/types"
	"hr-org-system/pkg/validation"
)

// callHandler runs h against a JSON request with the given path parameters.
func callHandler(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, h(c))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

type stubLocationService struct {
	locations   map[int64]*entities.Location
	created     *dto.CreateLocationDTO
	updatedID   int64
	updated     *dto.UpdateLocationDTO
	deactivated []int64
	err         error
}

func newStubLocationService() *stubLocationService {
	return &stubLocationService{locations: map[int64]*entities.Location{
		1001: {LocationID: 1001, DistrictID: 7, Name: "Main", IsActive: true},
	}}
}

func (s *stubLocationService) GetLocations(context.Context, types.Filter) ([]*entities.Location, uint64, error) {
	out := make([]*entities.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	return out, uint64(len(out)), s.err
}

func (s *stubLocationService) FindLocation(_ context.Context, id int64) (*entities.Location, error) {
	if l, ok := s.locations[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubLocationService) CreateLocation(_ context.Context, d dto.CreateLocationDTO) (*entities.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &d
	return &entities.Location{LocationID: d.LocationID, DistrictID: d.DistrictID, Name: d.Name, IsActive: true}, nil
}

func (s *stubLocationService) UpdateLocation(_ context.Context, id int64, d dto.UpdateLocationDTO) (*entities.Location, error) {
	l, ok := s.locations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	s.updatedID, s.updated = id, &d
	if d.Name != nil {
		l.Name = *d.Name
	}
	return l, nil
}

func (s *stubLocationService) DeactivateLocation(_ context.Context, id int64) error {
	if _, ok := s.locations[id]; !ok {
		return apperrors.ErrNotFound
	}
	s.deactivated = append(s.deactivated, id)
	return nil
}

func TestLocationController_GetAll(t *testing.T) {
	ctrl := NewLocationController(newStubLocationService(), zap.NewNop())

	rec, body := callHandler(t, ctrl.GetAll, http.MethodGet, "/api/locations?limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	payload := body["body"].(map[string]interface{})
	assert.Len(t, payload["list"], 1)
	pagination := payload["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total_count"])
}

func TestLocationController_FindByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantCode int
		wantMsg  string
	}{
		{name: "found", id: "1001", wantCode: http.StatusOK, wantMsg: "location"},
		{name: "missing", id: "1002", wantCode: http.StatusNotFound, wantMsg: apperrors.ErrNotFound.Error()},
		{name: "not a number", id: "abc", wantCode: http.StatusBadRequest, wantMsg: "invalid id"},
		{name: "zero", id: "0", wantCode: http.StatusBadRequest, wantMsg: "invalid id"},
		{name: "negative", id: "-4", wantCode: http.StatusBadRequest, wantMsg: "invalid id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewLocationController(newStubLocationService(), zap.NewNop())
			rec, body := callHandler(t, ctrl.FindByID, http.MethodGet, "/api/locations/"+tt.id, "", "id", tt.id)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestLocationController_Create(t *testing.T) {
	svc := newStubLocationService()
	ctrl := NewLocationController(svc, zap.NewNop())

	rec, body := callHandler(t, ctrl.Create, http.MethodPost, "/api/locations", `{
		"location_id": 1003, "district_id": 7, "name": "Oak", "store_number": "S-3",
		"address": {"street": "3 Oak Ave", "city": "Springfield", "state": "IL", "postal_code": "62702"}
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "location created", body["message"])
	assert.EqualValues(t, 1003, body["body"].(map[string]interface{})["location_id"])

	require.NotNil(t, svc.created)
	assert.Equal(t, "S-3", svc.created.StoreNumber.String)
	require.NotNil(t, svc.created.Address)
	assert.Equal(t, "3 Oak Ave", svc.created.Address.Street)
}

func TestLocationController_CreateRejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{name: "malformed json", body: `{"location_id":`, wantCode: http.StatusBadRequest, wantMsg: "invalid request body"},
		{name: "missing name", body: `{"location_id": 1, "district_id": 7}`, wantCode: http.StatusBadRequest, wantMsg: "validation failed"},
		{name: "incomplete address", body: `{"location_id": 1, "district_id": 7, "name": "x", "address": {"street": "1 Main"}}`,
			wantCode: http.StatusBadRequest, wantMsg: "validation failed"},
		{name: "duplicate", body: `{"location_id": 1001, "district_id": 7, "name": "x"}`,
			svcErr: fmt.Errorf("insert location: %w", apperrors.ErrConflict), wantCode: http.StatusConflict, wantMsg: "insert location"},
		{name: "unknown district", body: `{"location_id": 1, "district_id": 99, "name": "x"}`,
			svcErr: fmt.Errorf("insert location: %w", apperrors.ErrForeignKey), wantCode: http.StatusBadRequest, wantMsg: "referenced record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubLocationService()
			svc.err = tt.svcErr
			ctrl := NewLocationController(svc, zap.NewNop())

			rec, body := callHandler(t, ctrl.Create, http.MethodPost, "/api/locations", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, false, body["status"])
			assert.Contains(t, body["message"], tt.wantMsg)
		})
	}
}

func TestLocationController_Update(t *testing.T) {
	svc := newStubLocationService()
	ctrl := NewLocationController(svc, zap.NewNop())

	rec, body := callHandler(t, ctrl.Update, http.MethodPut, "/api/locations/1001", `{"name": "Main Street"}`, "id", "1001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Main Street", body["body"].(map[string]interface{})["name"])

	assert.EqualValues(t, 1001, svc.updatedID)
	require.NotNil(t, svc.updated)
	assert.Nil(t, svc.updated.DistrictID)
	assert.False(t, svc.updated.StoreNumber.Valid)

	rec, _ = callHandler(t, ctrl.Update, http.MethodPut, "/api/locations/9", `{"name": "x"}`, "id", "9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = callHandler(t, ctrl.Update, http.MethodPut, "/api/locations/1001", `{"name": "   "}`, "id", "1001")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocationController_Deactivate(t *testing.T) {
	svc := newStubLocationService()
	ctrl := NewLocationController(svc, zap.NewNop())

	rec, body := callHandler(t, ctrl.Deactivate, http.MethodDelete, "/api/locations/1001", "", "id", "1001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "location deactivated", body["message"])
	assert.Equal(t, []int64{1001}, svc.deactivated)

	rec, _ = callHandler(t, ctrl.Deactivate, http.MethodDelete, "/api/locations/x", "", "id", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []int64{1001}, svc.deactivated)
}
