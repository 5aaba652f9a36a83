package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceimundo/asistencia-api/internal/middleware"
	"github.com/ceimundo/asistencia-api/internal/models"
	"github.com/ceimundo/asistencia-api/internal/service"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

type personFinderMock struct {
	person *models.Person
	err    error
}

func (m *personFinderMock) FindByName(_ context.Context, _ string) (*models.Person, error) {
	return m.person, m.err
}

type eventInserterMock struct {
	inserted int
	err      error
}

func (m *eventInserterMock) Insert(_ context.Context, _ *models.AttendanceEvent) error {
	if m.err != nil {
		return m.err
	}
	m.inserted++
	return nil
}

func scanTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/scans", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextDeviceKey, &models.DeviceClaims{DeviceID: "device-1"})
	return c, w
}

func TestScanHandlerRecordsScan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	people := &personFinderMock{person: &models.Person{ID: "p1", Name: "Ana García", Type: models.PersonTypeStudent}}
	events := &eventInserterMock{}
	scans := service.NewScanService(people, events, nil, nil, nil, nil, nil, time.UTC)
	handler := NewScanHandler(scans)

	c, w := scanTestContext(t, `{"code":"Ana García","kind":"entrada"}`)
	handler.Scan(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, events.inserted)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data["message"], "Ana García")
}

func TestScanHandlerUnknownPerson(t *testing.T) {
	gin.SetMode(gin.TestMode)
	people := &personFinderMock{err: sql.ErrNoRows}
	scans := service.NewScanService(people, &eventInserterMock{}, nil, nil, nil, nil, nil, time.UTC)
	handler := NewScanHandler(scans)

	c, w := scanTestContext(t, `{"code":"Nadie","kind":"entrada"}`)
	handler.Scan(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "PERSON_NOT_FOUND", envelope.Error.Code)
}

func TestScanHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	scans := service.NewScanService(&personFinderMock{}, &eventInserterMock{}, nil, nil, nil, nil, nil, time.UTC)
	handler := NewScanHandler(scans)

	c, w := scanTestContext(t, `not json`)
	handler.Scan(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
