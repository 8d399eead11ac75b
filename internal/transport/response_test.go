package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evreg/registration-service/internal/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func recordError(t *testing.T, responder *Responder, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	responder.Error(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func TestResponderStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad request", err: entity.NewBadRequest("bad id"), wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "validation", err: entity.NewValidation("invalid payload", nil), wantStatus: http.StatusUnprocessableEntity, wantCode: "VALIDATION_ERROR"},
		{name: "not found", err: entity.NewNotFound("event missing", nil), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "conflict", err: entity.NewConflict("email taken", nil), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "unauthorized", err: entity.NewUnauthorized("no token"), wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "forbidden", err: entity.NewForbidden("not yours"), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "rate limited", err: entity.NewRateLimited("slow down"), wantStatus: http.StatusTooManyRequests, wantCode: "RATE_LIMITED"},
		{name: "internal", err: entity.NewInternal("boom", nil), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	responder := NewResponder(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := recordError(t, responder, tt.err)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Nil(t, body.Data)
		})
	}
}

func TestResponderWrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), entity.NewConflict("email taken", nil))
	recorder, body := recordError(t, NewResponder(false), wrapped)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestResponderDetailsPassThrough(t *testing.T) {
	err := entity.NewConflict("event cannot accommodate a team of 4", map[string]interface{}{
		"available": 3,
		"teamSize":  4,
	})
	_, body := recordError(t, NewResponder(false), err)

	require.NotNil(t, body.Error.Details)
	assert.EqualValues(t, 3, body.Error.Details["available"])
	assert.EqualValues(t, 4, body.Error.Details["teamSize"])
}

func TestResponderSanitizesUnknownErrors(t *testing.T) {
	secret := errors.New("pq: connection refused to db.internal:5432")

	t.Run("production", func(t *testing.T) {
		recorder, body := recordError(t, NewResponder(false), secret)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "internal server error", body.Error.Message)
	})

	t.Run("development", func(t *testing.T) {
		_, body := recordError(t, NewResponder(true), secret)
		assert.Equal(t, secret.Error(), body.Error.Message)
	})
}

func TestResponderSuccessEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	NewResponder(false).OK(c, gin.H{"id": "abc"}, "event found")

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "event found", body.Message)
}
