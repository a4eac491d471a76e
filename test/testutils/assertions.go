// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weeklydish/planner/internal/domain/mealplan"
)

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the response status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expectedCode int, msgAndArgs ...interface{}) {
	assert.Equal(ha.t, expectedCode, rec.Code, append([]interface{}{"body: %s", rec.Body.String()}, msgAndArgs...)...)
}

// JSONResponse asserts the response is JSON and decodes it into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}, msgAndArgs ...interface{}) {
	assert.Contains(ha.t, rec.Header().Get("Content-Type"), "application/json", msgAndArgs...)
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), msgAndArgs...)
}

// ErrorResponse asserts an error body with the given code
func (ha *HTTPAssertions) ErrorResponse(rec *httptest.ResponseRecorder, expectedCode string, msgAndArgs ...interface{}) map[string]interface{} {
	var body map[string]interface{}
	ha.JSONResponse(rec, &body, msgAndArgs...)
	assert.Equal(ha.t, expectedCode, body["code"], msgAndArgs...)
	assert.NotEmpty(ha.t, body["error"], msgAndArgs...)
	return body
}

// SecurityHeaders asserts the standard security headers are present
func (ha *HTTPAssertions) SecurityHeaders(rec *httptest.ResponseRecorder, msgAndArgs ...interface{}) {
	for _, header := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy"} {
		assert.NotEmpty(ha.t, rec.Header().Get(header), append([]interface{}{"missing " + header}, msgAndArgs...)...)
	}
}

// CalendarAssertions provides calendar-specific assertion methods
type CalendarAssertions struct {
	t *testing.T
}

// NewCalendarAssertions creates a new calendar assertions helper
func NewCalendarAssertions(t *testing.T) *CalendarAssertions {
	return &CalendarAssertions{t: t}
}

// CoversRange asserts the calendar has exactly one key per date in [start, end]
func (ca *CalendarAssertions) CoversRange(cal mealplan.Calendar, start, end mealplan.Date) {
	dates := mealplan.Range(start, end)
	require.Len(ca.t, cal, len(dates))
	for _, d := range dates {
		_, ok := cal[d]
		assert.True(ca.t, ok, "missing date %s", d)
	}
}

// SlotSizes asserts every day has the given number of lunch and dinner picks
func (ca *CalendarAssertions) SlotSizes(cal mealplan.Calendar, lunch, dinner int) {
	for d, day := range cal {
		assert.Len(ca.t, day.Lunch, lunch, "lunch on %s", d)
		assert.Len(ca.t, day.Dinner, dinner, "dinner on %s", d)
	}
}
