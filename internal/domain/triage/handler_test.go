package triage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerContext(t *testing.T, body string) (*Handler, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	h := NewHandler(newTestService(&stubDirectory{}, nil, true))
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return h, e.NewContext(req, rec), rec
}

func TestHandler_Analyze(t *testing.T) {
	body := `{"observation":{"blood_pressure":"160/95","heart_rate":110}}`
	h, c, rec := newHandlerContext(t, body)

	require.NoError(t, h.Analyze(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var a RiskAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, 55, a.RiskScore)
	assert.Equal(t, TierMedium, a.RiskTier)
	assert.NotEmpty(t, a.Recommendations)
}

func TestHandler_Analyze_BadBody(t *testing.T) {
	h, c, _ := newHandlerContext(t, `{"observation":`)

	err := h.Analyze(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestHandler_Chat(t *testing.T) {
	h, c, rec := newHandlerContext(t, `{"message":"I have a bad headache"}`)

	require.NoError(t, h.Chat(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, IntentSymptomQuery, resp.Intent)
	assert.NotEmpty(t, resp.Text)
}
