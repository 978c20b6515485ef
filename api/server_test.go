package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/medassist-api/api/mocks"
	"github.com/bitmark-inc/medassist-api/assist"
	"github.com/bitmark-inc/medassist-api/external"
	"github.com/bitmark-inc/medassist-api/external/upstream"
	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/triage"
	"github.com/bitmark-inc/medassist-api/tts"
	"github.com/bitmark-inc/medassist-api/utils"
)

type testServer struct {
	assistant   *mocks.MockAssistant
	synthesizer *mocks.MockSynthesizer
	reporter    *mocks.MockReporter
	router      *gin.Engine
}

func newTestServer(t *testing.T, options Options) *testServer {
	ctl := gomock.NewController(t)

	ts := &testServer{
		assistant:   mocks.NewMockAssistant(ctl),
		synthesizer: mocks.NewMockSynthesizer(ctl),
		reporter:    mocks.NewMockReporter(ctl),
	}

	gin.SetMode(gin.TestMode)
	s := NewServer(ts.assistant, ts.synthesizer, ts.reporter, options)
	ts.router = s.setupRouter()
	return ts
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func cardiac() *schema.ConditionAssessment {
	return &schema.ConditionAssessment{
		ConditionType:      schema.ConditionCardiac,
		Severity:           schema.SeverityHigh,
		Confidence:         0.8,
		RedFlags:           []string{"chest pain"},
		RecommendedActions: []string{"Call 911"},
	}
}

const chestPain = `{"symptoms": "severe chest pain radiating to left arm, sweating",
	"user": {"age": 55, "gender": "male", "latitude": 40.7128, "longitude": -74.006}}`

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/health", "/healthz"} {
		w := ts.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	}
}

func TestInformation(t *testing.T) {
	ts := newTestServer(t, Options{
		Version:     "1.2.3",
		Information: map[string]interface{}{"openai": true},
	})

	w := ts.do(http.MethodGet, "/information", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Information struct {
			Server   map[string]string      `json:"server"`
			Services map[string]interface{} `json:"services"`
		} `json:"information"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body.Information.Server["version"])
	assert.Equal(t, true, body.Information.Services["openai"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.do(http.MethodGet, "/health", "")

	w := ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "medassist_http_requests_total")
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, Options{})

	ts.assistant.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, in schema.SymptomInput) (*schema.ConditionAssessment, error) {
			assert.Equal(t, "severe chest pain radiating to left arm, sweating", in.Symptoms)
			assert.Equal(t, 55, *in.User.Age)
			return cardiac(), nil
		}).Times(1)

	w := ts.do(http.MethodPost, "/analyze", chestPain)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "cardiac", body["condition_type"])
	assert.Equal(t, "high", body["severity"])
	assert.Contains(t, body, "nearest_hospitals")
	assert.Nil(t, body["nearest_hospitals"])
	assert.Contains(t, body, "weather_context")
	assert.Nil(t, body["weather_context"])
}

func TestAnalyzeInvalidInput(t *testing.T) {
	ts := newTestServer(t, Options{})

	cases := []struct {
		body string
		code int64
	}{
		{`{}`, 1010},
		{`{"symptoms": "   "}`, 1010},
		{`{"symptoms": "cough", "user": {"age": -1}}`, 1010},
		{`{"symptoms": "cough", "user": {"latitude": 91, "longitude": 0}}`, 1010},
		{`{"symptoms": "cough", "user": {"latitude": 0, "longitude": -181}}`, 1010},
		{`{"symptoms": "cough", "user": {"age": "old"}}`, 1011},
		{`{"symptoms": `, 1011},
		{``, 1011},
	}

	for _, c := range cases {
		w := ts.do(http.MethodPost, "/analyze", c.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, c.body)
		assert.Equal(t, c.code, decodeError(t, w).Code, c.body)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    int64
		message string
	}{
		{
			name:    "contract violation",
			err:     &triage.ContractError{Kind: triage.ViolationJSON, Reason: "model did not return valid JSON"},
			status:  http.StatusInternalServerError,
			code:    1500,
			message: "invalid model assessment: model did not return valid JSON",
		},
		{
			name:    "not configured",
			err:     &external.MissingSettingError{Setting: "OPENAI_API_KEY"},
			status:  http.StatusInternalServerError,
			code:    1501,
			message: "service not configured: OPENAI_API_KEY not set",
		},
		{
			name:    "upstream",
			err:     &upstream.StatusError{Service: "openai", StatusCode: 503},
			status:  http.StatusBadGateway,
			code:    1502,
			message: "upstream service error: openai",
		},
		{
			name:    "circuit open",
			err:     errors.Join(upstream.ErrCircuitOpen),
			status:  http.StatusBadGateway,
			code:    1502,
			message: "upstream service error: upstream circuit open",
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    999,
			message: "internal server error",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := newTestServer(t, Options{})
			ts.assistant.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(nil, c.err).Times(1)

			w := ts.do(http.MethodPost, "/analyze", chestPain)
			assert.Equal(t, c.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, c.code, resp.Code)
			assert.Equal(t, c.message, resp.Message)
		})
	}
}

func TestHospitals(t *testing.T) {
	ts := newTestServer(t, Options{})

	facilities := []schema.Facility{{Name: utils.Ptr("Bellevue Hospital"), OpenNow: utils.Ptr(true)}}
	ts.assistant.EXPECT().Hospitals(gomock.Any(), gomock.Any()).Return(facilities, nil).Times(1)

	w := ts.do(http.MethodPost, "/hospitals", chestPain)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Hospitals []schema.Facility `json:"hospitals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, facilities, body.Hospitals)
}

func TestHospitalsWithoutCoordinates(t *testing.T) {
	ts := newTestServer(t, Options{})

	ts.assistant.EXPECT().Hospitals(gomock.Any(), gomock.Any()).Return(nil, assist.ErrCoordinatesRequired).Times(1)

	w := ts.do(http.MethodPost, "/hospitals", `{"symptoms": "cough"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1400), decodeError(t, w).Code)
}

func TestGeoPositionHeader(t *testing.T) {
	ts := newTestServer(t, Options{})

	ts.assistant.EXPECT().Hospitals(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, in schema.SymptomInput) ([]schema.Facility, error) {
			loc, ok := in.Coordinates()
			require.True(t, ok)
			assert.Equal(t, schema.Location{Latitude: 25.03, Longitude: 121.56}, loc)
			return []schema.Facility{}, nil
		}).Times(1)

	w := ts.do(http.MethodPost, "/hospitals", `{"symptoms": "cough"}`, "Geo-Position", "25.03;121.56")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hospitals": []}`, w.Body.String())
}

func TestGeoPositionHeaderBodyWins(t *testing.T) {
	ts := newTestServer(t, Options{})

	ts.assistant.EXPECT().Hospitals(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, in schema.SymptomInput) ([]schema.Facility, error) {
			loc, _ := in.Coordinates()
			assert.Equal(t, 40.7128, loc.Latitude)
			return []schema.Facility{}, nil
		}).Times(1)

	w := ts.do(http.MethodPost, "/hospitals", chestPain, "Geo-Position", "25.03;121.56")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseGeoPosition(t *testing.T) {
	lat, lng, err := parseGeoPosition("25.03; 121.56")
	require.NoError(t, err)
	assert.Equal(t, 25.03, lat)
	assert.Equal(t, 121.56, lng)

	for _, s := range []string{"", "25.03", "a;b", "1;2;3", "91;0", "0;181"} {
		_, _, err := parseGeoPosition(s)
		assert.Error(t, err, s)
	}
}

func TestAssist(t *testing.T) {
	ts := newTestServer(t, Options{})

	a := cardiac()
	a.NearestHospitals = []schema.Facility{}
	ts.assistant.EXPECT().Assist(gomock.Any(), gomock.Any()).Return(a, nil).Times(1)

	w := ts.do(http.MethodPost, "/assist", chestPain)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["nearest_hospitals"])
	assert.Nil(t, body["weather_context"])
}

func TestReport(t *testing.T) {
	ts := newTestServer(t, Options{})

	a := cardiac()
	ts.assistant.EXPECT().Assist(gomock.Any(), gomock.Any()).Return(a, nil).Times(1)
	ts.reporter.EXPECT().Render(a).Return("🚨 **URGENT MEDICAL ASSESSMENT** 🚨", nil).Times(1)

	w := ts.do(http.MethodPost, "/report", chestPain)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Assessment schema.ConditionAssessment `json:"assessment"`
		Summary    string                     `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, schema.ConditionCardiac, body.Assessment.ConditionType)
	assert.Equal(t, "🚨 **URGENT MEDICAL ASSESSMENT** 🚨", body.Summary)
}

func TestTextToSpeech(t *testing.T) {
	ts := newTestServer(t, Options{})

	ts.synthesizer.EXPECT().Synthesize(gomock.Any(), "**Bold** alert", "nova").Return([]byte("ID3audio"), nil).Times(1)

	w := ts.do(http.MethodPost, "/tts", `{"text": "**Bold** alert", "voice": "nova"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.True(t, bytes.Equal([]byte("ID3audio"), w.Body.Bytes()))
}

func TestTextToSpeechErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    int64
		message string
	}{
		{"unsupported voice", tts.ErrUnsupportedVoice, http.StatusBadRequest, 1401, "unsupported voice"},
		{
			"empty text",
			&tts.SynthesisError{Message: "No text content to convert to speech", Err: tts.ErrEmptyText},
			http.StatusInternalServerError, 1503, "no text content to convert to speech",
		},
		{
			"upstream",
			&tts.SynthesisError{Message: "TTS generation failed: quota exceeded", Err: errors.New("quota exceeded")},
			http.StatusInternalServerError, 1504, "speech synthesis failed: TTS generation failed: quota exceeded",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := newTestServer(t, Options{})
			ts.synthesizer.EXPECT().Synthesize(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, c.err).Times(1)

			w := ts.do(http.MethodPost, "/tts", `{"text": "hello", "voice": "robot"}`)
			assert.Equal(t, c.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, c.code, resp.Code)
			assert.Equal(t, c.message, resp.Message)
		})
	}
}

func TestTextToSpeechMissingText(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, body := range []string{`{}`, `{"voice": "nova"}`, `{"text": null}`, `{"text": ""}`} {
		w := ts.do(http.MethodPost, "/tts", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, int64(1010), decodeError(t, w).Code, body)
	}
}

func TestCORSAllowAll(t *testing.T) {
	ts := newTestServer(t, Options{})

	w := ts.do(http.MethodOptions, "/analyze", "",
		"Origin", "http://localhost:7860",
		"Access-Control-Request-Method", "POST")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfiguredOrigins(t *testing.T) {
	ts := newTestServer(t, Options{AllowedOrigins: []string{" https://app.example.com ", ""}})

	w := ts.do(http.MethodOptions, "/analyze", "",
		"Origin", "https://app.example.com",
		"Access-Control-Request-Method", "POST")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = ts.do(http.MethodOptions, "/analyze", "",
		"Origin", "https://evil.example.com",
		"Access-Control-Request-Method", "POST")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcardOrigin(t *testing.T) {
	s := NewServer(nil, nil, nil, Options{AllowedOrigins: []string{"https://a.example.com", "*"}})
	config := s.corsConfig()
	assert.True(t, config.AllowAllOrigins)
	assert.Empty(t, config.AllowOrigins)
}
