package http_server

import (
	"encoding/json"
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClient struct {
	lock        sync.Mutex
	status      fsd.ConnectionStatus
	connects    int
	disconnects int
	sendErr     error
	texts       []string
	pings       []string
	queries     []fsd.ClientQueryType
	listeners   []fsd.EventListener
}

func (f *fakeClient) Connect() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.connects++
	f.status = fsd.Connecting
}

func (f *fakeClient) Disconnect() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.disconnects++
	f.status = fsd.Disconnected
}

func (f *fakeClient) record(text string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeClient) SendPrivateTextMessage(callsign string, message string) error {
	return f.record(callsign + ":" + message)
}

func (f *fakeClient) SendRadioTextMessage(_ []int, message string) error {
	return f.record("radio:" + message)
}

func (f *fakeClient) SendGroupTextMessage(group fsd.TextMessageGroup, message string) error {
	return f.record(string(group) + ":" + message)
}

func (f *fakeClient) SendFlightPlan(_ *fsd.FlightPlan) error { return f.sendErr }

func (f *fakeClient) SendClientQuery(queryType fsd.ClientQueryType, _ string, _ ...string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.queries = append(f.queries, queryType)
	return f.sendErr
}

func (f *fakeClient) SendPlaneInfoRequest(_ string) error      { return f.sendErr }
func (f *fakeClient) SendPlaneInfoRequestFsinn(_ string) error { return f.sendErr }

func (f *fakeClient) SendPing(receiver string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pings = append(f.pings, receiver)
	return f.sendErr
}

func (f *fakeClient) SendIncrementalAircraftConfig() error  { return f.sendErr }
func (f *fakeClient) AddInterimPositionReceiver(_ string)    {}
func (f *fakeClient) RemoveInterimPositionReceiver(_ string) {}

func (f *fakeClient) SetServer(_ string, _ string, _ uint) error     { return nil }
func (f *fakeClient) SetCallsign(_ string) error                     { return nil }
func (f *fakeClient) SetIcaoCodes(_ string, _ string) error          { return nil }
func (f *fakeClient) SetLiveryString(_ string) error                 { return nil }
func (f *fakeClient) SetModelString(_ string) error                  { return nil }
func (f *fakeClient) SetSimType(_ fsd.SimType) error                 { return nil }
func (f *fakeClient) SetLoginMode(_ fsd.LoginMode) error             { return nil }
func (f *fakeClient) SetCapabilities(_ fsd.Capabilities) error       { return nil }
func (f *fakeClient) SetPilotRating(_ fsd.PilotRating) error         { return nil }
func (f *fakeClient) SetAtcRating(_ fsd.AtcRating) error             { return nil }
func (f *fakeClient) SetSimulatorInfo(_ string) error                { return nil }
func (f *fakeClient) ConnectionStatus() fsd.ConnectionStatus         { return f.status }
func (f *fakeClient) IsConnected() bool                              { return f.status.IsConnected() }
func (f *fakeClient) ConnectedSince() time.Time                      { return time.Time{} }
func (f *fakeClient) ServerInfo() fsd.ServerInfo                     { return fsd.ServerInfo{Name: "TEST"} }
func (f *fakeClient) Statistics() fsd.Statistics                     { return fsd.Statistics{TotalSent: 1234} }
func (f *fakeClient) AtcStations() []fsd.AtcStation {
	return []fsd.AtcStation{{Callsign: "ZSSS_APP", Frequency: 120300}}
}

func (f *fakeClient) Subscribe(listener fsd.EventListener) func() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.listeners = append(f.listeners, listener)
	return func() {}
}

type staticConfigManager struct {
	config *config.Config
}

func (m *staticConfigManager) Config() *config.Config { return m.config }
func (m *staticConfigManager) Reload() error          { return nil }
func (m *staticConfigManager) SaveConfig() error      { return nil }

type apiBody struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, adminPassword string) (*echo.Echo, *fakeClient) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.HttpServer.EnableMetrics = true
	cfg.HttpServer.Limits.RateLimit = 1000
	cfg.HttpServer.Limits.TextLengthMax = 16
	cfg.HttpServer.JWT.Secret = strings.Repeat("s", 64)
	cfg.HttpServer.JWT.ExpiresDuration = time.Hour
	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.HttpServer.AdminPassword = string(hash)
	}
	logger := base.NewDiscardLogger()
	app := interfaces.NewApplicationContent(&staticConfigManager{config: cfg}, base.NewCleaner(logger), logger, nil)
	client := &fakeClient{}
	e, limiter := NewHttpServer(app, client)
	t.Cleanup(limiter.StopCleanup)
	return e, client
}

func doRequest(e *echo.Echo, method string, path string, body string, token string) (*httptest.ResponseRecorder, apiBody) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var parsed apiBody
	_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func issueToken(t *testing.T, e *echo.Echo, password string) string {
	t.Helper()
	rec, body := doRequest(e, http.MethodPost, "/api/token", `{"password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestStatusEndpoints(t *testing.T) {
	e, _ := newTestServer(t, "")

	rec, body := doRequest(e, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET_STATUS", body.Code)
	var status struct {
		Status    string `json:"status"`
		AtcCount  int    `json:"atc_count"`
		TotalSent string `json:"total_sent"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.Equal(t, "Disconnected", status.Status)
	assert.Equal(t, 1, status.AtcCount)
	assert.Equal(t, "1,234", status.TotalSent)

	rec, body = doRequest(e, http.MethodGet, "/api/atc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), "ZSSS_APP")

	rec, _ = doRequest(e, http.MethodGet, "/api/statistics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestControlDisabledWithoutPassword(t *testing.T) {
	e, client := newTestServer(t, "")

	rec, body := doRequest(e, http.MethodPost, "/api/connect", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CONTROL_DISABLED", body.Code)
	assert.Zero(t, client.connects)

	rec, body = doRequest(e, http.MethodPost, "/api/token", `{"password":"anything"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CONTROL_DISABLED", body.Code)
}

func TestTokenAndControl(t *testing.T) {
	e, client := newTestServer(t, "correct horse")

	rec, body := doRequest(e, http.MethodPost, "/api/token", `{"password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "WRONG_PASSWORD", body.Code)

	rec, body = doRequest(e, http.MethodPost, "/api/connect", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_OR_MALFORMED_JWT", body.Code)

	rec, body = doRequest(e, http.MethodPost, "/api/connect", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_JWT", body.Code)

	token := issueToken(t, e, "correct horse")

	rec, body = doRequest(e, http.MethodPost, "/api/connect", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONNECT", body.Code)
	assert.Equal(t, 1, client.connects)

	rec, body = doRequest(e, http.MethodPost, "/api/connect", "", token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CONNECTED", body.Code)

	rec, _ = doRequest(e, http.MethodPost, "/api/disconnect", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, client.disconnects)

	rec, body = doRequest(e, http.MethodPost, "/api/disconnect", "", token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CONNECTED", body.Code)
}

func TestSendText(t *testing.T) {
	e, client := newTestServer(t, "secret")
	token := issueToken(t, e, "secret")

	testCases := []struct {
		name     string
		body     string
		httpCode int
		code     string
	}{
		{"private", `{"type":"private","to":"ZSSS_APP","message":"hello"}`, http.StatusOK, "SEND_TEXT"},
		{"radio", `{"type":"radio","frequencies":[122800],"message":"hello"}`, http.StatusOK, "SEND_TEXT"},
		{"group default", `{"type":"group","message":"hello"}`, http.StatusOK, "SEND_TEXT"},
		{"empty message", `{"type":"private","to":"ZSSS_APP","message":"  "}`, http.StatusBadRequest, "PARAM_LACK_ERROR"},
		{"too long", `{"type":"private","to":"ZSSS_APP","message":"this message is too long"}`, http.StatusBadRequest, "TEXT_TOO_LONG"},
		{"missing receiver", `{"type":"private","message":"hello"}`, http.StatusBadRequest, "PARAM_LACK_ERROR"},
		{"missing frequency", `{"type":"radio","message":"hello"}`, http.StatusBadRequest, "PARAM_LACK_ERROR"},
		{"unknown type", `{"type":"fax","message":"hello"}`, http.StatusBadRequest, "PARAM_ERROR"},
	}

	pass, fail := 0, 0
	for _, tc := range testCases {
		rec, body := doRequest(e, http.MethodPost, "/api/text", tc.body, token)
		if rec.Code == tc.httpCode && body.Code == tc.code {
			pass++
			continue
		}
		fail++
		t.Errorf("%s: got %d %s; expected %d %s", tc.name, rec.Code, body.Code, tc.httpCode, tc.code)
	}
	t.Logf("SendText: %d passed, %d failed", pass, fail)

	assert.Equal(t, []string{"ZSSS_APP:hello", "radio:hello", "*:hello"}, client.texts)

	client.sendErr = fsd.ErrNotConnected
	rec, body := doRequest(e, http.MethodPost, "/api/text", `{"type":"private","to":"ZSSS_APP","message":"hi"}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CONNECTED", body.Code)
}

func TestSendPingAndQuery(t *testing.T) {
	e, client := newTestServer(t, "secret")
	token := issueToken(t, e, "secret")

	rec, body := doRequest(e, http.MethodPost, "/api/ping", `{"receiver":"ZSSS_APP"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SEND_PING", body.Code)
	assert.Equal(t, []string{"ZSSS_APP"}, client.pings)

	rec, body = doRequest(e, http.MethodPost, "/api/query", `{"type":"atis","callsign":"zsss_app"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SEND_QUERY", body.Code)

	rec, body = doRequest(e, http.MethodPost, "/api/query", `{"type":"bogus","callsign":"ZSSS_APP"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PARAM_ERROR", body.Code)

	assert.Equal(t, []fsd.ClientQueryType{fsd.QueryATIS}, client.queries)
}

func TestHistoryWithoutDatabase(t *testing.T) {
	e, _ := newTestServer(t, "")

	rec, body := doRequest(e, http.MethodGet, "/api/sessions?limit=5", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DATABASE_DISABLED", body.Code)

	rec, body = doRequest(e, http.MethodGet, "/api/flightplans/CES123", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DATABASE_DISABLED", body.Code)
}
