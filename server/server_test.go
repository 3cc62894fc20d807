package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"command-api/confs"
	"command-api/db"
	"command-api/repositories"
	"command-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, mgr *ws.Manager) *httptest.Server {
	t.Helper()
	database, err := db.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	srv := NewServer(confs.Config{Store: confs.StoreSQLite}, repositories.NewCommandGormRepository(database), mgr)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/commands", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	srv := NewServer(confs.Config{AllowedOrigins: []string{"http://allowed.test"}}, repositories.NewCommandMemRepository(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/commands", nil)
	req.Header.Set("Origin", "http://allowed.test")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/commands", nil)
	req.Header.Set("Origin", "http://other.test")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFeedIsDisabledWithoutManager(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/subscribers")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChangeFeedReceivesWrites(t *testing.T) {
	mgr := ws.NewManager()
	ts := newTestServer(t, mgr)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/commands"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return mgr.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/commands", "application/json",
		strings.NewReader(`{"how_to":"Build","platform":"CLI","command_line":"make build"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// rejected writes publish nothing
	resp, err = http.Post(ts.URL+"/api/commands", "application/json", strings.NewReader(`{"how_to":"Build"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/commands/1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var kinds []string
	for i := 0; i < 2; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev struct {
			Type      string `json:"type"`
			CommandID uint   `json:"command_id"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, uint(1), ev.CommandID)
		kinds = append(kinds, ev.Type)
	}
	assert.Equal(t, []string{"command_created", "command_deleted"}, kinds)

	subs, err := http.Get(ts.URL + "/api/subscribers")
	require.NoError(t, err)
	defer subs.Body.Close()
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(subs.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
}

func TestWritesAreNotHeldUpByIdleSubscriber(t *testing.T) {
	mgr := ws.NewManager()
	ts := newTestServer(t, mgr)

	// subscribes but never reads
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/commands"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return mgr.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	client := &http.Client{Timeout: 5 * time.Second}
	body, err := json.Marshal(map[string]string{
		"how_to":       strings.Repeat("x", 1<<20),
		"platform":     "CLI",
		"command_line": "make build",
	})
	require.NoError(t, err)

	for i := 0; i < 40; i++ {
		resp, err := client.Post(ts.URL+"/api/commands", "application/json", bytes.NewReader(body))
		require.NoError(t, err, "POST #%d", i+1)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
}
