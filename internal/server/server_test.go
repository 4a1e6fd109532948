package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-tourney/internal/randutil"
)

func TestHandleHealthReportsLobbyState(t *testing.T) {
	t.Parallel()
	srv := NewServer(DefaultServerConfig(), testLogger(), quartz.NewReal(), randutil.New(1))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["started"])
	assert.Equal(t, float64(0), body["current_players"])
	assert.Equal(t, float64(2), body["min_players"])
	assert.Equal(t, float64(9), body["max_players"])
}
