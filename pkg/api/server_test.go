package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cbodonnell/leglesslizard/pkg/game"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	snapshot *messages.StateUpdate
	players  map[string]bool
	kicked   []string
}

func (f *fakeGame) Snapshot() *messages.StateUpdate {
	return f.snapshot
}

func (f *fakeGame) KickPlayer(playerID string) error {
	if !f.players[playerID] {
		return &game.PlayerNotFoundError{PlayerID: playerID}
	}
	f.kicked = append(f.kicked, playerID)
	return nil
}

func newTestRouter(g *fakeGame) http.Handler {
	return NewRouter(NewAPIServerOptions{
		Game: g,
		WSHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&fakeGame{})

	rec := serve(router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = serve(router, http.MethodGet, "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"dev"}`, rec.Body.String())
}

func TestRouter_WebSocketRoute(t *testing.T) {
	rec := serve(newTestRouter(&fakeGame{}), http.MethodGet, "/ws")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouter_State(t *testing.T) {
	g := &fakeGame{snapshot: &messages.StateUpdate{
		Tick:    12,
		Players: []messages.PlayerSnapshot{{ID: "p1", Name: "Ada"}},
	}}
	rec := serve(newTestRouter(g), http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(12), body["tick"])
	players := body["players"].([]interface{})
	require.Len(t, players, 1)
	assert.Equal(t, "Ada", players[0].(map[string]interface{})["name"])
}

func TestRouter_KickPlayer(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
	}{
		{name: "kicked", method: http.MethodDelete, target: "/players/p1", wantCode: http.StatusNoContent},
		{name: "unknown player", method: http.MethodDelete, target: "/players/nobody", wantCode: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPost, target: "/players/p1", wantCode: http.StatusMethodNotAllowed},
		{name: "preflight", method: http.MethodOptions, target: "/players/p1", wantCode: http.StatusNoContent},
		{name: "state preflight", method: http.MethodOptions, target: "/state", wantCode: http.StatusNoContent},
		{name: "unknown path preflight", method: http.MethodOptions, target: "/unknown", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGame{players: map[string]bool{"p1": true}}
			rec := serve(newTestRouter(g), tt.method, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
