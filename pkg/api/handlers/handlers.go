package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/leglesslizard/pkg/game"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/cbodonnell/leglesslizard/pkg/version"
	"github.com/gorilla/mux"
)

// GameService is the part of the game the admin endpoints drive.
type GameService interface {
	Snapshot() *messages.StateUpdate
	KickPlayer(playerID string) error
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func HandleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.Get()})
}

func HandleGetState(g GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, g.Snapshot())
	}
}

func HandleKickPlayer(g GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := mux.Vars(r)["playerID"]
		if playerID == "" {
			http.Error(w, "Missing playerID", http.StatusBadRequest)
			return
		}

		if err := g.KickPlayer(playerID); err != nil {
			if game.IsPlayerNotFound(err) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			log.Error("failed to kick player %s: %v", playerID, err)
			http.Error(w, "Failed to kick player", http.StatusInternalServerError)
			return
		}

		log.Info("Kicked player %s", playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
