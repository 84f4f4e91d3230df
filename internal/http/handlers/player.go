package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tapgame/backend/internal/game"
	"github.com/tapgame/backend/internal/http/respond"
	"github.com/tapgame/backend/internal/models/dto"
)

// PlayerHandler owns the public player-facing endpoints.
type PlayerHandler struct {
	svc    *game.Service
	logger *slog.Logger
}

// NewPlayerHandler constructs the handler.
func NewPlayerHandler(svc *game.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{svc: svc, logger: logger}
}

// Register attaches the public routes to the mux.
func (h *PlayerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/player/sync", h.handleSync)
	mux.HandleFunc("POST /api/withdraw/create", h.handleCreateWithdraw)
}

func (h *PlayerHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	var req dto.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	player, err := h.svc.Sync(r.Context(), req.TgID, req.Username, req.State)
	if err != nil {
		writeCoreError(w, h.logger, "sync", err, "player not found")
		return
	}
	respond.JSON(w, http.StatusOK, dto.PlayerResponse{OK: true, Player: player})
}

func (h *PlayerHandler) handleCreateWithdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	withdrawal, err := h.svc.CreateWithdrawal(r.Context(), req.TgID, req.Tokens)
	if err != nil {
		writeCoreError(w, h.logger, "create withdrawal", err, "player not found")
		return
	}
	respond.JSON(w, http.StatusOK, dto.WithdrawResponse{OK: true, Withdraw: withdrawal})
}
