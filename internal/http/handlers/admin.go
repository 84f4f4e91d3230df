package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tapgame/backend/internal/auth"
	"github.com/tapgame/backend/internal/game"
	"github.com/tapgame/backend/internal/http/respond"
	"github.com/tapgame/backend/internal/middleware"
	"github.com/tapgame/backend/internal/models"
	"github.com/tapgame/backend/internal/models/dto"
)

// AdminHandler owns the operator endpoints: login, player lookup and
// balance correction, and withdrawal review.
type AdminHandler struct {
	svc    *game.Service
	gate   *auth.Gate
	logger *slog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc *game.Service, gate *auth.Gate, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, gate: gate, logger: logger}
}

// Register attaches the admin routes to the mux. Everything except login
// sits behind the bearer-token guard.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", h.handleLogin)
	mux.Handle("GET /api/admin/player/{tg_id}", h.guard(h.handleGetPlayer))
	mux.Handle("GET /api/admin/players", h.guard(h.handleListPlayers))
	mux.Handle("POST /api/admin/player/update-balance", h.guard(h.handleUpdateBalance))
	mux.Handle("GET /api/admin/withdraws", h.guard(h.handleListWithdraws))
	mux.Handle("POST /api/admin/withdraws/{id}/status", h.guard(h.handleSetStatus))
}

func (h *AdminHandler) guard(next http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h.gate, next)
}

func (h *AdminHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	token, err := h.gate.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "invalid password")
			return
		}
		h.logger.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "server error")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AdminHandler) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, withdrawals, err := h.svc.PlayerDetail(r.Context(), r.PathValue("tg_id"))
	if err != nil {
		writeCoreError(w, h.logger, "player detail", err, "player not found")
		return
	}
	respond.JSON(w, http.StatusOK, dto.PlayerDetailResponse{Player: player, Withdraws: withdrawals})
}

func (h *AdminHandler) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.svc.ListPlayers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeCoreError(w, h.logger, "list players", err, "not found")
		return
	}
	respond.JSON(w, http.StatusOK, players)
}

func (h *AdminHandler) handleUpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	player, err := h.svc.AdjustBalance(r.Context(), req.TgID, req.AddGold, req.AddToken)
	if err != nil {
		writeCoreError(w, h.logger, "update balance", err, "player not found")
		return
	}
	respond.JSON(w, http.StatusOK, dto.PlayerResponse{OK: true, Player: player})
}

func (h *AdminHandler) handleListWithdraws(w http.ResponseWriter, r *http.Request) {
	status := models.WithdrawalStatus(r.URL.Query().Get("status"))
	withdrawals, err := h.svc.ListWithdrawals(r.Context(), status)
	if err != nil {
		writeCoreError(w, h.logger, "list withdrawals", err, "not found")
		return
	}
	respond.JSON(w, http.StatusOK, withdrawals)
}

func (h *AdminHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req dto.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	withdrawal, err := h.svc.SetWithdrawalStatus(r.Context(), id, models.WithdrawalStatus(req.Status), req.Note)
	if err != nil {
		writeCoreError(w, h.logger, "set withdrawal status", err, "not found")
		return
	}
	respond.JSON(w, http.StatusOK, dto.WithdrawResponse{OK: true, Withdraw: withdrawal})
}
