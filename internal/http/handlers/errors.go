package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tapgame/backend/internal/game"
	"github.com/tapgame/backend/internal/http/respond"
	"github.com/tapgame/backend/internal/storage"
)

// writeCoreError maps core-service failures onto the API's status codes.
// Internal failures are logged with detail and surfaced generically.
func writeCoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error, notFoundMsg string) {
	var ve *game.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, storage.ErrConflict):
		respond.Error(w, http.StatusConflict, "already exists")
	default:
		logger.Error(op+" failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "server error")
	}
}
