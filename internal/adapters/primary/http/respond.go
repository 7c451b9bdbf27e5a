package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError traduit chaque erreur nommée du domaine en issue distincte.
// Les violations de politique gardent leur message utilisateur spécifique,
// jamais d'échec générique pour un cas nommé.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "User not found."})
	case errors.Is(err, domain.ErrRecipeNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Recipe not found."})
	case errors.Is(err, domain.ErrSelfFollow):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Cannot follow yourself."})
	case errors.Is(err, domain.ErrSelfUnfollow):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Cannot unfollow yourself."})
	case errors.Is(err, domain.ErrAlreadyFollowing):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "You are already following this user."})
	case errors.Is(err, domain.ErrNotFollowing):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "You are not following this user."})
	case errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "You are not allowed to modify this recipe."})
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrInvalidVisibility),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidHandle),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrCommentTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		slog.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error."})
	}
}

// parsePage : page absente ou non numérique = page 1. Jamais une erreur —
// le clamp aux bornes appartient à la pagination elle-même.
func parsePage(r *http.Request, key string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
