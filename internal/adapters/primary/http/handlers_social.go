package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type followResponse struct {
	Message string `json:"message"`
}

// FollowUser : chaque issue (cible absente, self-follow, doublon, succès)
// rend son propre message utilisateur.
func (s *Server) FollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	target, err := s.graph.Follow(r.Context(), viewerID, chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, followResponse{
		Message: fmt.Sprintf("You are now following %s.", target.Handle),
	})
}

func (s *Server) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	target, err := s.graph.Unfollow(r.Context(), viewerID, chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, followResponse{
		Message: fmt.Sprintf("You have unfollowed %s", target.Handle),
	})
}

type toggleRequest struct {
	RecipeID string `json:"recipe_id"`
}

type toggleResponse struct {
	IsFavourited   bool `json:"is_favourited"`
	FavouriteCount int  `json:"favourite_count"`
}

// ToggleFavourite : résultat synchrone direct, pas de rendu de page.
func (s *Server) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecipeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "recipe_id is required."})
		return
	}

	result, err := s.favourites.Toggle(r.Context(), viewerID, req.RecipeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{
		IsFavourited:   result.IsFavourited,
		FavouriteCount: result.FavouriteCount,
	})
}

// ListFavourites : les favoris du viewer, favori le plus récent d'abord.
func (s *Server) ListFavourites(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	page, err := s.favourites.FavouritesOf(r.Context(), viewerID, parsePage(r, "page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRecipePage(page))
}
