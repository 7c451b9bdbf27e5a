package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

type recipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Visibility   string   `json:"visibility"`
	Difficulty   string   `json:"difficulty"`
	TimeRequired int      `json:"time_required"`
	Tags         []string `json:"tags"`
}

func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	recipe, err := s.recipes.Create(r.Context(), ports.CreateRecipeCmd{
		OwnerID:      viewerID,
		Title:        req.Title,
		Description:  req.Description,
		Visibility:   domain.Visibility(req.Visibility),
		Difficulty:   domain.Difficulty(req.Difficulty),
		TimeRequired: req.TimeRequired,
		TagNames:     req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapRecipe(recipe))
}

func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "recipeID"), ViewerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRecipe(recipe))
}

func (s *Server) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	recipe, err := s.recipes.Update(r.Context(), ports.UpdateRecipeCmd{
		RecipeID:     chi.URLParam(r, "recipeID"),
		ViewerID:     viewerID,
		Title:        req.Title,
		Description:  req.Description,
		Visibility:   domain.Visibility(req.Visibility),
		Difficulty:   domain.Difficulty(req.Difficulty),
		TimeRequired: req.TimeRequired,
		TagNames:     req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRecipe(recipe))
}

func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := s.recipes.Delete(r.Context(), chi.URLParam(r, "recipeID"), viewerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	comment, err := s.recipes.AddComment(r.Context(), chi.URLParam(r, "recipeID"), viewerID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapComment(comment))
}

func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.recipes.Comments(r.Context(), chi.URLParam(r, "recipeID"), ViewerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]commentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = mapComment(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.recipes.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	writeJSON(w, http.StatusOK, names)
}
