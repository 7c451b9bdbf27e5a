package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// Feed : tout ce qui est visible pour le viewer, récent d'abord.
func (s *Server) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	page, err := s.listings.Feed(r.Context(), viewerID, parsePage(r, "page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRecipePage(page))
}

// BrowseRecipes : recherche et filtres libres, accessible en anonyme.
func (s *Server) BrowseRecipes(w http.ResponseWriter, r *http.Request) {
	opts := parseListingOptions(r)

	page, err := s.listings.Browse(r.Context(), ViewerID(r.Context()), opts, parsePage(r, "page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRecipePage(page))
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	viewerID := ViewerID(r.Context())
	if viewerID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	dashboard, err := s.listings.Dashboard(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDashboard(dashboard))
}

// Profile : vue publique d'un utilisateur, trois listes paginées
// indépendamment (?page=, ?follower_page=, ?following_page=).
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := s.listings.Profile(r.Context(), ViewerID(r.Context()), handle, ports.ProfilePages{
		Recipes:   parsePage(r, "page"),
		Followers: parsePage(r, "follower_page"),
		Following: parsePage(r, "following_page"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProfile(profile))
}

// BrowseUsers : recherche d'utilisateurs par handle.
func (s *Server) BrowseUsers(w http.ResponseWriter, r *http.Request) {
	page, err := s.listings.SearchUsers(r.Context(), r.URL.Query().Get("q"), parsePage(r, "page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUserPage(page))
}

// parseListingOptions construit la configuration explicite du pipeline depuis
// les paramètres de requête. Les valeurs invalides sont des erreurs de
// validation récupérées localement : filtre ignoré, jamais d'échec dur.
func parseListingOptions(r *http.Request) domain.ListingOptions {
	q := r.URL.Query()
	var opts domain.ListingOptions

	// Clé présente (même blanche) vs clé absente : la distinction compte
	if q.Has("q") {
		raw := q.Get("q")
		opts.Query = &raw
	}

	if tags := q["tag"]; len(tags) > 0 {
		opts.Tags = tags
	}

	if owner := q.Get("owner_id"); owner != "" {
		opts.OwnerID = &owner
	}

	if raw := q.Get("date"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			opts.Date = &date
		}
	}

	if raw := q.Get("difficulty"); raw != "" {
		if difficulty, err := domain.ParseDifficulty(raw); err == nil {
			opts.Difficulty = &difficulty
		}
	}

	if raw := q.Get("time_required"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes != 0 && domain.ValidTime(minutes) {
			opts.TimeRequired = &minutes
		}
	}

	opts.Sort = domain.SortRecent
	if q.Get("sort") == string(domain.SortPopular) {
		opts.Sort = domain.SortPopular
	}
	opts.Popular = q.Get("popular") != ""

	return opts
}
