// Package http est l'adapter Primary : routing chi, auth, mapping JSON.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/recipify/internal/core/ports"
)

type Server struct {
	listings   ports.ListingService
	graph      ports.GraphService
	favourites ports.FavouriteService
	recipes    ports.RecipeService
	verifier   ports.TokenVerifier
}

func NewServer(
	listings ports.ListingService,
	graph ports.GraphService,
	favourites ports.FavouriteService,
	recipes ports.RecipeService,
	verifier ports.TokenVerifier,
) *Server {
	return &Server{
		listings:   listings,
		graph:      graph,
		favourites: favourites,
		recipes:    recipes,
		verifier:   verifier,
	}
}

// Handler assemble le routeur complet.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware global
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(AuthMiddleware(s.verifier))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Surfaces de lecture (anonyme autorisé sauf feed/dashboard)
		r.Get("/feed", s.Feed)
		r.Get("/dashboard", s.Dashboard)
		r.Get("/recipes", s.BrowseRecipes)
		r.Get("/recipes/{recipeID}", s.GetRecipe)
		r.Get("/recipes/{recipeID}/comments", s.ListComments)
		r.Get("/tags", s.ListTags)
		r.Get("/users", s.BrowseUsers)
		r.Get("/users/{handle}", s.Profile)

		// Écritures (viewer requis, vérifié dans chaque handler)
		r.Post("/recipes", s.CreateRecipe)
		r.Put("/recipes/{recipeID}", s.UpdateRecipe)
		r.Delete("/recipes/{recipeID}", s.DeleteRecipe)
		r.Post("/recipes/{recipeID}/comments", s.AddComment)
		r.Post("/users/{handle}/follow", s.FollowUser)
		r.Delete("/users/{handle}/follow", s.UnfollowUser)
		r.Post("/favourites/toggle", s.ToggleFavourite)
		r.Get("/favourites", s.ListFavourites)
	})

	// Instrumentation : chaque requête devient un span racine
	return otelhttp.NewHandler(r, "recipify-http")
}
