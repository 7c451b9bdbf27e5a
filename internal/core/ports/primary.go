package ports

import (
	"context"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

// GraphService est le port Driving du graphe social.
type GraphService interface {
	// Follow / Unfollow opèrent par handle (c'est ce que l'UI connaît).
	// Les violations de politique reviennent en erreurs nommées du domaine.
	Follow(ctx context.Context, viewerID, targetHandle string) (*domain.User, error)
	Unfollow(ctx context.Context, viewerID, targetHandle string) (*domain.User, error)

	Follows(ctx context.Context, followerID, followeeID string) (bool, error)
	Mutual(ctx context.Context, a, b string) (bool, error)

	// Listes ordonnées par ancienneté du lien (stable), paginées.
	Followers(ctx context.Context, userID string, page int) (domain.Page[*domain.User], error)
	Following(ctx context.Context, userID string, page int) (domain.Page[*domain.User], error)
	FollowerCount(ctx context.Context, userID string) (int, error)
	FolloweeCount(ctx context.Context, userID string) (int, error)
}

// Dashboard regroupe ce que la page d'accueil affiche.
type Dashboard struct {
	Recipes []*domain.Recipe // Les recettes du viewer, récentes d'abord
	Popular []*domain.Recipe // Les plus favoritées des 30 derniers jours
}

// Profile est la vue publique d'un utilisateur.
type Profile struct {
	User          *domain.User
	FollowerCount int
	FolloweeCount int
	IsFollowing   bool // Le viewer suit-il ce profil ?
	Recipes       domain.Page[*domain.Recipe]
	Followers     domain.Page[*domain.User]
	Following     domain.Page[*domain.User]
}

// ProfilePages : numéros de pages indépendants des trois listes du profil.
type ProfilePages struct {
	Recipes   int
	Followers int
	Following int
}

// ListingService est le port Driving des surfaces de lecture.
// Toutes passent par le MÊME pipeline de visibilité et de ranking.
type ListingService interface {
	Feed(ctx context.Context, viewerID string, page int) (domain.Page[*domain.Recipe], error)
	Browse(ctx context.Context, viewerID string, opts domain.ListingOptions, page int) (domain.Page[*domain.Recipe], error)
	Dashboard(ctx context.Context, viewerID string) (*Dashboard, error)
	Profile(ctx context.Context, viewerID, handle string, pages ProfilePages) (*Profile, error)
	SearchUsers(ctx context.Context, query string, page int) (domain.Page[*domain.User], error)
}

// ToggleResult : réponse synchrone directe du toggle (pas de rendu de page).
type ToggleResult struct {
	IsFavourited   bool
	FavouriteCount int
}

// FavouriteService est le port Driving du registre des favoris.
type FavouriteService interface {
	// Toggle est idempotent par paires : deux appels consécutifs restaurent l'état initial.
	Toggle(ctx context.Context, viewerID, recipeID string) (*ToggleResult, error)
	CountFor(ctx context.Context, recipeID string) (int, error)
	FavouritesOf(ctx context.Context, userID string, page int) (domain.Page[*domain.Recipe], error)
}

// --- COMMANDES ---

type CreateRecipeCmd struct {
	OwnerID      string
	Title        string
	Description  string
	Visibility   domain.Visibility
	Difficulty   domain.Difficulty
	TimeRequired int
	TagNames     []string
}

type UpdateRecipeCmd struct {
	RecipeID     string
	ViewerID     string
	Title        string
	Description  string
	Visibility   domain.Visibility
	Difficulty   domain.Difficulty
	TimeRequired int
	TagNames     []string
}

// RecipeService est le port Driving du cycle de vie des recettes.
type RecipeService interface {
	Create(ctx context.Context, cmd CreateRecipeCmd) (*domain.Recipe, error)
	Get(ctx context.Context, recipeID, viewerID string) (*domain.Recipe, error)
	Update(ctx context.Context, cmd UpdateRecipeCmd) (*domain.Recipe, error)
	Delete(ctx context.Context, recipeID, viewerID string) error

	AddComment(ctx context.Context, recipeID, viewerID, text string) (*domain.Comment, error)
	Comments(ctx context.Context, recipeID, viewerID string) ([]*domain.Comment, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
}
