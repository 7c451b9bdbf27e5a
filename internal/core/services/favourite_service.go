package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// FavouriteService est le registre des favoris.
// L'atomicité du toggle repose sur la contrainte UNIQUE (user_id, recipe_id) :
// l'insert concurrent identique est absorbé par le repo, jamais de doublon.
type FavouriteService struct {
	favs      ports.FavouriteRepository
	recipes   ports.RecipeRepository
	publisher ports.EventPublisher
}

func NewFavouriteService(favs ports.FavouriteRepository, recipes ports.RecipeRepository, pub ports.EventPublisher) *FavouriteService {
	return &FavouriteService{favs: favs, recipes: recipes, publisher: pub}
}

// Toggle bascule l'état favori et retourne le nouvel état + le compte.
// Idempotent par paires : deux appels consécutifs restaurent l'état initial.
func (s *FavouriteService) Toggle(ctx context.Context, viewerID, recipeID string) (*ports.ToggleResult, error) {
	// 1. La recette doit exister (et on a besoin du owner pour la notification)
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// 2. Insert-d'abord : si la paire existait, c'est un retrait.
	// Chaque branche est une écriture atomique adossée à la contrainte unique.
	inserted, err := s.favs.Insert(ctx, viewerID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("toggle insert: %w", err)
	}

	isFavourited := true
	if !inserted {
		if _, err := s.favs.Remove(ctx, viewerID, recipeID); err != nil {
			return nil, fmt.Errorf("toggle remove: %w", err)
		}
		isFavourited = false
	}

	// 3. Compte à jour (légèrement stale sous concurrence : acceptable,
	// le système est eventually-consistent à la granularité du refresh UI)
	count, err := s.favs.CountFor(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// 4. Notification au propriétaire, uniquement si l'action n'est pas la sienne
	if isFavourited && viewerID != recipe.OwnerID {
		if err := s.publisher.PublishFavouriteCreated(ctx, viewerID, recipeID, recipe.OwnerID); err != nil {
			slog.Error("❌ Failed to publish favourite event", "recipe_id", recipeID, "error", err)
		}
	}

	return &ports.ToggleResult{IsFavourited: isFavourited, FavouriteCount: count}, nil
}

func (s *FavouriteService) CountFor(ctx context.Context, recipeID string) (int, error) {
	return s.favs.CountFor(ctx, recipeID)
}

// FavouritesOf : les recettes favoritées par user, favori le plus récent
// d'abord — indépendant de la date de publication des recettes.
func (s *FavouriteService) FavouritesOf(ctx context.Context, userID string, page int) (domain.Page[*domain.Recipe], error) {
	recipes, err := s.recipes.ListFavouritedBy(ctx, userID)
	if err != nil {
		return domain.Page[*domain.Recipe]{}, err
	}
	return Paginate(recipes, FavouritePageSize, page), nil
}
