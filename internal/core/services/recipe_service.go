package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// RecipeService porte le cycle de vie des recettes et les commentaires.
// Création par le propriétaire, mutation et suppression par lui seul ; la
// suppression cascade favoris et commentaires (contrainte FK côté storage).
type RecipeService struct {
	recipes   ports.RecipeRepository
	comments  ports.CommentRepository
	graph     ports.GraphRepository
	publisher ports.EventPublisher
}

func NewRecipeService(recipes ports.RecipeRepository, comments ports.CommentRepository, graph ports.GraphRepository, pub ports.EventPublisher) *RecipeService {
	return &RecipeService{recipes: recipes, comments: comments, graph: graph, publisher: pub}
}

func (s *RecipeService) Create(ctx context.Context, cmd ports.CreateRecipeCmd) (*domain.Recipe, error) {
	// 1. Résolution des tags (créés s'ils manquent, uniques par nom)
	tags, err := s.recipes.EnsureTags(ctx, cmd.TagNames)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}

	// 2. La factory du domaine valide les invariants
	recipe, err := domain.NewRecipe(cmd.OwnerID, cmd.Title, cmd.Description, cmd.Visibility, cmd.Difficulty, cmd.TimeRequired, tags)
	if err != nil {
		return nil, err
	}

	// 3. Persistance
	if err := s.recipes.Save(ctx, recipe); err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}
	return recipe, nil
}

// Get applique le prédicat de visibilité aussi à la lecture unitaire :
// une recette invisible est indistinguable d'une recette absente.
func (s *RecipeService) Get(ctx context.Context, recipeID, viewerID string) (*domain.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	mutual := false
	if viewerID != "" && viewerID != recipe.OwnerID && recipe.Visibility == domain.VisibilityFriends {
		status, err := s.graph.GetRelationStatus(ctx, viewerID, recipe.OwnerID)
		if err != nil {
			return nil, err
		}
		mutual = status.Mutual()
	}

	if !IsVisible(recipe, viewerID, mutual) {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *RecipeService) Update(ctx context.Context, cmd ports.UpdateRecipeCmd) (*domain.Recipe, error) {
	// 1. Charger l'existant
	recipe, err := s.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}

	// 2. Seul le propriétaire peut modifier
	if recipe.OwnerID != cmd.ViewerID {
		return nil, domain.ErrNotOwner
	}

	// 3. Appliquer la révision (validation dans le domaine)
	tags, err := s.recipes.EnsureTags(ctx, cmd.TagNames)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}
	if err := recipe.Revise(cmd.Title, cmd.Description, cmd.Visibility, cmd.Difficulty, cmd.TimeRequired, tags); err != nil {
		return nil, err
	}

	// 4. Sauvegarde
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, recipeID, viewerID string) error {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.OwnerID != viewerID {
		return domain.ErrNotOwner
	}
	return s.recipes.Delete(ctx, recipeID)
}

// AddComment : le commentaire n'est accepté que si la recette est visible
// pour l'auteur ; un commentaire d'un tiers déclenche la notification.
func (s *RecipeService) AddComment(ctx context.Context, recipeID, viewerID, text string) (*domain.Comment, error) {
	recipe, err := s.Get(ctx, recipeID, viewerID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(recipeID, viewerID, text)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}

	if viewerID != recipe.OwnerID {
		if err := s.publisher.PublishCommentCreated(ctx, comment, recipe.OwnerID); err != nil {
			slog.Error("❌ Failed to publish comment event", "recipe_id", recipeID, "error", err)
		}
	}
	return comment, nil
}

func (s *RecipeService) Comments(ctx context.Context, recipeID, viewerID string) ([]*domain.Comment, error) {
	// La visibilité de la recette gouverne celle de ses commentaires
	if _, err := s.Get(ctx, recipeID, viewerID); err != nil {
		return nil, err
	}
	return s.comments.ListForRecipe(ctx, recipeID)
}

func (s *RecipeService) Tags(ctx context.Context) ([]domain.Tag, error) {
	return s.recipes.ListTags(ctx)
}
