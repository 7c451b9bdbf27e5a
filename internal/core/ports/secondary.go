package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

// UserRepository est le port vers la table users (Postgres).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)

	// GetUsers hydrate une liste d'IDs en une seule requête (Batch).
	// L'ordre de sortie suit l'ordre des IDs demandés.
	GetUsers(ctx context.Context, ids []string) ([]*domain.User, error)

	// SearchByHandle : substring insensible à la casse.
	SearchByHandle(ctx context.Context, query string) ([]*domain.User, error)
}

// RecipeRepository est le port vers les tables recipes / tags.
type RecipeRepository interface {
	Save(ctx context.Context, recipe *domain.Recipe) error
	FindByID(ctx context.Context, recipeID string) (*domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, recipeID string) error

	// Candidats du pipeline. Le tri final appartient au core, pas au storage :
	// on ne dépend jamais d'un ordre de lecture instable.
	ListAll(ctx context.Context) ([]*domain.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error)
	ListPublishedSince(ctx context.Context, since time.Time) ([]*domain.Recipe, error)

	// ListFavouritedBy : les recettes favoritées par user, ordre favourited_at DESC.
	ListFavouritedBy(ctx context.Context, userID string) ([]*domain.Recipe, error)

	// EnsureTags résout des noms en tags, créant les manquants (unique par nom).
	EnsureTags(ctx context.Context, names []string) ([]domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

// GraphRepository est le port Driven vers Neo4j.
type GraphRepository interface {
	// EnsureSchema crée les contraintes et index (idempotent).
	EnsureSchema(ctx context.Context) error

	CreateRelation(ctx context.Context, followerID, followeeID string) error
	DeleteRelation(ctx context.Context, followerID, followeeID string) error
	GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)

	// Listes stables : ancienneté du lien croissante, ID en départage.
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowees(ctx context.Context, userID string) (int, error)

	// MutualWith répond "lesquels de ces owners sont en follow mutuel avec
	// viewer ?" en UNE requête — c'est le check de visibilité 'friends' du
	// pipeline, qui ne doit pas coûter un aller-retour par recette.
	MutualWith(ctx context.Context, viewerID string, ownerIDs []string) (map[string]bool, error)
}

// FavouriteRepository est le port vers la table favourites.
// L'unicité (user_id, recipe_id) est portée par la contrainte DB : c'est elle
// qui rend le toggle atomique face aux requêtes concurrentes identiques.
type FavouriteRepository interface {
	// Insert retourne false si la paire existait déjà (ON CONFLICT DO NOTHING).
	Insert(ctx context.Context, userID, recipeID string) (bool, error)
	// Remove retourne false si la paire n'existait pas.
	Remove(ctx context.Context, userID, recipeID string) (bool, error)

	CountFor(ctx context.Context, recipeID string) (int, error)
	// CountsFor alimente le ranking par popularité (Batch).
	CountsFor(ctx context.Context, recipeIDs []string) (map[string]int, error)
}

// CommentRepository est le port vers la table comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error
	ListForRecipe(ctx context.Context, recipeID string) ([]*domain.Comment, error)
}

// EventPublisher est le port vers NATS.
// Il notifie le collaborateur de notifications qu'un événement social a eu
// lieu — uniquement quand l'acteur n'est pas le propriétaire concerné.
type EventPublisher interface {
	PublishFollowCreated(ctx context.Context, followerID, followeeID string) error
	PublishFavouriteCreated(ctx context.Context, userID, recipeID, ownerID string) error
	PublishCommentCreated(ctx context.Context, comment *domain.Comment, ownerID string) error
}

// TokenVerifier valide les jetons émis par le service d'identité externe.
// On ne détient que la clé publique : jamais d'émission ici.
type TokenVerifier interface {
	Validate(token string) (userID string, err error)
}
