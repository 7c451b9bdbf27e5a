package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// GraphService porte les actions follow/unfollow et les lectures du graphe.
// Chaque issue d'une action est une erreur nommée distincte : le handler rend
// un message spécifique par cas, jamais un échec générique.
type GraphService struct {
	graph     ports.GraphRepository
	users     ports.UserRepository
	publisher ports.EventPublisher
}

func NewGraphService(graph ports.GraphRepository, users ports.UserRepository, pub ports.EventPublisher) *GraphService {
	return &GraphService{graph: graph, users: users, publisher: pub}
}

// Follow crée le lien viewer -> target.
// Les préconditions sont vérifiées AVANT l'écriture : on ne s'appuie pas sur
// un conflit storage pour détecter le doublon. Jamais d'état partiel.
func (s *GraphService) Follow(ctx context.Context, viewerID, targetHandle string) (*domain.User, error) {
	// 1. La cible doit exister
	target, err := s.users.GetByHandle(ctx, targetHandle)
	if err != nil {
		return nil, err // domain.ErrUserNotFound remonte tel quel
	}

	// 2. Pas de self-loop
	if target.ID == viewerID {
		return nil, domain.ErrSelfFollow
	}

	// 3. Au plus un lien par paire
	status, err := s.graph.GetRelationStatus(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if status.IsFollowing {
		return nil, domain.ErrAlreadyFollowing
	}

	// 4. Écriture
	if err := s.graph.CreateRelation(ctx, viewerID, target.ID); err != nil {
		return nil, fmt.Errorf("create relation: %w", err)
	}

	// 5. Notification au suivi (best effort — l'acteur n'est jamais la cible ici)
	if err := s.publisher.PublishFollowCreated(ctx, viewerID, target.ID); err != nil {
		slog.Error("❌ Failed to publish follow event", "follower", viewerID, "followee", target.ID, "error", err)
	}

	return target, nil
}

// Unfollow supprime le lien viewer -> target, avec la taxonomie symétrique.
func (s *GraphService) Unfollow(ctx context.Context, viewerID, targetHandle string) (*domain.User, error) {
	target, err := s.users.GetByHandle(ctx, targetHandle)
	if err != nil {
		return nil, err
	}

	if target.ID == viewerID {
		return nil, domain.ErrSelfUnfollow
	}

	status, err := s.graph.GetRelationStatus(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if !status.IsFollowing {
		return nil, domain.ErrNotFollowing
	}

	if err := s.graph.DeleteRelation(ctx, viewerID, target.ID); err != nil {
		return nil, fmt.Errorf("delete relation: %w", err)
	}
	return target, nil
}

func (s *GraphService) Follows(ctx context.Context, followerID, followeeID string) (bool, error) {
	status, err := s.graph.GetRelationStatus(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return status.IsFollowing, nil
}

// Mutual : les deux sens existent. Une seule lecture graphe.
func (s *GraphService) Mutual(ctx context.Context, a, b string) (bool, error) {
	status, err := s.graph.GetRelationStatus(ctx, a, b)
	if err != nil {
		return false, err
	}
	return status.Mutual(), nil
}

func (s *GraphService) Followers(ctx context.Context, userID string, page int) (domain.Page[*domain.User], error) {
	return s.hydratePage(ctx, userID, page, s.graph.FollowerIDs)
}

func (s *GraphService) Following(ctx context.Context, userID string, page int) (domain.Page[*domain.User], error) {
	return s.hydratePage(ctx, userID, page, s.graph.FolloweeIDs)
}

func (s *GraphService) FollowerCount(ctx context.Context, userID string) (int, error) {
	return s.graph.CountFollowers(ctx, userID)
}

func (s *GraphService) FolloweeCount(ctx context.Context, userID string) (int, error) {
	return s.graph.CountFollowees(ctx, userID)
}

func (s *GraphService) hydratePage(ctx context.Context, userID string, page int, list func(context.Context, string) ([]string, error)) (domain.Page[*domain.User], error) {
	ids, err := list(ctx, userID)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}

	idPage := Paginate(ids, FollowerPageSize, page)
	users, err := s.users.GetUsers(ctx, idPage.Items)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}

	return domain.Page[*domain.User]{
		Items:      users,
		Number:     idPage.Number,
		TotalPages: idPage.TotalPages,
		TotalItems: idPage.TotalItems,
		HasNext:    idPage.HasNext,
	}, nil
}
