package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

// NatsPublisher pousse les événements sociaux vers le service de
// notifications. Fire-and-forget du point de vue du core : un échec de
// publication ne fait jamais échouer la requête utilisateur.
type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// --- CONTRATS D'ÉVÉNEMENTS (implicites avec le Notification Service) ---

type FollowCreatedEvent struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FavouriteCreatedEvent struct {
	UserID    string    `json:"user_id"`
	RecipeID  string    `json:"recipe_id"`
	OwnerID   string    `json:"owner_id"` // Le destinataire de la notification
	CreatedAt time.Time `json:"created_at"`
}

type CommentCreatedEvent struct {
	CommentID string    `json:"comment_id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishFollowCreated(ctx context.Context, followerID, followeeID string) error {
	return p.publish(ctx, "follow.created", FollowCreatedEvent{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	})
}

func (p *NatsPublisher) PublishFavouriteCreated(ctx context.Context, userID, recipeID, ownerID string) error {
	return p.publish(ctx, "favourite.created", FavouriteCreatedEvent{
		UserID:    userID,
		RecipeID:  recipeID,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	})
}

func (p *NatsPublisher) PublishCommentCreated(ctx context.Context, comment *domain.Comment, ownerID string) error {
	return p.publish(ctx, "comment.created", CommentCreatedEvent{
		CommentID: comment.ID,
		RecipeID:  comment.RecipeID,
		UserID:    comment.UserID,
		OwnerID:   ownerID,
		CreatedAt: comment.CreatedAt,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du trace ID dans les headers NATS : le consommateur hérite
	// du contexte de trace de la requête HTTP d'origine
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("📢 Publishing event", "subject", subject)
	return p.nc.PublishMsg(msg)
}
