package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

type CommentRepo struct {
	db *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{db: pool}
}

func (r *CommentRepo) Save(ctx context.Context, comment *domain.Comment) error {
	q := `
		INSERT INTO comments (id, recipe_id, user_id, text, created_at)
		VALUES (@id, @recipe_id, @user_id, @text, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         comment.ID,
		"recipe_id":  comment.RecipeID,
		"user_id":    comment.UserID,
		"text":       comment.Text,
		"created_at": comment.CreatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return handleError(err)
	}
	return nil
}

// ListForRecipe : le plus récent d'abord.
func (r *CommentRepo) ListForRecipe(ctx context.Context, recipeID string) ([]*domain.Comment, error) {
	q := `
		SELECT id, recipe_id, user_id, text, created_at
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at DESC, id ASC
	`
	rows, err := r.db.Query(ctx, q, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db: list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
