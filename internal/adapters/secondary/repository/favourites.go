package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavouriteRepo : la contrainte UNIQUE (user_id, recipe_id) rend chaque
// branche du toggle atomique. Insert et Remove rapportent si la ligne a
// réellement bougé — c'est le repo qui absorbe le conflit attendu.
type FavouriteRepo struct {
	db *pgxpool.Pool
}

func NewFavouriteRepo(pool *pgxpool.Pool) *FavouriteRepo {
	return &FavouriteRepo{db: pool}
}

// Insert retourne false si la paire existait déjà.
func (r *FavouriteRepo) Insert(ctx context.Context, userID, recipeID string) (bool, error) {
	q := `
		INSERT INTO favourites (user_id, recipe_id, favourited_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, q, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("db: insert favourite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove retourne false si la paire n'existait pas (no-op).
func (r *FavouriteRepo) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	q := `DELETE FROM favourites WHERE user_id = $1 AND recipe_id = $2`
	tag, err := r.db.Exec(ctx, q, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("db: remove favourite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FavouriteRepo) CountFor(ctx context.Context, recipeID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favourites WHERE recipe_id = $1`, recipeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db: count favourites: %w", err)
	}
	return count, nil
}

// CountsFor : agrégat batch pour le ranking. Les recettes sans favoris sont
// simplement absentes de la map (count zéro implicite).
func (r *FavouriteRepo) CountsFor(ctx context.Context, recipeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}

	q := `
		SELECT recipe_id, COUNT(*)
		FROM favourites
		WHERE recipe_id = ANY($1)
		GROUP BY recipe_id
	`
	rows, err := r.db.Query(ctx, q, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("db: count favourites batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}
