package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

type RecipeRepo struct {
	db *pgxpool.Pool
}

func NewRecipeRepo(pool *pgxpool.Pool) *RecipeRepo {
	return &RecipeRepo{db: pool}
}

const recipeColumns = `id, owner_id, title, description, visibility, difficulty, time_required, publication_date`

// Save : insertion recette + liens tags dans une même transaction.
func (r *RecipeRepo) Save(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback(ctx) // No-op si commit est passé

	q := `
		INSERT INTO recipes (id, owner_id, title, description, visibility, difficulty, time_required, publication_date)
		VALUES (@id, @owner_id, @title, @description, @visibility, @difficulty, @time_required, @publication_date)
	`
	args := pgx.NamedArgs{
		"id":               recipe.ID,
		"owner_id":         recipe.OwnerID,
		"title":            recipe.Title,
		"description":      recipe.Description,
		"visibility":       string(recipe.Visibility),
		"difficulty":       string(recipe.Difficulty),
		"time_required":    recipe.TimeRequired,
		"publication_date": recipe.PublicationDate,
	}
	if _, err := tx.Exec(ctx, q, args); err != nil {
		return handleError(err)
	}

	if err := replaceTagLinks(ctx, tx, recipe); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RecipeRepo) FindByID(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRow(ctx, q, recipeID))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*domain.Recipe{recipe}); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *RecipeRepo) Update(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `
		UPDATE recipes
		SET title = @title, description = @description, visibility = @visibility,
		    difficulty = @difficulty, time_required = @time_required
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":            recipe.ID,
		"title":         recipe.Title,
		"description":   recipe.Description,
		"visibility":    string(recipe.Visibility),
		"difficulty":    string(recipe.Difficulty),
		"time_required": recipe.TimeRequired,
	}
	tag, err := tx.Exec(ctx, q, args)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecipeNotFound
	}

	// Liens tags : on remplace tout, plus simple et toujours correct
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipe.ID); err != nil {
		return err
	}
	if err := replaceTagLinks(ctx, tx, recipe); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete : les favoris et commentaires suivent par ON DELETE CASCADE.
func (r *RecipeRepo) Delete(ctx context.Context, recipeID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, recipeID)
	return err
}

func (r *RecipeRepo) ListAll(ctx context.Context) ([]*domain.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes`
	return r.collect(ctx, q)
}

func (r *RecipeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes WHERE owner_id = $1`
	return r.collect(ctx, q, ownerID)
}

func (r *RecipeRepo) ListPublishedSince(ctx context.Context, since time.Time) ([]*domain.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes WHERE publication_date >= $1`
	return r.collect(ctx, q, since)
}

// ListFavouritedBy : l'ordre (favori le plus récent d'abord) vient de la
// jointure, pas de la date de publication de la recette.
func (r *RecipeRepo) ListFavouritedBy(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	q := `
		SELECT r.id, r.owner_id, r.title, r.description, r.visibility, r.difficulty, r.time_required, r.publication_date
		FROM recipes r
		JOIN favourites f ON f.recipe_id = r.id
		WHERE f.user_id = $1
		ORDER BY f.favourited_at DESC
	`
	return r.collect(ctx, q, userID)
}

// EnsureTags résout des noms en tags, créant les manquants.
// L'unicité par nom est portée par la contrainte ; l'insert concurrent du
// même nom est absorbé par ON CONFLICT DO NOTHING.
func (r *RecipeRepo) EnsureTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return []domain.Tag{}, nil
	}

	insert := `INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	for _, name := range names {
		if _, err := r.db.Exec(ctx, insert, name); err != nil {
			return nil, fmt.Errorf("db: ensure tag %q: %w", name, err)
		}
	}

	q := `SELECT id, name FROM tags WHERE name = ANY($1) ORDER BY name ASC`
	rows, err := r.db.Query(ctx, q, names)
	if err != nil {
		return nil, fmt.Errorf("db: select tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *RecipeRepo) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("db: list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// --- HELPERS ---

func (r *RecipeRepo) collect(ctx context.Context, q string, args ...any) ([]*domain.Recipe, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var rec domain.Recipe
	var visibility, difficulty string

	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.Description, &visibility, &difficulty, &rec.TimeRequired, &rec.PublicationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("db: scan recipe: %w", err)
	}

	rec.Visibility = domain.Visibility(visibility)
	rec.Difficulty = domain.Difficulty(difficulty)
	rec.Tags = []domain.Tag{}
	return &rec, nil
}

// loadTags hydrate les tags de tout un lot en une seule requête.
func (r *RecipeRepo) loadTags(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Recipe, len(recipes))
	ids := make([]string, len(recipes))
	for i, rec := range recipes {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}

	q := `
		SELECT rt.recipe_id, t.id, t.name
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.name ASC
	`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("db: load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID string
		var t domain.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name); err != nil {
			return err
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Tags = append(rec.Tags, t)
		}
	}
	return rows.Err()
}

func replaceTagLinks(ctx context.Context, tx pgx.Tx, recipe *domain.Recipe) error {
	for _, t := range recipe.Tags {
		q := `INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, q, recipe.ID, t.ID); err != nil {
			return fmt.Errorf("db: link tag: %w", err)
		}
	}
	return nil
}
