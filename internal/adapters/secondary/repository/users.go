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

// sqlUser est un DTO interne : tampon entre la base et le domaine.
type sqlUser struct {
	ID        string
	Handle    string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: pool}
}

const userColumns = `id, handle, first_name, last_name, email, created_at`

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u sqlUser
	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // Traduction technique -> Domaine
		}
		return nil, fmt.Errorf("db: get user by id: %w", err)
	}
	return u.toDomain(), nil
}

func (r *UserRepo) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE handle = $1`

	var u sqlUser
	err := r.db.QueryRow(ctx, q, handle).Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: get user by handle: %w", err)
	}
	return u.toDomain(), nil
}

// GetUsers : BATCH FETCH avec WHERE id = ANY($1).
// La base ne garantit pas l'ordre, on réordonne selon les IDs demandés.
func (r *UserRepo) GetUsers(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("db: get users: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.User, len(ids))
	for rows.Next() {
		var u sqlUser
		if err := rows.Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		byID[u.ID] = u.toDomain()
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// SearchByHandle : substring insensible à la casse, ordre stable par handle.
func (r *UserRepo) SearchByHandle(ctx context.Context, query string) ([]*domain.User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users
		WHERE handle ILIKE '%' || $1 || '%'
		ORDER BY handle ASC
	`
	rows, err := r.db.Query(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("db: search users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u sqlUser
		if err := rows.Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u.toDomain())
	}
	return users, rows.Err()
}

func (u *sqlUser) toDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Handle:    u.Handle,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
