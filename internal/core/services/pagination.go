package services

import "github.com/jupiterclapton/recipify/internal/core/domain"

// Tailles de pages par surface. L'algorithme lui-même n'en connaît aucune.
const (
	RecipePageSize    = 9  // Feed, browse, recettes d'un profil
	FollowerPageSize  = 5  // Listes followers / following
	FavouritePageSize = 12 // Liste des favoris
	PopularLimit      = 12 // Cap du bloc "populaires" du dashboard
)

// Paginate découpe une séquence ordonnée en pages de taille fixe.
// Tolérant par construction : une page hors bornes est clampée à la dernière
// page valide, une page < 1 à la première — jamais d'erreur, jamais de page
// vide tant qu'il y a des éléments. Une séquence vide donne la page 1 sur 1.
func Paginate[T any](items []T, pageSize, requested int) domain.Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	// Clamp aux bornes [1, totalPages]
	page := requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return domain.Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
		HasNext:    page < totalPages,
	}
}
