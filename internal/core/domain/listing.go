package domain

import "time"

// SortMode : ordre appliqué au résultat final du pipeline.
type SortMode string

const (
	SortRecent  SortMode = "recent"  // Date de publication décroissante (défaut)
	SortPopular SortMode = "popular" // Nombre de favoris décroissant, récence en départage
)

// ListingOptions encapsule les critères de recherche du browse.
// Construction explicite et eager : pas d'accès dynamique aux paramètres de
// requête, pas d'évaluation différée. Un champ nil signifie "pas de
// contrainte" — SAUF pour Query : une recherche présente mais blanche
// après trim donne un résultat VIDE (un champ de recherche vidé par
// accident ne doit pas déverser tout le catalogue).
type ListingOptions struct {
	Query        *string
	Tags         []string // Au moins un tag doit matcher (égalité stricte)
	OwnerID      *string
	Date         *time.Time // Match sur le jour calendaire, heure ignorée
	Difficulty   *Difficulty
	TimeRequired *int
	Sort         SortMode
	Popular      bool // Le flag force le tri par popularité quel que soit Sort
}

// PopularitySort : vrai si le tri effectif est la popularité.
func (o ListingOptions) PopularitySort() bool {
	return o.Popular || o.Sort == SortPopular
}

// Page est une tranche bornée et ordonnée d'une séquence plus large,
// plus les métadonnées de navigation.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, numéro réellement servi (après clamp)
	TotalPages int
	TotalItems int
	HasNext    bool
}
