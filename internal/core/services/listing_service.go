package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// popularWindow : le bloc "populaires" du dashboard regarde 30 jours en arrière.
const popularWindow = 30 * 24 * time.Hour

// ListingService implémente le pipeline de filtrage et de ranking.
// Toutes les surfaces de lecture (feed, browse, dashboard, profil) passent
// par runPipeline : un seul prédicat de visibilité, un seul tri, zéro dérive
// entre points d'entrée.
type ListingService struct {
	recipes ports.RecipeRepository
	users   ports.UserRepository
	graph   ports.GraphRepository
	favs    ports.FavouriteRepository
}

func NewListingService(
	recipes ports.RecipeRepository,
	users ports.UserRepository,
	graph ports.GraphRepository,
	favs ports.FavouriteRepository,
) *ListingService {
	return &ListingService{
		recipes: recipes,
		users:   users,
		graph:   graph,
		favs:    favs,
	}
}

// --- SURFACES ---

// Feed : tout ce qui est visible pour le viewer, récent d'abord.
func (s *ListingService) Feed(ctx context.Context, viewerID string, page int) (domain.Page[*domain.Recipe], error) {
	candidates, err := s.recipes.ListAll(ctx)
	if err != nil {
		return domain.Page[*domain.Recipe]{}, err
	}

	result, err := s.runPipeline(ctx, viewerID, domain.ListingOptions{Sort: domain.SortRecent}, candidates)
	if err != nil {
		return domain.Page[*domain.Recipe]{}, err
	}
	return Paginate(result, RecipePageSize, page), nil
}

// Browse : recherche et filtres libres, mêmes règles de visibilité.
func (s *ListingService) Browse(ctx context.Context, viewerID string, opts domain.ListingOptions, page int) (domain.Page[*domain.Recipe], error) {
	var candidates []*domain.Recipe
	var err error

	// Le filtre owner est poussé au storage, le reste se joue ici
	if opts.OwnerID != nil {
		candidates, err = s.recipes.ListByOwner(ctx, *opts.OwnerID)
	} else {
		candidates, err = s.recipes.ListAll(ctx)
	}
	if err != nil {
		return domain.Page[*domain.Recipe]{}, err
	}

	result, err := s.runPipeline(ctx, viewerID, opts, candidates)
	if err != nil {
		return domain.Page[*domain.Recipe]{}, err
	}
	return Paginate(result, RecipePageSize, page), nil
}

// Dashboard : les recettes du viewer + les plus populaires du mois.
func (s *ListingService) Dashboard(ctx context.Context, viewerID string) (*ports.Dashboard, error) {
	// 1. Les recettes du viewer (il voit toujours les siennes)
	own, err := s.recipes.ListByOwner(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	sortRecent(own)

	// 2. Les populaires des 30 derniers jours, visibilité comprise
	since := time.Now().UTC().Add(-popularWindow)
	recent, err := s.recipes.ListPublishedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	popular, err := s.runPipeline(ctx, viewerID, domain.ListingOptions{Popular: true}, recent)
	if err != nil {
		return nil, err
	}
	if len(popular) > PopularLimit {
		popular = popular[:PopularLimit]
	}

	return &ports.Dashboard{Recipes: own, Popular: popular}, nil
}

// Profile : la vue publique d'un utilisateur, avec ses trois listes paginées.
func (s *ListingService) Profile(ctx context.Context, viewerID, handle string, pages ports.ProfilePages) (*ports.Profile, error) {
	user, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	// 1. Recettes du profil — même pipeline que partout ailleurs
	candidates, err := s.recipes.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	visible, err := s.runPipeline(ctx, viewerID, domain.ListingOptions{Sort: domain.SortRecent}, candidates)
	if err != nil {
		return nil, err
	}

	// 2. Compteurs et relation viewer -> profil
	followerCount, err := s.graph.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followeeCount, err := s.graph.CountFollowees(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != "" && viewerID != user.ID {
		status, err := s.graph.GetRelationStatus(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		isFollowing = status.IsFollowing
	}

	// 3. Listes followers / following (hydratation batch, ordre préservé)
	followers, err := s.followPage(ctx, user.ID, pages.Followers, s.graph.FollowerIDs)
	if err != nil {
		return nil, err
	}
	following, err := s.followPage(ctx, user.ID, pages.Following, s.graph.FolloweeIDs)
	if err != nil {
		return nil, err
	}

	return &ports.Profile{
		User:          user,
		FollowerCount: followerCount,
		FolloweeCount: followeeCount,
		IsFollowing:   isFollowing,
		Recipes:       Paginate(visible, RecipePageSize, pages.Recipes),
		Followers:     followers,
		Following:     following,
	}, nil
}

// SearchUsers : browse utilisateurs. Même politique que la recherche de
// recettes — une requête blanche rend une liste vide, pas tout l'annuaire.
func (s *ListingService) SearchUsers(ctx context.Context, query string, page int) (domain.Page[*domain.User], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Paginate[*domain.User](nil, RecipePageSize, page), nil
	}

	users, err := s.users.SearchByHandle(ctx, query)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return Paginate(users, RecipePageSize, page), nil
}

// --- PIPELINE ---

// runPipeline : filtres en conjonction, déduplication, visibilité, tri.
// Lecture pure : aucune mutation des données sous-jacentes, résultat
// déterministe pour des entrées identiques.
func (s *ListingService) runPipeline(ctx context.Context, viewerID string, opts domain.ListingOptions, candidates []*domain.Recipe) ([]*domain.Recipe, error) {
	// 1. Filtres (AND). Chaque clé absente = pas de contrainte.
	filtered, empty := applyFilters(candidates, opts)
	if empty {
		return []*domain.Recipe{}, nil
	}

	// 2. Déduplication (les jointures multi-tags ne doivent pas dupliquer)
	filtered = dedupe(filtered)

	// 3. Visibilité
	visible, err := filterVisible(ctx, s.graph, filtered, viewerID)
	if err != nil {
		return nil, err
	}

	// 4. Tri
	if opts.PopularitySort() {
		counts, err := s.favouriteCounts(ctx, visible)
		if err != nil {
			return nil, err
		}
		sortPopular(visible, counts)
	} else {
		sortRecent(visible)
	}

	return visible, nil
}

// applyFilters retourne (résultat, vide) — vide est vrai uniquement pour la
// règle de la requête blanche.
func applyFilters(candidates []*domain.Recipe, opts domain.ListingOptions) ([]*domain.Recipe, bool) {
	var query string
	if opts.Query != nil {
		query = strings.TrimSpace(*opts.Query)
		// Clé présente mais blanche : résultat vide, PAS "pas de filtre".
		// Une recherche vidée par accident ne déverse pas le catalogue.
		if query == "" {
			return nil, true
		}
		query = strings.ToLower(query)
	}

	out := make([]*domain.Recipe, 0, len(candidates))
	for _, r := range candidates {
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		if len(opts.Tags) > 0 && !matchesAnyTag(r, opts.Tags) {
			continue
		}
		if opts.OwnerID != nil && r.OwnerID != *opts.OwnerID {
			continue
		}
		if opts.Date != nil && !sameDay(r.PublicationDate, *opts.Date) {
			continue
		}
		if opts.Difficulty != nil && r.Difficulty != *opts.Difficulty {
			continue
		}
		if opts.TimeRequired != nil && r.TimeRequired != *opts.TimeRequired {
			continue
		}
		out = append(out, r)
	}
	return out, false
}

// matchesQuery : substring insensible à la casse sur titre OU description.
func matchesQuery(r *domain.Recipe, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(r.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(r.Description), loweredQuery)
}

// matchesAnyTag : au moins un des tags demandés, égalité stricte sur le nom.
func matchesAnyTag(r *domain.Recipe, names []string) bool {
	for _, name := range names {
		if r.HasTag(name) {
			return true
		}
	}
	return false
}

// sameDay : match sur le jour calendaire, heure ignorée (comparé en UTC).
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func dedupe(recipes []*domain.Recipe) []*domain.Recipe {
	seen := make(map[string]bool, len(recipes))
	out := recipes[:0:0]
	for _, r := range recipes {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// --- TRI ---

// sortRecent : date de publication décroissante, ID croissant en départage
// pour rester déterministe à date égale.
func sortRecent(recipes []*domain.Recipe) {
	slices.SortFunc(recipes, func(a, b *domain.Recipe) int {
		if c := b.PublicationDate.Compare(a.PublicationDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// sortPopular : nombre de favoris décroissant, récence en départage.
// Une recette avec moins de favoris ne passe JAMAIS devant une recette qui en
// a strictement plus ; les zéro-favoris tombent mécaniquement derrière, entre
// elles ordonnées par récence.
func sortPopular(recipes []*domain.Recipe, counts map[string]int) {
	slices.SortFunc(recipes, func(a, b *domain.Recipe) int {
		if c := counts[b.ID] - counts[a.ID]; c != 0 {
			return c
		}
		if c := b.PublicationDate.Compare(a.PublicationDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (s *ListingService) favouriteCounts(ctx context.Context, recipes []*domain.Recipe) (map[string]int, error) {
	if len(recipes) == 0 {
		return map[string]int{}, nil
	}
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	return s.favs.CountsFor(ctx, ids)
}

// followPage hydrate et pagine une liste de followers/followings.
func (s *ListingService) followPage(ctx context.Context, userID string, page int, list func(context.Context, string) ([]string, error)) (domain.Page[*domain.User], error) {
	ids, err := list(ctx, userID)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}

	// On ne pagine que les IDs, puis on hydrate uniquement la page servie
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
