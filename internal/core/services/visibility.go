package services

import (
	"context"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// IsVisible est LE prédicat de visibilité, sans état, appliqué partout où une
// collection de recettes est rendue (feed, browse, profil, dashboard).
// Historiquement chaque vue réimplémentait sa propre variante et elles
// divergeaient ; maintenant toutes passent ici.
//
// viewerID vide = viewer anonyme : seules les recettes publiques passent.
// mutual = follow dans les DEUX sens entre viewer et propriétaire.
func IsVisible(r *domain.Recipe, viewerID string, mutual bool) bool {
	switch r.Visibility {
	case domain.VisibilityPublic:
		return true
	case domain.VisibilityMe:
		return viewerID != "" && viewerID == r.OwnerID
	case domain.VisibilityFriends:
		if viewerID == "" {
			return false
		}
		// Le propriétaire voit toujours ses propres recettes
		return viewerID == r.OwnerID || mutual
	}
	return false
}

// filterVisible applique IsVisible à une liste de candidats, en résolvant la
// mutualité pour tous les propriétaires concernés en une seule requête graphe.
func filterVisible(ctx context.Context, graph ports.GraphRepository, recipes []*domain.Recipe, viewerID string) ([]*domain.Recipe, error) {
	// 1. Collecter les propriétaires pour lesquels la mutualité compte
	var ownerIDs []string
	seen := make(map[string]bool)
	for _, r := range recipes {
		if r.Visibility != domain.VisibilityFriends || r.OwnerID == viewerID {
			continue
		}
		if !seen[r.OwnerID] {
			seen[r.OwnerID] = true
			ownerIDs = append(ownerIDs, r.OwnerID)
		}
	}

	// 2. Un seul aller-retour graphe pour tout le lot
	mutual := map[string]bool{}
	if viewerID != "" && len(ownerIDs) > 0 {
		var err error
		mutual, err = graph.MutualWith(ctx, viewerID, ownerIDs)
		if err != nil {
			return nil, err
		}
	}

	// 3. Filtrage
	visible := make([]*domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if IsVisible(r, viewerID, mutual[r.OwnerID]) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}
