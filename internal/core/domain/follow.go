package domain

import (
	"errors"
	"time"
)

// --- ERREURS DU DOMAINE ---
// Chaque violation de politique a son erreur nommée : le handler HTTP
// traduit chacune en message utilisateur distinct, jamais en erreur générique.
var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrSelfUnfollow     = errors.New("cannot unfollow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// --- ENTITÉS ---

// FollowEdge représente un lien dirigé dans le graphe (follower -> followee).
// Au plus un lien par paire ordonnée, jamais de self-loop.
// CreatedAt sert uniquement à l'ordre d'affichage, pas au ranking.
type FollowEdge struct {
	FollowerID string // Celui qui suit
	FolloweeID string // Celui qui est suivi
	CreatedAt  time.Time
}

// RelationStatus décrit les deux sens d'une relation, en une seule lecture.
type RelationStatus struct {
	IsFollowing  bool // Actor suit Target
	IsFollowedBy bool // Target suit Actor
}

// Mutual : la condition "friends" exige les DEUX sens.
func (s *RelationStatus) Mutual() bool {
	return s.IsFollowing && s.IsFollowedBy
}
