package domain

import "time"

// Favourite est une relation de jointure (user, recipe), unique par paire.
// FavouritedAt ordonne la liste des favoris d'un utilisateur (récent d'abord) ;
// cet ordre est indépendant de la date de publication de la recette.
type Favourite struct {
	UserID       string
	RecipeID     string
	FavouritedAt time.Time
}
