package http

import (
	"time"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// DTOs de sortie : le domaine reste sans tags JSON, le mapping vit ici.

type userDTO struct {
	ID       string `json:"id"`
	Handle   string `json:"handle"`
	FullName string `json:"full_name"`
	Gravatar string `json:"gravatar"`
}

type recipeDTO struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Visibility      string    `json:"visibility"`
	Difficulty      string    `json:"difficulty"`
	TimeRequired    int       `json:"time_required,omitempty"`
	Tags            []string  `json:"tags"`
	PublicationDate time.Time `json:"publication_date"`
}

type commentDTO struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type pageMetaDTO struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
}

type recipePageDTO struct {
	Recipes []recipeDTO `json:"recipes"`
	pageMetaDTO
}

type userPageDTO struct {
	Users []userDTO `json:"users"`
	pageMetaDTO
}

type profileDTO struct {
	User          userDTO       `json:"user"`
	FollowerCount int           `json:"follower_count"`
	FolloweeCount int           `json:"followee_count"`
	IsFollowing   bool          `json:"is_following"`
	Recipes       recipePageDTO `json:"recipes"`
	Followers     userPageDTO   `json:"followers"`
	Following     userPageDTO   `json:"following"`
}

type dashboardDTO struct {
	Recipes []recipeDTO `json:"recipes"`
	Popular []recipeDTO `json:"popular_recipes"`
}

// --- MAPPERS (Domain -> DTO) ---

func mapUser(u *domain.User) userDTO {
	return userDTO{
		ID:       u.ID,
		Handle:   u.Handle,
		FullName: u.FullName(),
		Gravatar: u.Gravatar(120),
	}
}

func mapRecipe(r *domain.Recipe) recipeDTO {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return recipeDTO{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		Title:           r.Title,
		Description:     r.Description,
		Visibility:      string(r.Visibility),
		Difficulty:      string(r.Difficulty),
		TimeRequired:    r.TimeRequired,
		Tags:            names,
		PublicationDate: r.PublicationDate,
	}
}

func mapComment(c *domain.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func mapMeta[T any](p domain.Page[T]) pageMetaDTO {
	return pageMetaDTO{
		Page:       p.Number,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		HasNext:    p.HasNext,
	}
}

func mapRecipePage(p domain.Page[*domain.Recipe]) recipePageDTO {
	recipes := make([]recipeDTO, len(p.Items))
	for i, r := range p.Items {
		recipes[i] = mapRecipe(r)
	}
	return recipePageDTO{Recipes: recipes, pageMetaDTO: mapMeta(p)}
}

func mapUserPage(p domain.Page[*domain.User]) userPageDTO {
	users := make([]userDTO, len(p.Items))
	for i, u := range p.Items {
		users[i] = mapUser(u)
	}
	return userPageDTO{Users: users, pageMetaDTO: mapMeta(p)}
}

func mapProfile(p *ports.Profile) profileDTO {
	return profileDTO{
		User:          mapUser(p.User),
		FollowerCount: p.FollowerCount,
		FolloweeCount: p.FolloweeCount,
		IsFollowing:   p.IsFollowing,
		Recipes:       mapRecipePage(p.Recipes),
		Followers:     mapUserPage(p.Followers),
		Following:     mapUserPage(p.Following),
	}
}

func mapDashboard(d *ports.Dashboard) dashboardDTO {
	recipes := make([]recipeDTO, len(d.Recipes))
	for i, r := range d.Recipes {
		recipes[i] = mapRecipe(r)
	}
	popular := make([]recipeDTO, len(d.Popular))
	for i, r := range d.Popular {
		popular[i] = mapRecipe(r)
	}
	return dashboardDTO{Recipes: recipes, Popular: popular}
}
