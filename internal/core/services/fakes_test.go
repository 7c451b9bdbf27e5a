package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

// Doubles in-memory pour tester le core sans Postgres ni Neo4j.
// Ils respectent les contrats des ports (ordre de sortie, sémantique batch)
// mais restent volontairement naïfs : aucune concurrence à gérer ici.

// --- USERS ---

type fakeUserRepo struct {
	users map[string]*domain.User // par ID
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByHandle(_ context.Context, handle string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUsers(_ context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchByHandle(_ context.Context, query string) ([]*domain.User, error) {
	lowered := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Handle), lowered) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}

// --- RECIPES ---

type fakeRecipeRepo struct {
	recipes map[string]*domain.Recipe
	tags    map[string]domain.Tag // par nom

	// favouritedBy simule la jointure favourites pour ListFavouritedBy,
	// dans l'ordre "favori le plus récent d'abord".
	favouritedBy map[string][]string

	saved   []*domain.Recipe
	deleted []string
}

func newFakeRecipeRepo(recipes ...*domain.Recipe) *fakeRecipeRepo {
	repo := &fakeRecipeRepo{
		recipes:      make(map[string]*domain.Recipe),
		tags:         make(map[string]domain.Tag),
		favouritedBy: make(map[string][]string),
	}
	for _, r := range recipes {
		repo.recipes[r.ID] = r
	}
	return repo
}

func (r *fakeRecipeRepo) Save(_ context.Context, recipe *domain.Recipe) error {
	r.recipes[recipe.ID] = recipe
	r.saved = append(r.saved, recipe)
	return nil
}

func (r *fakeRecipeRepo) FindByID(_ context.Context, recipeID string) (*domain.Recipe, error) {
	if rec, ok := r.recipes[recipeID]; ok {
		return rec, nil
	}
	return nil, domain.ErrRecipeNotFound
}

func (r *fakeRecipeRepo) Update(_ context.Context, recipe *domain.Recipe) error {
	if _, ok := r.recipes[recipe.ID]; !ok {
		return domain.ErrRecipeNotFound
	}
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *fakeRecipeRepo) Delete(_ context.Context, recipeID string) error {
	if _, ok := r.recipes[recipeID]; !ok {
		return domain.ErrRecipeNotFound
	}
	delete(r.recipes, recipeID)
	r.deleted = append(r.deleted, recipeID)
	return nil
}

func (r *fakeRecipeRepo) ListAll(_ context.Context) ([]*domain.Recipe, error) {
	out := make([]*domain.Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, rec)
	}
	// Ordre volontairement instable à l'itération de map : le pipeline doit
	// trier lui-même, c'est précisément ce qu'on veut vérifier.
	return out, nil
}

func (r *fakeRecipeRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Recipe, error) {
	var out []*domain.Recipe
	for _, rec := range r.recipes {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipeRepo) ListPublishedSince(_ context.Context, since time.Time) ([]*domain.Recipe, error) {
	var out []*domain.Recipe
	for _, rec := range r.recipes {
		if !rec.PublicationDate.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipeRepo) ListFavouritedBy(_ context.Context, userID string) ([]*domain.Recipe, error) {
	var out []*domain.Recipe
	for _, id := range r.favouritedBy[userID] {
		if rec, ok := r.recipes[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipeRepo) EnsureTags(_ context.Context, names []string) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := r.tags[name]
		if !ok {
			tag = domain.Tag{ID: "tag-" + name, Name: name}
			r.tags[name] = tag
		}
		out = append(out, tag)
	}
	return out, nil
}

func (r *fakeRecipeRepo) ListTags(_ context.Context) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- GRAPH ---

type fakeGraphRepo struct {
	// edges[follower] = liste ordonnée de followees (ordre d'insertion)
	edges map[string][]string
}

func newFakeGraphRepo() *fakeGraphRepo {
	return &fakeGraphRepo{edges: make(map[string][]string)}
}

// follow câble un lien directement, sans passer par le service.
func (g *fakeGraphRepo) follow(follower, followee string) {
	g.edges[follower] = append(g.edges[follower], followee)
}

func (g *fakeGraphRepo) has(follower, followee string) bool {
	return slices.Contains(g.edges[follower], followee)
}

func (g *fakeGraphRepo) EnsureSchema(_ context.Context) error { return nil }

func (g *fakeGraphRepo) CreateRelation(_ context.Context, followerID, followeeID string) error {
	if !g.has(followerID, followeeID) {
		g.follow(followerID, followeeID)
	}
	return nil
}

func (g *fakeGraphRepo) DeleteRelation(_ context.Context, followerID, followeeID string) error {
	g.edges[followerID] = slices.DeleteFunc(g.edges[followerID], func(id string) bool {
		return id == followeeID
	})
	return nil
}

func (g *fakeGraphRepo) GetRelationStatus(_ context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	return &domain.RelationStatus{
		IsFollowing:  g.has(actorID, targetID),
		IsFollowedBy: g.has(targetID, actorID),
	}, nil
}

func (g *fakeGraphRepo) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	var out []string
	for follower, followees := range g.edges {
		if slices.Contains(followees, userID) {
			out = append(out, follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (g *fakeGraphRepo) FolloweeIDs(_ context.Context, userID string) ([]string, error) {
	return slices.Clone(g.edges[userID]), nil
}

func (g *fakeGraphRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	ids, _ := g.FollowerIDs(ctx, userID)
	return len(ids), nil
}

func (g *fakeGraphRepo) CountFollowees(_ context.Context, userID string) (int, error) {
	return len(g.edges[userID]), nil
}

func (g *fakeGraphRepo) MutualWith(_ context.Context, viewerID string, ownerIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ownerIDs))
	for _, owner := range ownerIDs {
		if g.has(viewerID, owner) && g.has(owner, viewerID) {
			out[owner] = true
		}
	}
	return out, nil
}

// --- FAVOURITES ---

type fakeFavouriteRepo struct {
	pairs map[string]map[string]bool // recipeID -> set de userIDs
}

func newFakeFavouriteRepo() *fakeFavouriteRepo {
	return &fakeFavouriteRepo{pairs: make(map[string]map[string]bool)}
}

func (f *fakeFavouriteRepo) set(userID, recipeID string) {
	if f.pairs[recipeID] == nil {
		f.pairs[recipeID] = make(map[string]bool)
	}
	f.pairs[recipeID][userID] = true
}

func (f *fakeFavouriteRepo) Insert(_ context.Context, userID, recipeID string) (bool, error) {
	if f.pairs[recipeID][userID] {
		return false, nil
	}
	f.set(userID, recipeID)
	return true, nil
}

func (f *fakeFavouriteRepo) Remove(_ context.Context, userID, recipeID string) (bool, error) {
	if !f.pairs[recipeID][userID] {
		return false, nil
	}
	delete(f.pairs[recipeID], userID)
	return true, nil
}

func (f *fakeFavouriteRepo) CountFor(_ context.Context, recipeID string) (int, error) {
	return len(f.pairs[recipeID]), nil
}

func (f *fakeFavouriteRepo) CountsFor(_ context.Context, recipeIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(recipeIDs))
	for _, id := range recipeIDs {
		if n := len(f.pairs[id]); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

// --- COMMENTS ---

type fakeCommentRepo struct {
	comments map[string][]*domain.Comment // par recipeID
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string][]*domain.Comment)}
}

func (c *fakeCommentRepo) Save(_ context.Context, comment *domain.Comment) error {
	c.comments[comment.RecipeID] = append(c.comments[comment.RecipeID], comment)
	return nil
}

func (c *fakeCommentRepo) ListForRecipe(_ context.Context, recipeID string) ([]*domain.Comment, error) {
	return c.comments[recipeID], nil
}

// --- EVENTS ---

type publishedEvent struct {
	kind     string
	actorID  string
	targetID string // followee, ou owner de la recette
	recipeID string
}

type fakePublisher struct {
	events []publishedEvent
	fail   bool
}

func (p *fakePublisher) PublishFollowCreated(_ context.Context, followerID, followeeID string) error {
	if p.fail {
		return errAlwaysFail
	}
	p.events = append(p.events, publishedEvent{kind: "follow", actorID: followerID, targetID: followeeID})
	return nil
}

func (p *fakePublisher) PublishFavouriteCreated(_ context.Context, userID, recipeID, ownerID string) error {
	if p.fail {
		return errAlwaysFail
	}
	p.events = append(p.events, publishedEvent{kind: "favourite", actorID: userID, targetID: ownerID, recipeID: recipeID})
	return nil
}

func (p *fakePublisher) PublishCommentCreated(_ context.Context, comment *domain.Comment, ownerID string) error {
	if p.fail {
		return errAlwaysFail
	}
	p.events = append(p.events, publishedEvent{kind: "comment", actorID: comment.UserID, targetID: ownerID, recipeID: comment.RecipeID})
	return nil
}

var errAlwaysFail = errors.New("broker unavailable")

// --- BUILDERS ---

func testUser(id, handle string) *domain.User {
	return &domain.User{
		ID:        id,
		Handle:    handle,
		FirstName: "Test",
		LastName:  "User",
		Email:     handle[1:] + "@example.org",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testRecipe(id, ownerID, title string, vis domain.Visibility, published time.Time) *domain.Recipe {
	return &domain.Recipe{
		ID:              id,
		OwnerID:         ownerID,
		Title:           title,
		Description:     "A description long enough to be valid.",
		Visibility:      vis,
		Difficulty:      domain.DifficultyBeginner,
		TimeRequired:    30,
		PublicationDate: published,
	}
}
