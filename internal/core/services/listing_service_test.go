package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/recipify/internal/core/domain"
	"github.com/jupiterclapton/recipify/internal/core/ports"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func newListingFixture(recipes ...*domain.Recipe) (*ListingService, *fakeRecipeRepo, *fakeGraphRepo, *fakeFavouriteRepo, *fakeUserRepo) {
	recipeRepo := newFakeRecipeRepo(recipes...)
	userRepo := newFakeUserRepo(testUser("alice", "@alice"), testUser("bob", "@bob"), testUser("carol", "@carol"))
	graph := newFakeGraphRepo()
	favs := newFakeFavouriteRepo()
	svc := NewListingService(recipeRepo, userRepo, graph, favs)
	return svc, recipeRepo, graph, favs, userRepo
}

// --- QUERY ---

func TestBrowse_QueryMatchesTitleOrDescription(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Vanilla Cake", domain.VisibilityPublic, day(1))
	r2 := testRecipe("r2", "alice", "Chocolate Cake", domain.VisibilityPublic, day(2))
	r3 := testRecipe("r3", "alice", "Caramel Brownies", domain.VisibilityPublic, day(3))
	r4 := testRecipe("r4", "alice", "Soup", domain.VisibilityPublic, day(4))
	r4.Description = "A rich cake-flavoured broth, somehow."

	svc, _, _, _, _ := newListingFixture(r1, r2, r3, r4)

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Query: strPtr("cake")}, 1)
	require.NoError(t, err)

	// Titre OU description, récent d'abord
	assert.Equal(t, []string{"r4", "r2", "r1"}, recipeIDs(page.Items))
}

func TestBrowse_QueryIsCaseInsensitiveAndTrimmed(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Chocolate Cake", domain.VisibilityPublic, day(1))
	svc, _, _, _, _ := newListingFixture(r1)

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Query: strPtr("  CaKe  ")}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)
}

func TestBrowse_BlankQueryReturnsEmpty(t *testing.T) {
	// Une recherche présente mais blanche donne un résultat VIDE,
	// pas "pas de filtre" : on ne déverse pas le catalogue.
	r1 := testRecipe("r1", "alice", "Cake", domain.VisibilityPublic, day(1))
	svc, _, _, _, _ := newListingFixture(r1)

	for _, q := range []string{"", "   ", "\t"} {
		page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Query: strPtr(q)}, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Items, "query %q", q)
		assert.Equal(t, 0, page.TotalItems)
	}
}

func TestBrowse_NoQueryMeansNoConstraint(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Cake", domain.VisibilityPublic, day(1))
	r2 := testRecipe("r2", "alice", "Soup", domain.VisibilityPublic, day(2))
	svc, _, _, _, _ := newListingFixture(r1, r2)

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

// --- FILTRES ---

func TestBrowse_FiltersAreConjunctive(t *testing.T) {
	diff := domain.DifficultyAdvanced
	r1 := testRecipe("r1", "alice", "Cake", domain.VisibilityPublic, day(1))
	r1.Difficulty = domain.DifficultyAdvanced
	r2 := testRecipe("r2", "alice", "Cake", domain.VisibilityPublic, day(2))
	r2.Difficulty = domain.DifficultyBeginner
	r3 := testRecipe("r3", "alice", "Soup", domain.VisibilityPublic, day(3))
	r3.Difficulty = domain.DifficultyAdvanced

	svc, _, _, _, _ := newListingFixture(r1, r2, r3)

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{
		Query:      strPtr("cake"),
		Difficulty: &diff,
	}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)
}

func TestBrowse_TagFilterMatchesAnyOf(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Cake", domain.VisibilityPublic, day(1))
	r1.Tags = []domain.Tag{{ID: "t1", Name: "dessert"}}
	r2 := testRecipe("r2", "alice", "Soup", domain.VisibilityPublic, day(2))
	r2.Tags = []domain.Tag{{ID: "t2", Name: "starter"}}
	r3 := testRecipe("r3", "alice", "Bread", domain.VisibilityPublic, day(3))

	svc, _, _, _, _ := newListingFixture(r1, r2, r3)

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Tags: []string{"dessert", "starter"}}, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, recipeIDs(page.Items))
}

func TestBrowse_DateFilterIgnoresTimeOfDay(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Morning", domain.VisibilityPublic, time.Date(2026, 8, 5, 7, 30, 0, 0, time.UTC))
	r2 := testRecipe("r2", "alice", "Evening", domain.VisibilityPublic, time.Date(2026, 8, 5, 22, 0, 0, 0, time.UTC))
	r3 := testRecipe("r3", "alice", "NextDay", domain.VisibilityPublic, time.Date(2026, 8, 6, 0, 1, 0, 0, time.UTC))

	svc, _, _, _, _ := newListingFixture(r1, r2, r3)

	date := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Date: &date}, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, recipeIDs(page.Items))
}

func TestBrowse_TimeRequiredFilter(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Quick", domain.VisibilityPublic, day(1))
	r1.TimeRequired = 15
	r2 := testRecipe("r2", "alice", "Slow", domain.VisibilityPublic, day(2))
	r2.TimeRequired = 90

	svc, _, _, _, _ := newListingFixture(r1, r2)

	fifteen := 15
	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{TimeRequired: &fifteen}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)
}

// --- VISIBILITÉ DANS LE PIPELINE ---

func TestFeed_VisibilityFollowsRelationChanges(t *testing.T) {
	r := testRecipe("r1", "alice", "Secret des amis", domain.VisibilityFriends, day(1))
	svc, _, graph, _, _ := newListingFixture(r)
	ctx := context.Background()

	// Aucune relation : invisible
	page, err := svc.Feed(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// Un seul sens : toujours invisible
	graph.follow("bob", "alice")
	page, err = svc.Feed(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// Mutuel : visible, sans republication
	graph.follow("alice", "bob")
	page, err = svc.Feed(ctx, "bob", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)

	// Le lien retombe : invisible à nouveau
	require.NoError(t, graph.DeleteRelation(ctx, "alice", "bob"))
	page, err = svc.Feed(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFeed_AnonymousViewer(t *testing.T) {
	r1 := testRecipe("r1", "alice", "Publique", domain.VisibilityPublic, day(1))
	r2 := testRecipe("r2", "alice", "Amis", domain.VisibilityFriends, day(2))
	r3 := testRecipe("r3", "alice", "Privée", domain.VisibilityMe, day(3))
	svc, _, _, _, _ := newListingFixture(r1, r2, r3)

	page, err := svc.Feed(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r1", page.Items[0].ID)
}

// --- TRI ---

func TestFeed_RecentFirstWithStableTieBreak(t *testing.T) {
	same := day(10)
	rB := testRecipe("b", "alice", "B", domain.VisibilityPublic, same)
	rA := testRecipe("a", "alice", "A", domain.VisibilityPublic, same)
	rC := testRecipe("c", "alice", "C", domain.VisibilityPublic, day(20))

	svc, _, _, _, _ := newListingFixture(rB, rA, rC)

	page, err := svc.Feed(context.Background(), "bob", 1)
	require.NoError(t, err)
	// c est plus récente ; à date égale, ID croissant
	assert.Equal(t, []string{"c", "a", "b"}, recipeIDs(page.Items))
}

func TestBrowse_PopularOrder(t *testing.T) {
	// A: 3 favoris, B: 1 favori (plus récente que C), C: 0 favori
	rA := testRecipe("a", "alice", "A", domain.VisibilityPublic, day(1))
	rB := testRecipe("b", "alice", "B", domain.VisibilityPublic, day(20))
	rC := testRecipe("c", "alice", "C", domain.VisibilityPublic, day(10))

	svc, _, _, favs, _ := newListingFixture(rA, rB, rC)
	favs.set("u1", "a")
	favs.set("u2", "a")
	favs.set("u3", "a")
	favs.set("u1", "b")

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Popular: true}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, recipeIDs(page.Items))
}

func TestBrowse_PopularCountNeverOvertaken(t *testing.T) {
	// Une recette moins favoritée ne passe jamais devant, même bien plus récente.
	old := testRecipe("old", "alice", "Old favourite", domain.VisibilityPublic, day(1))
	fresh := testRecipe("new", "alice", "Brand new", domain.VisibilityPublic, day(28))

	svc, _, _, favs, _ := newListingFixture(old, fresh)
	favs.set("u1", "old")

	page, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{Sort: domain.SortPopular}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, recipeIDs(page.Items))
}

func TestBrowse_IsDeterministic(t *testing.T) {
	recipes := make([]*domain.Recipe, 0, 20)
	for i := 0; i < 20; i++ {
		recipes = append(recipes, testRecipe(string(rune('a'+i)), "alice", "Same title", domain.VisibilityPublic, day(5)))
	}
	svc, _, _, _, _ := newListingFixture(recipes...)

	first, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{}, 1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Browse(context.Background(), "bob", domain.ListingOptions{}, 1)
		require.NoError(t, err)
		assert.Equal(t, recipeIDs(first.Items), recipeIDs(again.Items))
	}
}

// --- DASHBOARD ---

func TestDashboard_OwnRecipesAndPopularWindow(t *testing.T) {
	now := time.Now().UTC()
	mine := testRecipe("mine", "bob", "Ma recette", domain.VisibilityMe, now.Add(-24*time.Hour))
	recent := testRecipe("recent", "alice", "Populaire", domain.VisibilityPublic, now.Add(-48*time.Hour))
	stale := testRecipe("stale", "alice", "Trop vieille", domain.VisibilityPublic, now.Add(-40*24*time.Hour))

	svc, _, _, favs, _ := newListingFixture(mine, recent, stale)
	favs.set("u1", "recent")
	favs.set("u1", "stale") // ne compte pas : hors fenêtre

	dash, err := svc.Dashboard(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, []string{"mine"}, recipeIDs(dash.Recipes))
	// "stale" est hors fenêtre ; "mine" est dans la fenêtre mais sans favori,
	// donc derrière "recent"
	assert.Equal(t, []string{"recent", "mine"}, recipeIDs(dash.Popular))
}

func TestDashboard_PopularIsCapped(t *testing.T) {
	now := time.Now().UTC()
	recipes := make([]*domain.Recipe, 0, PopularLimit+5)
	for i := 0; i < PopularLimit+5; i++ {
		id := string(rune('a' + i))
		recipes = append(recipes, testRecipe(id, "alice", "R "+id, domain.VisibilityPublic, now.Add(-time.Duration(i)*time.Hour)))
	}
	svc, _, _, _, _ := newListingFixture(recipes...)

	dash, err := svc.Dashboard(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, dash.Popular, PopularLimit)
}

// --- PROFIL ---

func TestProfile_CountsMatchListsAndOneWayFollow(t *testing.T) {
	r := testRecipe("r1", "alice", "Des amis", domain.VisibilityFriends, day(1))
	svc, _, graph, _, _ := newListingFixture(r)

	// bob suit alice, carol suit alice ; alice suit carol
	graph.follow("bob", "alice")
	graph.follow("carol", "alice")
	graph.follow("alice", "carol")

	profile, err := svc.Profile(context.Background(), "bob", "@alice", ports.ProfilePages{Recipes: 1, Followers: 1, Following: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, profile.FollowerCount)
	assert.Equal(t, 1, profile.FolloweeCount)
	assert.Equal(t, profile.Followers.TotalItems, profile.FollowerCount)
	assert.Equal(t, profile.Following.TotalItems, profile.FolloweeCount)
	assert.True(t, profile.IsFollowing)

	// bob -> alice est un seul sens : la recette "friends" reste cachée
	assert.Empty(t, profile.Recipes.Items)
}

func TestProfile_UnknownHandle(t *testing.T) {
	svc, _, _, _, _ := newListingFixture()

	_, err := svc.Profile(context.Background(), "bob", "@ghost", ports.ProfilePages{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// --- USERS ---

func TestSearchUsers_BlankQueryReturnsEmpty(t *testing.T) {
	svc, _, _, _, _ := newListingFixture()

	page, err := svc.SearchUsers(context.Background(), "   ", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
}

func TestSearchUsers_SubstringOnHandle(t *testing.T) {
	svc, _, _, _, _ := newListingFixture()

	page, err := svc.SearchUsers(context.Background(), "ali", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "@alice", page.Items[0].Handle)
}

func recipeIDs(recipes []*domain.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}
