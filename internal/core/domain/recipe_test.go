package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipe_Valid(t *testing.T) {
	recipe, err := NewRecipe("owner-1", "  Tarte Tatin  ", "  Caramélisée au beurre demi-sel.  ",
		VisibilityPublic, DifficultyIntermediate, 60, []Tag{{ID: "t1", Name: "dessert"}})
	require.NoError(t, err)

	assert.NotEmpty(t, recipe.ID)
	assert.Equal(t, "Tarte Tatin", recipe.Title, "trimmed")
	assert.Equal(t, "Caramélisée au beurre demi-sel.", recipe.Description)
	assert.False(t, recipe.PublicationDate.IsZero())
	assert.True(t, recipe.HasTag("dessert"))
	assert.False(t, recipe.HasTag("Dessert"), "les tags matchent en égalité stricte")
}

func TestNewRecipe_Invariants(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
		visibility  Visibility
		difficulty  Difficulty
		minutes     int
		want        error
	}{
		{"title too short", "ab", "Une description valide.", VisibilityPublic, DifficultyBeginner, 30, ErrInvalidTitle},
		{"title whitespace only", "    ", "Une description valide.", VisibilityPublic, DifficultyBeginner, 30, ErrInvalidTitle},
		{"description too short", "Tarte", "courte", VisibilityPublic, DifficultyBeginner, 30, ErrInvalidDescription},
		{"unknown visibility", "Tarte", "Une description valide.", "everyone", DifficultyBeginner, 30, ErrInvalidVisibility},
		{"unknown difficulty", "Tarte", "Une description valide.", VisibilityPublic, "Expert", 30, ErrInvalidDifficulty},
		{"time not in set", "Tarte", "Une description valide.", VisibilityPublic, DifficultyBeginner, 42, ErrInvalidTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecipe("owner-1", tc.title, tc.description, tc.visibility, tc.difficulty, tc.minutes, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidTime(t *testing.T) {
	for _, minutes := range TimeValues {
		assert.True(t, ValidTime(minutes), "%d minutes", minutes)
	}
	assert.True(t, ValidTime(0), "0 = non renseigné")
	assert.False(t, ValidTime(7))
	assert.False(t, ValidTime(-5))
	assert.False(t, ValidTime(120))
}

func TestParseVisibility(t *testing.T) {
	for _, s := range []string{"public", "friends", "me"} {
		v, err := ParseVisibility(s)
		require.NoError(t, err)
		assert.Equal(t, Visibility(s), v)
	}

	_, err := ParseVisibility("Public")
	assert.ErrorIs(t, err, ErrInvalidVisibility, "sensible à la casse")
}

func TestRevise_KeepsIdentityAndPublicationDate(t *testing.T) {
	recipe, err := NewRecipe("owner-1", "Tarte", "Une description valide.", VisibilityPublic, DifficultyBeginner, 30, nil)
	require.NoError(t, err)
	id, published := recipe.ID, recipe.PublicationDate

	err = recipe.Revise("Tourte", "Une autre description valide.", VisibilityFriends, DifficultyAdvanced, 90, []Tag{{ID: "t1", Name: "hiver"}})
	require.NoError(t, err)

	assert.Equal(t, id, recipe.ID)
	assert.Equal(t, published, recipe.PublicationDate)
	assert.Equal(t, "Tourte", recipe.Title)
	assert.Equal(t, VisibilityFriends, recipe.Visibility)
}

func TestRevise_RejectsInvalidWithoutPartialMutation(t *testing.T) {
	recipe, err := NewRecipe("owner-1", "Tarte", "Une description valide.", VisibilityPublic, DifficultyBeginner, 30, nil)
	require.NoError(t, err)

	err = recipe.Revise("ab", "Une autre description valide.", VisibilityFriends, DifficultyAdvanced, 90, nil)
	assert.ErrorIs(t, err, ErrInvalidTitle)
	// L'état d'origine est intact
	assert.Equal(t, "Tarte", recipe.Title)
	assert.Equal(t, VisibilityPublic, recipe.Visibility)
}
