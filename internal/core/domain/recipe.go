package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotOwner           = errors.New("only the owner may modify this recipe")
	ErrInvalidTitle       = errors.New("title must be at least 3 characters long")
	ErrInvalidDescription = errors.New("description must be at least 10 characters long")
	ErrInvalidVisibility  = errors.New("invalid visibility value")
	ErrInvalidDifficulty  = errors.New("invalid difficulty value")
	ErrInvalidTime        = errors.New("invalid time required value")
)

// --- ENUMS ---

// Visibility contrôle qui peut voir une recette.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"  // Tout le monde, même anonyme
	VisibilityFriends Visibility = "friends" // Follow mutuel requis
	VisibilityMe      Visibility = "me"      // Propriétaire uniquement
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityFriends, VisibilityMe:
		return Visibility(s), nil
	}
	return "", ErrInvalidVisibility
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return Difficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// TimeValues : le temps de préparation est un ensemble discret de minutes,
// pas un champ libre. 0 signifie "non renseigné".
var TimeValues = []int{5, 10, 15, 20, 30, 45, 60, 90}

func ValidTime(minutes int) bool {
	if minutes == 0 {
		return true
	}
	for _, v := range TimeValues {
		if v == minutes {
			return true
		}
	}
	return false
}

// --- ENTITÉS ---

// Tag est un label globalement unique par nom, attaché en many-to-many.
// Il sert uniquement de filtre d'égalité, jamais de critère de visibilité.
type Tag struct {
	ID   string
	Name string
}

type Recipe struct {
	ID              string
	OwnerID         string
	Title           string
	Description     string
	Visibility      Visibility
	Difficulty      Difficulty
	TimeRequired    int // minutes, 0 = non renseigné
	Tags            []Tag
	PublicationDate time.Time
}

// --- FACTORY (CONSTRUCTEUR) ---

// NewRecipe crée une recette valide.
// C'est le SEUL moyen d'en créer une proprement (ID + validation des invariants).
func NewRecipe(ownerID, title, description string, visibility Visibility, difficulty Difficulty, timeRequired int, tags []Tag) (*Recipe, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	// 1. Validation des invariants (règles métier bloquantes)
	if len(title) < 3 {
		return nil, ErrInvalidTitle
	}
	if len(description) < 10 {
		return nil, ErrInvalidDescription
	}
	if _, err := ParseVisibility(string(visibility)); err != nil {
		return nil, err
	}
	if _, err := ParseDifficulty(string(difficulty)); err != nil {
		return nil, err
	}
	if !ValidTime(timeRequired) {
		return nil, ErrInvalidTime
	}

	// 2. Création avec génération d'ID (l'identité est générée ICI, pas en DB)
	return &Recipe{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           title,
		Description:     description,
		Visibility:      visibility,
		Difficulty:      difficulty,
		TimeRequired:    timeRequired,
		Tags:            tags,
		PublicationDate: time.Now().UTC(),
	}, nil
}

// --- COMPORTEMENTS ---

// Revise applique une modification du propriétaire (la date de publication ne bouge pas).
func (r *Recipe) Revise(title, description string, visibility Visibility, difficulty Difficulty, timeRequired int, tags []Tag) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if len(title) < 3 {
		return ErrInvalidTitle
	}
	if len(description) < 10 {
		return ErrInvalidDescription
	}
	if _, err := ParseVisibility(string(visibility)); err != nil {
		return err
	}
	if _, err := ParseDifficulty(string(difficulty)); err != nil {
		return err
	}
	if !ValidTime(timeRequired) {
		return ErrInvalidTime
	}

	r.Title = title
	r.Description = description
	r.Visibility = visibility
	r.Difficulty = difficulty
	r.TimeRequired = timeRequired
	r.Tags = tags
	return nil
}

// HasTag teste l'égalité stricte sur le nom (le filtre par tags du browse).
func (r *Recipe) HasTag(name string) bool {
	for _, t := range r.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
