package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyComment   = errors.New("comment cannot be empty")
	ErrCommentTooLong = errors.New("comment cannot exceed 500 characters")
)

const maxCommentLength = 500

// Comment est rattaché à une recette ; il sert surtout de déclencheur
// de notification vers le propriétaire quand l'auteur n'est pas lui.
type Comment struct {
	ID        string
	RecipeID  string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// NewComment valide et construit un commentaire.
func NewComment(recipeID, userID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if len(text) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	return &Comment{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
