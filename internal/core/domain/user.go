package domain

import (
	"crypto/md5"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidHandle = errors.New("handle must be @ followed by at least three alphanumericals")
)

// handleRegex : format imposé aux pseudos ("@johndoe")
var handleRegex = regexp.MustCompile(`^@\w{3,}$`)

// --- ENTITÉ ---

// User est une identité gérée par le service d'identité externe.
// Ici on ne fait que la référencer : jamais créée ni supprimée par ce service.
type User struct {
	ID        string
	Handle    string // Unique, format "@pseudo"
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// FullName retourne le nom complet pour l'affichage profil.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Gravatar retourne l'URL de l'avatar basé sur l'email.
func (u *User) Gravatar(size int) string {
	normalized := strings.ToLower(strings.TrimSpace(u.Email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}

// MiniGravatar est la version miniature (listes de followers).
func (u *User) MiniGravatar() string {
	return u.Gravatar(60)
}

// ValidateHandle vérifie le format d'un pseudo avant toute recherche.
func ValidateHandle(handle string) error {
	if !handleRegex.MatchString(handle) {
		return ErrInvalidHandle
	}
	return nil
}
