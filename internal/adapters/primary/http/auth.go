package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/jupiterclapton/recipify/internal/core/ports"
)

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var viewerCtxKey = &contextKey{"viewer_id"}

// AuthMiddleware décode le header Authorization et valide le token.
// Pas de header = viewer anonyme : les surfaces de lecture restent
// accessibles, seules les recettes publiques seront visibles.
func AuthMiddleware(verifier ports.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			// 1. Pas de header ? On laisse passer en anonyme
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Validation du format "Bearer <token>"
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			// 3. Vérification locale (clé publique de l'émetteur)
			viewerID, err := verifier.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			// 4. Succès : on injecte l'ID du viewer dans le contexte
			ctx := context.WithValue(r.Context(), viewerCtxKey, viewerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ViewerID récupère l'identité du viewer ; chaîne vide = anonyme.
func ViewerID(ctx context.Context) string {
	raw, _ := ctx.Value(viewerCtxKey).(string)
	return raw
}
