package security

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier valide les jetons émis par le service d'identité externe.
// On ne détient QUE la clé publique : ce service ne signe jamais rien.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
}

// NewJWTVerifier charge la clé publique RSA depuis une chaîne PEM.
func NewJWTVerifier(publicKeyPEM []byte) (*JWTVerifier, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pubKey}, nil
}

// Validate vérifie la signature et retourne l'UserID (Subject).
func (v *JWTVerifier) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Sécurité critique : vérifier que l'alg est bien RSA.
		// Empêche les attaques où l'attaquant force l'algo à "None" ou "HS256".
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return "", err // Token expiré ou signature invalide
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("invalid token claims")
	}
	return subject, nil
}
