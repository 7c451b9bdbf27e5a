package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate : violation d'unicité hors des chemins qui l'attendent.
// Le toggle des favoris l'absorbe via ON CONFLICT ; partout ailleurs un
// doublon est fatal à l'opération concernée.
var ErrDuplicate = errors.New("duplicate row")

// handleError traduit les codes d'erreur PostgreSQL en erreurs exploitables.
func handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Code 23505 = Unique Violation
		if pgErr.Code == "23505" {
			return ErrDuplicate
		}
	}
	return err
}
