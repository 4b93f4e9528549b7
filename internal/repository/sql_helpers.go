package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// parseID reports false for anything that is not a UUID so callers can treat it as absence.
func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

var tsTokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// buildTSQuery turns free text into an OR of lexemes for to_tsquery.
// Returns "" when the text has nothing searchable.
func buildTSQuery(text string) string {
	tokens := tsTokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " | ")
}
