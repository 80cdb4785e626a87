package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// tx runs fn inside a transaction, rolling back on error.
func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}

// Themes are stored as a comma-separated list. Matching on ","||themes||","
// keeps LIKE lookups exact per tag.

func encodeThemes(themes []string) string {
	return strings.Join(themes, ",")
}

func decodeThemes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
