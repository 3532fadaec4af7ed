//go:build !sqlite_fts5

package sqlite

import (
	"database/sql"
	"strings"

	"github.com/starford/goalpost/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the goals table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ *models.Goal) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) {}

// likeEscaper escapes LIKE wildcards so the query matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause is a case-insensitive substring match over title, description
// and each tag.
func searchClause(query string) (string, []any) {
	like := "%" + likeEscaper.Replace(query) + "%"
	return `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		OR EXISTS (SELECT 1 FROM json_each(goals.tags) WHERE json_each.value LIKE ? ESCAPE '\'))`,
		[]any{like, like, like}
}
