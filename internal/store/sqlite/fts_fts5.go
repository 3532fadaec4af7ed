//go:build sqlite_fts5

package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/goalpost/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS goals_fts USING fts5(
			id UNINDEXED,
			title,
			description,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, g *models.Goal) error {
	_, _ = tx.Exec(`DELETE FROM goals_fts WHERE id = ?`, g.ID)
	_, err := tx.Exec(`INSERT INTO goals_fts (id, title, description, tags) VALUES (?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, strings.Join(g.Tags, " "))
	if err != nil {
		return fmt.Errorf("sqlite: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM goals_fts WHERE id = ?`, id)
}

// searchClause matches the query as a phrase against the FTS index.
func searchClause(query string) (string, []any) {
	phrase := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
	return `id IN (SELECT id FROM goals_fts WHERE goals_fts MATCH ?)`, []any{phrase}
}
