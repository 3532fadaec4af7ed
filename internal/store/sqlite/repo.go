package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/store"
)

var sortColumns = map[store.SortField]string{
	store.SortCreatedAt:  "created_at",
	store.SortUpdatedAt:  "updated_at",
	store.SortTitle:      "title",
	store.SortPriority:   "priority_rank",
	store.SortStatus:     "status",
	store.SortTargetDate: "target_date",
}

// constraintErr maps SQLite constraint failures onto the apperr taxonomy.
func constraintErr(err error, kind, id, parentID string) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%s %q: %w", kind, id, apperr.ErrAlreadyExists)
		case sqlite3.ErrConstraintForeignKey:
			return apperr.NotFound("goal", parentID)
		}
	}
	return fmt.Errorf("sqlite: insert %s: %w", kind, err)
}

func scanDoc[T any](row *sql.Row, kind, id string) (*T, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(kind, id)
		}
		return nil, fmt.Errorf("sqlite: get %s: %w", kind, err)
	}
	var v T
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return nil, fmt.Errorf("sqlite: decode %s: %w", kind, err)
	}
	return &v, nil
}

func scanDocs[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("sqlite: decode: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(kind, id)
	}
	return nil
}

func goalArgs(g *models.Goal) ([]any, error) {
	doc, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encode goal: %w", err)
	}
	tags, _ := json.Marshal(g.Tags)
	deleted := 0
	if g.Deleted {
		deleted = 1
	}
	return []any{
		g.Title, g.Description, string(g.Status), string(g.Priority), g.Priority.Rank(),
		g.Category, g.OwnerID, string(tags), formatTime(g.Timebound.TargetDate), deleted,
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt), string(doc), g.ID,
	}, nil
}

func (s *Store) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	return scanDoc[models.Goal](s.conn.QueryRowContext(ctx, `SELECT doc FROM goals WHERE id = ?`, id), "goal", id)
}

func (s *Store) ListGoals(ctx context.Context, q store.GoalQuery) ([]models.Goal, int, error) {
	q = q.WithDefaults()
	where, args := goalFilter(q)

	var total int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count goals: %w", err)
	}

	col, ok := sortColumns[q.SortField]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.SortDirection == store.Desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT doc FROM goals%s ORDER BY %s %s, id ASC LIMIT ? OFFSET ?`, where, col, dir)
	rows, err := s.conn.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list goals: %w", err)
	}
	goals, err := scanDocs[models.Goal](rows)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list goals: %w", err)
	}
	return goals, total, nil
}

func goalFilter(q store.GoalQuery) (string, []any) {
	var conds []string
	var args []any
	in := func(col string, vals []string) {
		conds = append(conds, col+" IN ("+placeholders(len(vals))+")")
		for _, v := range vals {
			args = append(args, v)
		}
	}

	if !q.IncludeDeleted {
		conds = append(conds, "deleted = 0")
	}
	if len(q.Statuses) > 0 {
		vals := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			vals[i] = string(st)
		}
		in("status", vals)
	}
	if len(q.Priorities) > 0 {
		vals := make([]string, len(q.Priorities))
		for i, p := range q.Priorities {
			vals[i] = string(p)
		}
		in("priority", vals)
	}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	if q.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, q.OwnerID)
	}
	if len(q.Tags) > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(goals.tags) WHERE json_each.value IN ("+placeholders(len(q.Tags))+"))")
		for _, t := range q.Tags {
			args = append(args, t)
		}
	}
	if q.TargetFrom != nil {
		conds = append(conds, "target_date >= ?")
		args = append(args, formatTime(*q.TargetFrom))
	}
	if q.TargetTo != nil {
		conds = append(conds, "target_date <= ?")
		args = append(args, formatTime(*q.TargetTo))
	}
	if q.Search != "" {
		clause, sargs := searchClause(q.Search)
		conds = append(conds, clause)
		args = append(args, sargs...)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (s *Store) CreateGoal(ctx context.Context, g *models.Goal) error {
	args, err := goalArgs(g)
	if err != nil {
		return err
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.ExecContext(ctx, `
		INSERT INTO goals (title, description, status, priority, priority_rank, category,
			owner_id, tags, target_date, deleted, created_at, updated_at, doc, id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return constraintErr(err, "goal", g.ID, "")
	}
	if err := ftsUpsert(tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) UpdateGoal(ctx context.Context, g *models.Goal) error {
	args, err := goalArgs(g)
	if err != nil {
		return err
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE goals SET
			title = ?, description = ?, status = ?, priority = ?, priority_rank = ?, category = ?,
			owner_id = ?, tags = ?, target_date = ?, deleted = ?, created_at = ?, updated_at = ?, doc = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("sqlite: update goal: %w", err)
	}
	if err := affected(res, "goal", g.ID); err != nil {
		return err
	}
	if err := ftsUpsert(tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteGoal removes a goal; tasks and checkpoints go with it through ON DELETE CASCADE.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete goal: %w", err)
	}
	if err := affected(res, "goal", id); err != nil {
		return err
	}
	ftsDelete(tx, id)
	return tx.Commit()
}

func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return scanDoc[models.Task](s.conn.QueryRowContext(ctx, `SELECT doc FROM tasks WHERE id = ?`, id), "task", id)
}

func (s *Store) ListTasks(ctx context.Context, goalID string) ([]models.Task, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT doc FROM tasks WHERE goal_id = ? ORDER BY created_at, id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tasks: %w", err)
	}
	return scanDocs[models.Task](rows)
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("sqlite: encode task: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `INSERT INTO tasks (id, goal_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		t.ID, t.GoalID, formatTime(t.CreatedAt), string(doc))
	if err != nil {
		return constraintErr(err, "task", t.ID, t.GoalID)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("sqlite: encode task: %w", err)
	}
	res, err := s.conn.ExecContext(ctx, `UPDATE tasks SET doc = ? WHERE id = ?`, string(doc), t.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update task: %w", err)
	}
	return affected(res, "task", t.ID)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete task: %w", err)
	}
	return affected(res, "task", id)
}

func (s *Store) GetCheckpoint(ctx context.Context, id string) (*models.Checkpoint, error) {
	return scanDoc[models.Checkpoint](s.conn.QueryRowContext(ctx, `SELECT doc FROM checkpoints WHERE id = ?`, id), "checkpoint", id)
}

func (s *Store) ListCheckpoints(ctx context.Context, goalID string) ([]models.Checkpoint, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT doc FROM checkpoints WHERE goal_id = ? ORDER BY recorded_at, id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list checkpoints: %w", err)
	}
	return scanDocs[models.Checkpoint](rows)
}

func (s *Store) CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	doc, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("sqlite: encode checkpoint: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `INSERT INTO checkpoints (id, goal_id, recorded_at, doc) VALUES (?, ?, ?, ?)`,
		cp.ID, cp.GoalID, formatTime(cp.RecordedAt), string(doc))
	if err != nil {
		return constraintErr(err, "checkpoint", cp.ID, cp.GoalID)
	}
	return nil
}

func (s *Store) UpdateCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	doc, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("sqlite: encode checkpoint: %w", err)
	}
	res, err := s.conn.ExecContext(ctx, `UPDATE checkpoints SET recorded_at = ?, doc = ? WHERE id = ?`,
		formatTime(cp.RecordedAt), string(doc), cp.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update checkpoint: %w", err)
	}
	return affected(res, "checkpoint", cp.ID)
}

func (s *Store) DeleteCheckpoint(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete checkpoint: %w", err)
	}
	return affected(res, "checkpoint", id)
}
