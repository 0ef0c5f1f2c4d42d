package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/liftlog/internal/model"
)

const setColumns = `s.id, e.name, s.performed_at, s.weight, s.repetitions, s.set_type, s.rep_base, s.rep_max, s.increment`

func scanSet(row rowScanner) (model.Set, error) {
	var set model.Set
	var performedAt string
	var typ int
	if err := row.Scan(&set.ID, &set.Exercise, &performedAt, &set.Weight, &set.Reps, &typ,
		&set.Scheme.RepBase, &set.Scheme.RepMax, &set.Scheme.Increment); err != nil {
		return model.Set{}, err
	}
	parsed, err := time.ParseInLocation(TimeLayout, performedAt, time.Local)
	if err != nil {
		return model.Set{}, fmt.Errorf("set %d: %w", set.ID, err)
	}
	set.PerformedAt = parsed
	set.Type = model.SetType(typ)
	return set, nil
}

func (s *Store) querySets(ctx context.Context, query string, args ...any) ([]model.Set, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	sets := []model.Set{}
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// ListTrainingDays returns the distinct YYYY-MM-DD days on which the exercise
// has sets, oldest first. An unknown exercise has no days.
func (s *Store) ListTrainingDays(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT substr(s.performed_at, 1, 10) AS day
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE e.name = ?
		 ORDER BY day ASC`, name)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	days := []string{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// ListSets returns the sets of one exercise on one day in logging order.
func (s *Store) ListSets(ctx context.Context, name, day string, workOnly bool) ([]model.Set, error) {
	clauses := []string{"e.name = ?", "substr(s.performed_at, 1, 10) = ?"}
	args := []any{name, day}
	if workOnly {
		clauses = append(clauses, "s.set_type = ?")
		args = append(args, int(model.SetWork))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM sets s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE %s
		ORDER BY s.performed_at ASC, s.id ASC`, setColumns, strings.Join(clauses, " AND "))
	return s.querySets(ctx, query, args...)
}

// ListSetMeta returns the rep scheme snapshots of the day's work sets, aligned
// with ListSets(ctx, name, day, true).
func (s *Store) ListSetMeta(ctx context.Context, name, day string) ([]model.RepScheme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.rep_base, s.rep_max, s.increment
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE e.name = ? AND substr(s.performed_at, 1, 10) = ? AND s.set_type = ?
		 ORDER BY s.performed_at ASC, s.id ASC`, name, day, int(model.SetWork))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	schemes := []model.RepScheme{}
	for rows.Next() {
		var scheme model.RepScheme
		if err := rows.Scan(&scheme.RepBase, &scheme.RepMax, &scheme.Increment); err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schemes, nil
}

// ListRecentSets returns up to limit of the exercise's latest sets, newest first.
func (s *Store) ListRecentSets(ctx context.Context, name string, limit int) ([]model.Set, error) {
	if limit <= 0 {
		return []model.Set{}, nil
	}
	query := fmt.Sprintf(`SELECT %s
		FROM sets s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE e.name = ?
		ORDER BY s.performed_at DESC, s.id DESC
		LIMIT ?`, setColumns)
	return s.querySets(ctx, query, name, limit)
}

// ListAllSets returns every set of every exercise, oldest first.
func (s *Store) ListAllSets(ctx context.Context) ([]model.Set, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM sets s
		JOIN exercises e ON e.id = s.exercise_id
		ORDER BY s.performed_at ASC, s.id ASC`, setColumns)
	return s.querySets(ctx, query)
}

func validateSet(set model.Set) error {
	if !set.Type.Valid() {
		return fmt.Errorf("invalid set type %d", int(set.Type))
	}
	if set.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}
	if set.Reps < 0 {
		return fmt.Errorf("reps must be >= 0")
	}
	if set.PerformedAt.IsZero() {
		return fmt.Errorf("set has no timestamp")
	}
	if err := set.Scheme.Validate(); err != nil {
		return fmt.Errorf("invalid rep scheme: %w", err)
	}
	return nil
}

func insertSet(ctx context.Context, q queryer, name string, set model.Set) (int64, error) {
	if err := validateSet(set); err != nil {
		return 0, err
	}
	ex, err := ensureExercise(ctx, q, name, set.Scheme)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO sets (exercise_id, performed_at, weight, repetitions, set_type, rep_base, rep_max, increment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID,
		set.PerformedAt.In(time.Local).Format(TimeLayout),
		set.Weight,
		set.Reps,
		int(set.Type),
		set.Scheme.RepBase,
		set.Scheme.RepMax,
		set.Scheme.Increment,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertSet stores one set for the named exercise and returns its id. The
// exercise is created on first use with the set's rep scheme as its defaults.
func (s *Store) InsertSet(ctx context.Context, name string, set model.Set) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id, err = insertSet(ctx, tx, name, set)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ImportSets stores sets in a single transaction; each set's Exercise names
// its exercise. Nothing is written when any set fails.
func (s *Store) ImportSets(ctx context.Context, sets []model.Set) (n int, err error) {
	if len(sets) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for i, set := range sets {
		if _, err = insertSet(ctx, tx, set.Exercise, set); err != nil {
			return 0, fmt.Errorf("set %d (%s): %w", i+1, set.Exercise, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(sets), nil
}

// DeleteSet removes one set by id.
func (s *Store) DeleteSet(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSetNotFound, id)
	}
	return nil
}

// WorkSetCountsSince counts work sets per exercise name performed at or after since.
func (s *Store) WorkSetCountsSince(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.name, COUNT(*)
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE s.set_type = ? AND s.performed_at >= ?
		 GROUP BY e.name`, int(model.SetWork), since.In(time.Local).Format(TimeLayout))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	counts := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
