package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/muscle"
)

const exerciseColumns = `id, name, type, muscle_groups, default_rep_base, default_rep_max, default_increment`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (model.Exercise, error) {
	var ex model.Exercise
	var typ int
	var muscles string
	if err := row.Scan(&ex.ID, &ex.Name, &typ, &muscles, &ex.Defaults.RepBase, &ex.Defaults.RepMax, &ex.Defaults.Increment); err != nil {
		return model.Exercise{}, err
	}
	ex.Type = model.ExerciseType(typ)
	dist, err := muscle.Decode(muscles)
	if err != nil {
		return model.Exercise{}, fmt.Errorf("exercise %q: %w", ex.Name, err)
	}
	ex.Muscles = dist
	return ex, nil
}

// ListExerciseNames returns exercise names in insertion order.
func (s *Store) ListExerciseNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM exercises ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// ListExercises returns every exercise in insertion order.
func (s *Store) ListExercises(ctx context.Context) ([]model.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetExercise returns the named exercise or ErrExerciseNotFound.
func (s *Store) GetExercise(ctx context.Context, name string) (model.Exercise, error) {
	return getExercise(ctx, s.db, name)
}

func getExercise(ctx context.Context, q queryer, name string) (model.Exercise, error) {
	row := q.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE name = ?`, name)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, fmt.Errorf("%w: %q", ErrExerciseNotFound, name)
	}
	return ex, err
}

// EnsureExercise returns the named exercise, creating it with the given
// defaults when it does not exist yet.
func (s *Store) EnsureExercise(ctx context.Context, name string, defaults model.RepScheme) (model.Exercise, error) {
	return ensureExercise(ctx, s.db, name, defaults)
}

func ensureExercise(ctx context.Context, q queryer, name string, defaults model.RepScheme) (model.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Exercise{}, errors.New("exercise name is empty")
	}
	if _, err := q.ExecContext(ctx,
		`INSERT INTO exercises (name, type, muscle_groups, default_rep_base, default_rep_max, default_increment)
		 VALUES (?, ?, '', ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, int(model.ExerciseBarbell), defaults.RepBase, defaults.RepMax, defaults.Increment,
	); err != nil {
		return model.Exercise{}, err
	}
	return getExercise(ctx, q, name)
}

// UpsertExercise creates the exercise or replaces its type, muscles and defaults.
func (s *Store) UpsertExercise(ctx context.Context, ex model.Exercise) error {
	name := strings.TrimSpace(ex.Name)
	if name == "" {
		return errors.New("exercise name is empty")
	}
	if !ex.Type.Valid() {
		return fmt.Errorf("invalid exercise type %d", int(ex.Type))
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (name, type, muscle_groups, default_rep_base, default_rep_max, default_increment)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			type = excluded.type,
			muscle_groups = excluded.muscle_groups,
			default_rep_base = excluded.default_rep_base,
			default_rep_max = excluded.default_rep_max,
			default_increment = excluded.default_increment`,
		name, int(ex.Type), muscle.Encode(ex.Muscles), ex.Defaults.RepBase, ex.Defaults.RepMax, ex.Defaults.Increment,
	)
	return err
}
