// Package meshtag stores named per-cell arrays for a structured mesh.
//
// It implements the tagging contract the conversion pipeline relies on:
// attach a named array of floats to every cell, refuse to overwrite an
// existing name unless asked to, and report unknown names distinctly. The
// store is a single SQLite file.
package meshtag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/mesh"
)

const schema = `
CREATE TABLE IF NOT EXISTS mesh (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	xmin REAL NOT NULL, xmax REAL NOT NULL, xint INTEGER NOT NULL,
	ymin REAL NOT NULL, ymax REAL NOT NULL, yint INTEGER NOT NULL,
	zmin REAL NOT NULL, zmax REAL NOT NULL, zint INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	name  TEXT PRIMARY KEY,
	width INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tag_values (
	tag   TEXT    NOT NULL REFERENCES tags(name) ON DELETE CASCADE,
	cell  INTEGER NOT NULL,
	idx   INTEGER NOT NULL,
	value REAL    NOT NULL,
	PRIMARY KEY (tag, cell, idx)
);`

// Store is an open tag database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mesh store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init mesh store %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Geometry returns the recorded grid; ok is false before Init.
func (s *Store) Geometry(ctx context.Context) (g mesh.Geometry, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT xmin, xmax, xint, ymin, ymax, yint, zmin, zmax, zint FROM mesh WHERE id = 1`)
	err = row.Scan(
		&g[0].Min, &g[0].Max, &g[0].Intervals,
		&g[1].Min, &g[1].Max, &g[1].Intervals,
		&g[2].Min, &g[2].Max, &g[2].Intervals,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return g, false, nil
	}
	if err != nil {
		return g, false, err
	}
	return g, true, nil
}

// Init records the grid the tags describe. A store keeps one grid for its
// lifetime; a different grid is a GeometryMismatchError.
func (s *Store) Init(ctx context.Context, g mesh.Geometry) error {
	if err := g.Validate(); err != nil {
		return err
	}
	cur, ok, err := s.Geometry(ctx)
	if err != nil {
		return err
	}
	if ok {
		if cur != g {
			return &errs.GeometryMismatchError{GeometryCells: cur.CellCount(), Cells: g.CellCount()}
		}
		return nil
	}
	args := make([]any, 0, 9)
	for _, v := range g.Flat() {
		args = append(args, v)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mesh (id, xmin, xmax, xint, ymin, ymax, yint, zmin, zmax, zint) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...)
	return err
}

// Has reports whether a tag exists.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// Names lists the tags in name order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Tag attaches one array per cell under name. Every array must have the same
// length and there must be one per grid cell. An existing tag is replaced
// only when replace is set.
func (s *Store) Tag(ctx context.Context, name string, cells [][]float64, replace bool) error {
	g, ok, err := s.Geometry(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &errs.PreconditionError{Stage: "tag " + name, Requires: "an initialized mesh"}
	}
	if err := g.CheckCells(len(cells)); err != nil {
		return err
	}
	width := len(cells[0])
	for i, c := range cells {
		if len(c) != width {
			return fmt.Errorf("tag %s: cell %d has %d values, cell 1 has %d", name, i+1, len(c), width)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE name = ?`, name).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		if !replace {
			return &errs.ExistsError{Resource: "tag", ID: name}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO tags (name, width) VALUES (?, ?)`, name, width); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tag_values (tag, cell, idx, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for cell, vals := range cells {
		for idx, v := range vals {
			if _, err := stmt.ExecContext(ctx, name, cell, idx, v); err != nil {
				return fmt.Errorf("tag %s cell %d: %w", name, cell+1, err)
			}
		}
	}
	return tx.Commit()
}

// TagScalars attaches one value per cell.
func (s *Store) TagScalars(ctx context.Context, name string, values []float64, replace bool) error {
	cells := make([][]float64, len(values))
	for i, v := range values {
		cells[i] = []float64{v}
	}
	return s.Tag(ctx, name, cells, replace)
}

// Values reads a tag back, one array per cell in cell order.
func (s *Store) Values(ctx context.Context, name string) ([][]float64, error) {
	var width int
	err := s.db.QueryRowContext(ctx, `SELECT width FROM tags WHERE name = ?`, name).Scan(&width)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Resource: "tag", ID: name}
	}
	if err != nil {
		return nil, err
	}
	g, _, err := s.Geometry(ctx)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, g.CellCount())
	for i := range out {
		out[i] = make([]float64, width)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT cell, idx, value FROM tag_values WHERE tag = ? ORDER BY cell, idx`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cell, idx int
		var v float64
		if err := rows.Scan(&cell, &idx, &v); err != nil {
			return nil, err
		}
		if cell < len(out) && idx < width {
			out[cell][idx] = v
		}
	}
	return out, rows.Err()
}
