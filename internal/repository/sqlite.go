package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/water-insights/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per-connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			country TEXT NOT NULL,
			baseline_year INTEGER NOT NULL,
			target_year INTEGER NOT NULL,
			baseline_value REAL NOT NULL,
			lasso REAL NOT NULL,
			knn REAL NOT NULL,
			ridge REAL NOT NULL,
			growth_lasso REAL,
			growth_knn REAL,
			growth_ridge REAL,
			created_at INTEGER NOT NULL -- unix nanoseconds
		);

		CREATE INDEX IF NOT EXISTS idx_predictions_country ON predictions(country);
		CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.PredictionRecord) error {
	var gl, gk, gr sql.NullFloat64
	if r.Growth != nil {
		gl = sql.NullFloat64{Float64: r.Growth.Lasso, Valid: true}
		gk = sql.NullFloat64{Float64: r.Growth.KNN, Valid: true}
		gr = sql.NullFloat64{Float64: r.Growth.Ridge, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, country, baseline_year, target_year, baseline_value,
			lasso, knn, ridge, growth_lasso, growth_knn, growth_ridge, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Country, r.BaselineYear, r.TargetYear, r.BaselineValue,
		r.Predicted.Lasso, r.Predicted.KNN, r.Predicted.Ridge, gl, gk, gr,
		r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("error inserting prediction %s: %w", r.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, country, baseline_year, target_year, baseline_value,
	lasso, knn, ridge, growth_lasso, growth_knn, growth_ridge, created_at FROM predictions`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.PredictionRecord, error) {
	var (
		r          models.PredictionRecord
		gl, gk, gr sql.NullFloat64
		createdAt  int64
	)
	err := row.Scan(&r.ID, &r.Country, &r.BaselineYear, &r.TargetYear, &r.BaselineValue,
		&r.Predicted.Lasso, &r.Predicted.KNN, &r.Predicted.Ridge, &gl, &gk, &gr, &createdAt)
	if err != nil {
		return nil, err
	}

	if gl.Valid && gk.Valid && gr.Valid {
		r.Growth = &models.GrowthRates{Lasso: gl.Float64, KNN: gk.Float64, Ridge: gr.Float64}
	}
	r.CreatedAt = time.Unix(0, createdAt)
	return &r, nil
}

// GetByID returns nil, nil when no record has id.
func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.PredictionRecord, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting prediction %s: %w", id, err)
	}
	return r, nil
}

// List returns records newest first.
func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.PredictionRecord, error) {
	var (
		clauses []string
		args    []any
	)
	if opts.Country != "" {
		clauses = append(clauses, "country = ?")
		args = append(args, opts.Country)
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing predictions: %w", err)
	}
	defer rows.Close()

	records := make([]models.PredictionRecord, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning prediction: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// Delete reports whether a record was removed.
func (s *SQLiteDB) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM predictions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting prediction %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteDB) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM predictions`)
	if err != nil {
		return 0, fmt.Errorf("error clearing predictions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
