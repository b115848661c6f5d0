package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Drawing is a saved canvas image.
type Drawing struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	PixelsDrawn int       `json:"pixels_drawn"`
	Coverage    float64   `json:"coverage_percent"`
	CreatedAt   time.Time `json:"created_at"`
}

// DrawingRepository provides CRUD operations for drawings.
type DrawingRepository struct {
	db *sql.DB
}

// Drawings returns the drawing repository for this store.
func (s *Store) Drawings() *DrawingRepository {
	return &DrawingRepository{db: s.db}
}

// Create inserts d, assigning an ID when it has none.
func (r *DrawingRepository) Create(d *Drawing) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO drawings (id, path, width, height, pixels_drawn, coverage, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Path, d.Width, d.Height, d.PixelsDrawn, d.Coverage, d.CreatedAt,
	)
	return err
}

// GetByID retrieves a drawing by its ID.
func (r *DrawingRepository) GetByID(id string) (*Drawing, error) {
	return r.scanOne(
		`SELECT id, path, width, height, pixels_drawn, coverage, created_at
		 FROM drawings WHERE id = ?`,
		id,
	)
}

// Latest returns the most recently saved drawing.
func (r *DrawingRepository) Latest() (*Drawing, error) {
	return r.scanOne(
		`SELECT id, path, width, height, pixels_drawn, coverage, created_at
		 FROM drawings ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	)
}

func (r *DrawingRepository) scanOne(query string, args ...any) (*Drawing, error) {
	d := &Drawing{}
	err := r.db.QueryRow(query, args...).
		Scan(&d.ID, &d.Path, &d.Width, &d.Height, &d.PixelsDrawn, &d.Coverage, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List retrieves all drawings, newest first.
func (r *DrawingRepository) List() ([]*Drawing, error) {
	rows, err := r.db.Query(
		`SELECT id, path, width, height, pixels_drawn, coverage, created_at
		 FROM drawings ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drawings []*Drawing
	for rows.Next() {
		d := &Drawing{}
		if err := rows.Scan(&d.ID, &d.Path, &d.Width, &d.Height, &d.PixelsDrawn, &d.Coverage, &d.CreatedAt); err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drawings, nil
}

// Delete removes a drawing record by its ID. The image file is left alone.
func (r *DrawingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
