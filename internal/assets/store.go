// Package assets is the registry of a user's known equipment. The
// clarification gate consults it to resolve ambiguous references like "the
// pump".
package assets

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/fieldassist/internal/db"
)

// Asset is one registered piece of equipment.
type Asset struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Family       string    `json:"family"`
	Manufacturer string    `json:"manufacturer"`
	ModelNumber  string    `json:"model_number"`
	SerialNumber string    `json:"serial_number"`
	Location     string    `json:"location"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store provides CRUD operations for the asset registry.
type Store struct {
	db *db.DB
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

const assetColumns = `id, user_id, name, family, manufacturer, model_number, serial_number, location, notes, created_at`

// Add inserts a new asset.
func (s *Store) Add(ctx context.Context, a *Asset) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (`+assetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.Family, a.Manufacturer, a.ModelNumber,
		a.SerialNumber, a.Location, a.Notes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding asset: %w", err)
	}
	return nil
}

// Get retrieves an asset by ID. Returns nil when not found.
func (s *Store) Get(ctx context.Context, id string) (*Asset, error) {
	a := &Asset{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Family, &a.Manufacturer, &a.ModelNumber,
		&a.SerialNumber, &a.Location, &a.Notes, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return a, nil
}

// ListByUser returns a user's assets, optionally filtered by family.
func (s *Store) ListByUser(ctx context.Context, userID, family string) ([]Asset, error) {
	var rows *sql.Rows
	var err error

	if family != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+assetColumns+` FROM assets WHERE user_id = ? AND family = ? ORDER BY name`,
			userID, family)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+assetColumns+` FROM assets WHERE user_id = ? ORDER BY name`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Family, &a.Manufacturer, &a.ModelNumber,
			&a.SerialNumber, &a.Location, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Update modifies an existing asset.
func (s *Store) Update(ctx context.Context, a *Asset) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE assets SET name=?, family=?, manufacturer=?, model_number=?,
		 serial_number=?, location=?, notes=?, updated_at=datetime('now')
		 WHERE id=?`,
		a.Name, a.Family, a.Manufacturer, a.ModelNumber,
		a.SerialNumber, a.Location, a.Notes, a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Remove deletes an asset by ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing asset: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
