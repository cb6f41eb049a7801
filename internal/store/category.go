// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitefolio/internal/models"
)

// CategoryStore manages category partitions in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, serial, name, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Serial, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by serial, with entry counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.serial, c.name, c.created_at,
		       COUNT(e.serial) AS entry_count
		FROM categories c
		LEFT JOIN entries e ON e.category_id = c.id
		GROUP BY c.id
		ORDER BY c.serial
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Serial, &c.Name, &c.CreatedAt, &c.EntryCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByName retrieves a category by its unique name. Returns nil if not found.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by its partition identifier. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create provisions a new category partition. The serial continues the
// category sequence; the new partition's entry serials start at 1.
func (s *CategoryStore) Create(name string) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (serial, name)
		VALUES ((SELECT COALESCE(MAX(serial), 0) + 1 FROM categories), $1)
		RETURNING `+categoryColumns,
		name,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Rename changes a category's name. The partition identifier (and with it
// every entry's partition reference) is preserved.
func (s *CategoryStore) Rename(originalName, newName string) error {
	res, err := s.db.Exec(`UPDATE categories SET name = $1 WHERE name = $2`, newName, originalName)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename category rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ImageKeys returns the storage keys of every image in the category's
// partition, so callers can delete the stored files before the cascade
// removes the rows.
func (s *CategoryStore) ImageKeys(id uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT image_key, thumb_key FROM entries
		WHERE category_id = $1 AND image_key IS NOT NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("category image keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var image, thumb sql.NullString
		if err := rows.Scan(&image, &thumb); err != nil {
			return nil, fmt.Errorf("scan image keys: %w", err)
		}
		if image.Valid && image.String != "" {
			keys = append(keys, image.String)
		}
		if thumb.Valid && thumb.String != "" {
			keys = append(keys, thumb.String)
		}
	}
	return keys, rows.Err()
}

// Delete removes a category partition. Entries cascade via the FK.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
