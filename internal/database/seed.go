package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a few categories, and sample entries so the gallery is not
// empty on first run. It is a no-op if users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, password_hash, display_name)
		VALUES ($1, $2, $3)
	`, "admin", string(hash), "Administrator")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	seedCategories := []string{"Portfolio", "E-Commerce", "Blogs"}
	for i, name := range seedCategories {
		if _, err := db.Exec(`
			INSERT INTO categories (serial, name) VALUES ($1, $2)
		`, i+1, name); err != nil {
			return fmt.Errorf("seed insert category %q: %w", name, err)
		}
	}

	seedEntries := []struct {
		category, name, url, description string
	}{
		{"Portfolio", "Monochrome Folio", "https://monochromefolio.example", "A minimal black-and-white portfolio with oversized typography."},
		{"Portfolio", "Parallax Studio", "https://parallaxstudio.example", "Agency portfolio built around long-scroll parallax case studies."},
		{"E-Commerce", "Bean Merchant", "https://beanmerchant.example", "Single-origin coffee storefront with subscription checkout."},
		{"Blogs", "Field Notes", "https://fieldnotes.example", "A photographer's travel journal with full-bleed image posts."},
	}
	for _, e := range seedEntries {
		_, err := db.Exec(`
			INSERT INTO entries (category_id, serial, name, url, description)
			SELECT c.id,
			       COALESCE((SELECT MAX(serial) FROM entries WHERE category_id = c.id), 0) + 1,
			       $2, $3, $4
			FROM categories c WHERE c.name = $1
		`, e.category, e.name, e.url, e.description)
		if err != nil {
			return fmt.Errorf("seed insert entry %q: %w", e.name, err)
		}
	}

	slog.Info("database seeded with default admin and sample showcase data",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
