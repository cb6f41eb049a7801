// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sitefolio/internal/models"
)

// EntryStore manages showcased entries across category partitions.
type EntryStore struct {
	db *sql.DB
}

// NewEntryStore creates a new EntryStore with the given database connection.
func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

const entryColumns = `e.category_id, e.serial, e.name, c.name, e.url, e.description,
	       e.image_key, e.thumb_key, e.created_at`

// scanEntry scans a joined entries/categories row into an Entry.
func scanEntry(scanner interface{ Scan(...any) error }) (*models.Entry, error) {
	var e models.Entry
	var image, thumb sql.NullString
	err := scanner.Scan(
		&e.PartitionID, &e.Serial, &e.Name, &e.Category, &e.URL,
		&e.Description, &image, &thumb, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ImageKey = image.String
	e.ThumbKey = thumb.String
	return &e, nil
}

// filterClauses translates an EntryFilter into SQL conditions and args.
// All active filters combine with AND: case-insensitive substring match
// across name/description/category/url, inclusive date range on created_at,
// and exact category name.
func filterClauses(f models.EntryFilter, args []any) ([]string, []any) {
	var conds []string

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, fmt.Sprintf(
			"(e.name ILIKE %[1]s OR e.description ILIKE %[1]s OR c.name ILIKE %[1]s OR e.url ILIKE %[1]s)", p))
	}
	if f.StartDate != "" {
		args = append(args, f.StartDate)
		conds = append(conds, fmt.Sprintf("e.created_at >= $%d::date", len(args)))
	}
	if f.EndDate != "" {
		// End bound is inclusive: anything before the start of the next day.
		args = append(args, f.EndDate)
		conds = append(conds, fmt.Sprintf("e.created_at < $%d::date + INTERVAL '1 day'", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}

	return conds, args
}

// List returns one page of entries merged across all partitions, ordered
// latest-first, along with the total match count for pagination.
func (s *EntryStore) List(f models.EntryFilter, page, size int) (*models.EntryPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 12
	}

	conds, args := filterClauses(f, nil)
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM entries e JOIN categories c ON c.id = e.category_id
		%s`, where)
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	args = append(args, size, (page-1)*size)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM entries e JOIN categories c ON c.id = e.category_id
		%s
		ORDER BY e.created_at DESC, e.serial DESC
		LIMIT $%d OFFSET $%d`, entryColumns, where, len(args)-1, len(args))

	rows, err := s.db.Query(listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	result := &models.EntryPage{
		Entries:    []models.Entry{},
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: (total + size - 1) / size,
	}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		result.Entries = append(result.Entries, *e)
	}
	return result, rows.Err()
}

// FindBySerial retrieves an entry by its partition and serial. Returns nil
// if not found.
func (s *EntryStore) FindBySerial(partitionID uuid.UUID, serial int) (*models.Entry, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		SELECT %s
		FROM entries e JOIN categories c ON c.id = e.category_id
		WHERE e.category_id = $1 AND e.serial = $2`, entryColumns),
		partitionID, serial)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return e, nil
}

// Create inserts an entry into the category's partition with the next
// serial in that partition. The serial sequence of each partition starts
// at 1 and never reuses values while rows exist above.
func (s *EntryStore) Create(partitionID uuid.UUID, name, url, description, imageKey, thumbKey string) (*models.Entry, error) {
	row := s.db.QueryRow(`
		INSERT INTO entries (category_id, serial, name, url, description, image_key, thumb_key)
		VALUES ($1,
		        (SELECT COALESCE(MAX(serial), 0) + 1 FROM entries WHERE category_id = $1),
		        $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING category_id, serial, created_at
	`, partitionID, name, url, description, imageKey, thumbKey)

	var e models.Entry
	if err := row.Scan(&e.PartitionID, &e.Serial, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return s.FindBySerial(e.PartitionID, e.Serial)
}

// EntryUpdate carries the fields applied by Update. NewPartitionID moves
// the entry to another partition; empty image keys leave the stored
// reference unchanged (image replacement is settled by the handler before
// Update runs).
type EntryUpdate struct {
	Name           string
	URL            string
	Description    string
	NewPartitionID uuid.UUID // uuid.Nil means no move
	ImageKey       *string   // nil = keep, pointer to "" = clear
	ThumbKey       *string
}

// Update rewrites an entry's fields and refreshes its timestamp so the
// entry becomes the newest in any latest-first listing. A partition move
// assigns the next serial in the target partition.
func (s *EntryStore) Update(partitionID uuid.UUID, serial int, u EntryUpdate) (*models.Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update entry begin: %w", err)
	}
	defer tx.Rollback()

	target := partitionID
	newSerial := serial
	if u.NewPartitionID != uuid.Nil && u.NewPartitionID != partitionID {
		target = u.NewPartitionID
		err := tx.QueryRow(`
			SELECT COALESCE(MAX(serial), 0) + 1 FROM entries WHERE category_id = $1
		`, target).Scan(&newSerial)
		if err != nil {
			return nil, fmt.Errorf("update entry next serial: %w", err)
		}
	}

	query := `
		UPDATE entries SET
			category_id = $1, serial = $2, name = $3, url = $4,
			description = $5, created_at = now()`
	args := []any{target, newSerial, u.Name, u.URL, u.Description}

	if u.ImageKey != nil {
		args = append(args, *u.ImageKey)
		query += fmt.Sprintf(", image_key = NULLIF($%d, '')", len(args))
	}
	if u.ThumbKey != nil {
		args = append(args, *u.ThumbKey)
		query += fmt.Sprintf(", thumb_key = NULLIF($%d, '')", len(args))
	}

	args = append(args, partitionID, serial)
	query += fmt.Sprintf(" WHERE category_id = $%d AND serial = $%d", len(args)-1, len(args))

	res, err := tx.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update entry rows: %w", err)
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update entry commit: %w", err)
	}

	return s.FindBySerial(target, newSerial)
}

// Delete removes an entry from its partition.
func (s *EntryStore) Delete(partitionID uuid.UUID, serial int) error {
	res, err := s.db.Exec(`
		DELETE FROM entries WHERE category_id = $1 AND serial = $2
	`, partitionID, serial)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
