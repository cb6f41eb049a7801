package store

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"sitefolio/internal/models"
)

// entryFixture seeds three categories with 15 entries and staggered
// timestamps one day apart (newest first in creation order), so filter and
// ordering assertions are deterministic.
func entryFixture(t *testing.T, db *sql.DB) (map[string]uuid.UUID, []string) {
	t.Helper()
	cats := NewCategoryStore(db)
	entries := NewEntryStore(db)

	names := []string{"Fixture Design", "Fixture Shops", "Fixture Blogs"}
	t.Cleanup(func() { cleanCategories(t, db, names...) })
	cleanCategories(t, db, names...)

	ids := make(map[string]uuid.UUID, len(names))
	for _, name := range names {
		c, err := cats.Create(name)
		if err != nil {
			t.Fatalf("fixture category %q: %v", name, err)
		}
		ids[name] = c.ID
	}

	type row struct {
		cat, name, url, desc string
	}
	rows := []row{
		{"Fixture Design", "Studio Nord", "https://studionord.example", "Scandinavian design studio portfolio site."},
		{"Fixture Design", "Pixel Bakery", "https://pixelbakery.example", "Motion design collective with playful art."},
		{"Fixture Design", "Monospace", "https://monospace.example", "Brutalist typography showcase for developers."},
		{"Fixture Design", "Archigram", "https://archigram.example", "Architecture firm with drawing archives."},
		{"Fixture Design", "Inkwell", "https://inkwell.example", "Calligraphy and lettering gallery."},
		{"Fixture Shops", "Bean Supply", "https://beansupply.example", "Coffee bean storefront with subscriptions."},
		{"Fixture Shops", "Wool Works", "https://woolworks.example", "Hand-knit goods shop from small makers."},
		{"Fixture Shops", "Vinyl Vault", "https://vinylvault.example", "Secondhand records with crate-digging search."},
		{"Fixture Shops", "Plant Post", "https://plantpost.example", "Mail-order houseplants and care guides."},
		{"Fixture Shops", "Gadget Grove", "https://gadgetgrove.example", "Refurbished electronics outlet store."},
		{"Fixture Blogs", "Field Notes", "https://fieldnotes.example", "A photographer's travel journal and diary."},
		{"Fixture Blogs", "Slow Code", "https://slowcode.example", "Essays on sustainable software engineering."},
		{"Fixture Blogs", "Crumbs", "https://crumbs.example", "Home baking experiments, mostly sourdough."},
		{"Fixture Blogs", "Night Sky", "https://nightsky.example", "Amateur astronomy observation logs."},
		{"Fixture Blogs", "Paper Trail", "https://papertrail.example", "Stationery reviews and notebook design notes."},
	}

	created := make([]string, 0, len(rows))
	for i, r := range rows {
		e, err := entries.Create(ids[r.cat], r.name, r.url, r.desc, "", "")
		if err != nil {
			t.Fatalf("fixture entry %q: %v", r.name, err)
		}
		// Stagger timestamps: first fixture row is newest.
		ts := time.Now().AddDate(0, 0, -i)
		if _, err := db.Exec(
			"UPDATE entries SET created_at = $1 WHERE category_id = $2 AND serial = $3",
			ts, e.PartitionID, e.Serial,
		); err != nil {
			t.Fatalf("fixture timestamp: %v", err)
		}
		created = append(created, r.name)
	}
	return ids, created
}

func TestListOrderingAndPagination(t *testing.T) {
	db := testDB(t)
	_, names := entryFixture(t, db)
	s := NewEntryStore(db)
	filter := models.EntryFilter{Search: "fixture"} // matches all via category name

	page1, err := s.List(filter, 1, 12)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if page1.Total != 15 || page1.TotalPages != 2 {
		t.Fatalf("total = %d, totalPages = %d, want 15 and 2", page1.Total, page1.TotalPages)
	}
	if len(page1.Entries) != 12 {
		t.Fatalf("page 1 has %d entries, want 12", len(page1.Entries))
	}

	// Latest-first across all partitions.
	for i := 1; i < len(page1.Entries); i++ {
		if page1.Entries[i].CreatedAt.After(page1.Entries[i-1].CreatedAt) {
			t.Errorf("entries out of order at %d: %v after %v", i,
				page1.Entries[i-1].CreatedAt, page1.Entries[i].CreatedAt)
		}
	}
	if page1.Entries[0].Name != names[0] {
		t.Errorf("newest entry = %q, want %q", page1.Entries[0].Name, names[0])
	}

	page2, err := s.List(filter, 2, 12)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2.Entries) != 3 {
		t.Errorf("page 2 has %d entries, want 3", len(page2.Entries))
	}
}

func TestListFilterCombinations(t *testing.T) {
	db := testDB(t)
	entryFixture(t, db)
	s := NewEntryStore(db)

	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
	}

	tests := []struct {
		name      string
		filter    models.EntryFilter
		wantTotal int
	}{
		{"substring on name, case-insensitive", models.EntryFilter{Search: "VINYL"}, 1},
		{"substring on description", models.EntryFilter{Search: "sourdough"}, 1},
		{"substring on url", models.EntryFilter{Search: "nightsky.example"}, 1},
		{"substring on category name", models.EntryFilter{Search: "fixture sho"}, 5},
		{"exact category", models.EntryFilter{Category: "Fixture Blogs"}, 5},
		{"category is exact, not substring", models.EntryFilter{Category: "Fixture"}, 0},
		{"single-day range (day -3)", models.EntryFilter{StartDate: day(-3), EndDate: day(-3), Search: "fixture"}, 1},
		{"open range (last 5 days)", models.EntryFilter{StartDate: day(-4), Search: "fixture"}, 5},
		{"search AND category", models.EntryFilter{Search: "notes", Category: "Fixture Blogs"}, 2},
		{"search AND category AND date excludes", models.EntryFilter{Search: "field", Category: "Fixture Shops"}, 0},
		{"no match", models.EntryFilter{Search: "zzz-no-such-entry"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(tt.filter, 1, 12)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestSerialsPerPartition(t *testing.T) {
	db := testDB(t)
	ids, _ := entryFixture(t, db)
	s := NewEntryStore(db)

	// Each partition's serials restart at 1 and count up independently.
	for name, id := range ids {
		for want := 1; want <= 5; want++ {
			e, err := s.FindBySerial(id, want)
			if err != nil {
				t.Fatalf("FindBySerial: %v", err)
			}
			if e == nil {
				t.Fatalf("partition %q missing serial %d", name, want)
			}
		}
	}

	// A new entry continues its own partition's sequence.
	e, err := s.Create(ids["Fixture Design"], "Sixth Site", "https://sixth.example", "Continues the partition serial sequence.", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Serial != 6 {
		t.Errorf("new serial = %d, want 6", e.Serial)
	}
}

func TestUpdateBumpsTimestampAndMovesPartition(t *testing.T) {
	db := testDB(t)
	ids, _ := entryFixture(t, db)
	s := NewEntryStore(db)

	design := ids["Fixture Design"]
	blogs := ids["Fixture Blogs"]

	// Plain update: entry becomes the newest in the whole result set.
	updated, err := s.Update(design, 3, EntryUpdate{
		Name:        "Monospace Revised",
		URL:         "https://monospace.example",
		Description: "Brutalist typography showcase, refreshed edition.",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, err := s.List(models.EntryFilter{Search: "fixture"}, 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	if all.Entries[0].Name != "Monospace Revised" {
		t.Errorf("updated entry is not the newest; got %q first", all.Entries[0].Name)
	}
	if !updated.CreatedAt.After(time.Now().Add(-time.Minute)) {
		t.Errorf("timestamp not refreshed: %v", updated.CreatedAt)
	}

	// Partition move: new partition, fresh serial in the target sequence.
	moved, err := s.Update(design, 1, EntryUpdate{
		Name:           "Studio Nord",
		URL:            "https://studionord.example",
		Description:    "Scandinavian design studio portfolio site.",
		NewPartitionID: blogs,
	})
	if err != nil {
		t.Fatalf("Update with move: %v", err)
	}
	if moved.PartitionID != blogs {
		t.Errorf("partition = %v, want %v", moved.PartitionID, blogs)
	}
	if moved.Serial != 6 {
		t.Errorf("serial in target partition = %d, want 6", moved.Serial)
	}
	if old, _ := s.FindBySerial(design, 1); old != nil {
		t.Error("entry still present in source partition after move")
	}

	// Updating a missing entry reports sql.ErrNoRows.
	if _, err := s.Update(design, 999, EntryUpdate{Name: "x", URL: "https://x.example", Description: "missing row update"}); err != sql.ErrNoRows {
		t.Errorf("Update(missing) = %v, want sql.ErrNoRows", err)
	}
}

func TestUpdateImageKeys(t *testing.T) {
	db := testDB(t)
	ids, _ := entryFixture(t, db)
	s := NewEntryStore(db)
	design := ids["Fixture Design"]

	key := "showcase/new-image.png"
	thumb := "showcase/new-image_thumb.jpg"
	updated, err := s.Update(design, 2, EntryUpdate{
		Name:        "Pixel Bakery",
		URL:         "https://pixelbakery.example",
		Description: "Motion design collective with playful art.",
		ImageKey:    &key,
		ThumbKey:    &thumb,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ImageKey != key || updated.ThumbKey != thumb {
		t.Errorf("image keys = %q/%q", updated.ImageKey, updated.ThumbKey)
	}

	// nil pointers leave the stored reference unchanged.
	kept, err := s.Update(design, 2, EntryUpdate{
		Name:        "Pixel Bakery",
		URL:         "https://pixelbakery.example",
		Description: "Motion design collective with playful art.",
	})
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if kept.ImageKey != key {
		t.Errorf("image key lost on field-only update: %q", kept.ImageKey)
	}
}

func TestDeleteEntry(t *testing.T) {
	db := testDB(t)
	ids, _ := entryFixture(t, db)
	s := NewEntryStore(db)
	shops := ids["Fixture Shops"]

	if err := s.Delete(shops, 4); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if e, _ := s.FindBySerial(shops, 4); e != nil {
		t.Error("entry still present after Delete")
	}
	if err := s.Delete(shops, 4); err != sql.ErrNoRows {
		t.Errorf("second Delete = %v, want sql.ErrNoRows", err)
	}
}

func TestUserStore(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	username := fmt.Sprintf("testadmin-%d", time.Now().UnixNano())
	t.Cleanup(func() { cleanUsers(t, db, username) })

	u, err := s.Create(username, "hunter2-but-longer", "Test Admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !s.CheckPassword(u, "hunter2-but-longer") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}

	found, err := s.FindByUsername(username)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || found.ID != u.ID {
		t.Errorf("FindByUsername = %+v", found)
	}
	if missing, _ := s.FindByUsername("no-such-user"); missing != nil {
		t.Error("FindByUsername(missing) returned a user")
	}
}
