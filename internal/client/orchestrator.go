// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	gocache "github.com/patrickmn/go-cache"

	"sitefolio/internal/forms"
	"sitefolio/internal/models"
)

// State is the orchestrator's render state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateError
)

const (
	// resultCacheSize bounds the LRU of recently fetched list pages.
	resultCacheSize = 32

	// categoryTTL is how long a fetched category list stays fresh.
	categoryTTL = 5 * time.Minute
)

// Orchestrator drives one surface's listing: it owns the filter and
// pagination controllers, runs the idle→loading→{rendered|error} state
// machine, and keeps at most one list fetch in flight. A trigger arriving
// while a fetch is outstanding is dropped, not queued.
type Orchestrator struct {
	api     *Client
	surface Surface

	// Filters and Pages are the surface's controllers; their change hooks
	// feed back into Load.
	Filters *FilterController
	Pages   *Paginator

	mu        sync.Mutex
	state     State
	entries   []models.Entry
	notice    string
	inFlight  bool
	requested Params

	results    *lru.Cache[string, *models.EntryPage]
	categories *gocache.Cache

	// confirm gates destructive operations: it receives the target's
	// display name and returns whether the user approved.
	confirm func(name string) bool

	// onRender fires after every state transition.
	onRender func()
}

// NewOrchestrator wires up a surface: filter changes reset pagination to
// page 1 and reload, page changes reload. onReject surfaces rejected
// short queries (nil for the public surface's silent drop).
func NewOrchestrator(api *Client, surface Surface, confirm func(string) bool, onReject func(string), onRender func()) *Orchestrator {
	results, _ := lru.New[string, *models.EntryPage](resultCacheSize)

	o := &Orchestrator{
		api:        api,
		surface:    surface,
		state:      StateIdle,
		results:    results,
		categories: gocache.New(categoryTTL, 2*categoryTTL),
		confirm:    confirm,
		onRender:   onRender,
	}

	o.Filters = NewFilterController(surface, func() {
		o.Pages.Update(1, o.Pages.TotalPages(), o.Pages.TotalItems())
		o.Load(context.Background())
	}, onReject)

	o.Pages = NewPaginator(func(int) {
		o.Load(context.Background())
	})

	return o
}

// cacheKey identifies a parameter set in the result cache.
func cacheKey(p Params) string { return p.query() }

// Load fetches the page described by the current filter and pagination
// state. While a fetch is in flight further calls are dropped. A response
// no longer matching the most recently started parameters is discarded
// rather than rendered.
func (o *Orchestrator) Load(ctx context.Context) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return
	}
	p := o.Filters.Apply(Params{Page: o.Pages.Current()})
	o.inFlight = true
	o.requested = p
	o.state = StateLoading
	o.mu.Unlock()
	o.render()

	if page, ok := o.results.Get(cacheKey(p)); ok {
		o.apply(p, page)
		return
	}

	page, err := o.api.ListEntries(ctx, o.surface, p)
	if err != nil {
		o.fail(p, err)
		return
	}

	o.results.Add(cacheKey(p), page)
	o.apply(p, page)
}

// apply installs a fetch result, unless the orchestrator has since been
// pointed at different parameters.
func (o *Orchestrator) apply(p Params, page *models.EntryPage) {
	o.mu.Lock()
	o.inFlight = false
	if !p.Equal(o.requested) {
		o.mu.Unlock()
		return
	}
	o.entries = page.Entries
	o.notice = ""
	o.state = StateRendered
	o.mu.Unlock()

	o.Pages.Update(page.Page, page.TotalPages, page.Total)
	o.render()
}

// fail transitions to the error state with a user-facing message. The
// previous result set stays on screen.
func (o *Orchestrator) fail(p Params, err error) {
	notice := "Could not reach the server. Please check your connection."
	switch KindOf(err) {
	case KindConfig:
		notice = "No backend is configured."
	case KindAuth:
		notice = "Your session has expired. Please log in again."
	case KindBusiness:
		var apiErr *Error
		if errors.As(err, &apiErr) {
			notice = apiErr.Message
		}
	}

	o.mu.Lock()
	o.inFlight = false
	if !p.Equal(o.requested) {
		o.mu.Unlock()
		return
	}
	o.notice = notice
	o.state = StateError
	o.mu.Unlock()
	o.render()
}

func (o *Orchestrator) render() {
	if o.onRender != nil {
		o.onRender()
	}
}

// State returns the current render state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Entries returns the currently rendered result set.
func (o *Orchestrator) Entries() []models.Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.entries
}

// Notice returns the user-facing message of the error state.
func (o *Orchestrator) Notice() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notice
}

// Empty reports the empty-state condition: a successful fetch with zero
// entries, which is distinct from an error.
func (o *Orchestrator) Empty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateRendered && len(o.entries) == 0
}

// Categories returns the category list, served from a short-lived cache
// between fetches.
func (o *Orchestrator) Categories(ctx context.Context) ([]models.Category, error) {
	if v, ok := o.categories.Get("all"); ok {
		return v.([]models.Category), nil
	}

	cats, err := o.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	o.categories.SetDefault("all", cats)
	return cats, nil
}

// invalidate drops both caches after any mutation.
func (o *Orchestrator) invalidate() {
	o.results.Purge()
	o.categories.Flush()
}

// reload forces a fresh fetch of the current page.
func (o *Orchestrator) reload(ctx context.Context) {
	o.invalidate()
	o.Load(ctx)
}

// CreateEntry validates the form fields, then submits with whatever
// image is staged; an entry without one is fine. Validation failures
// return field errors without any network call. On success the form's
// staged image is consumed and the list reloads from page 1.
func (o *Orchestrator) CreateEntry(ctx context.Context, fields EntryFields, uploader *UploadSequencer, onProgress func(float64)) (forms.FieldErrors, error) {
	normalized, errs := forms.ValidateEntryFields(fields.Name, fields.Category, fields.URL, fields.Description)
	if len(errs) > 0 {
		return errs, nil
	}
	fields.URL = normalized

	var err error
	if uploader.Selected() != nil {
		err = uploader.Commit(ctx, func(ctx context.Context, img *SelectedImage, prog func(float64)) error {
			_, e := o.api.CreateEntry(ctx, fields, img, prog)
			return e
		}, onProgress)
	} else {
		_, err = o.api.CreateEntry(ctx, fields, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	o.invalidate()
	o.Pages.Update(1, o.Pages.TotalPages(), o.Pages.TotalItems())
	o.Load(ctx)
	return nil, nil
}

// UpdateEntry validates and submits an edit. A staged image replaces the
// stored one; with nothing staged the entry keeps its image. The list is
// re-fetched afterward since the entry's position, and possibly its
// partition, changed.
func (o *Orchestrator) UpdateEntry(ctx context.Context, entry models.Entry, fields EntryFields, uploader *UploadSequencer, onProgress func(float64)) (forms.FieldErrors, error) {
	normalized, errs := forms.ValidateEntryFields(fields.Name, fields.Category, fields.URL, fields.Description)
	if len(errs) > 0 {
		return errs, nil
	}
	fields.URL = normalized

	var err error
	if uploader.Selected() != nil {
		err = uploader.Commit(ctx, func(ctx context.Context, img *SelectedImage, prog func(float64)) error {
			_, e := o.api.UpdateEntry(ctx, entry.PartitionID, entry.Serial, fields, img, prog)
			return e
		}, onProgress)
	} else {
		_, err = o.api.UpdateEntry(ctx, entry.PartitionID, entry.Serial, fields, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	o.reload(ctx)
	return nil, nil
}

// DeleteEntry asks for confirmation carrying the entry's display name,
// and only on approval calls the delete endpoint. On success the current
// page is re-fetched, not reset to page 1. Reports whether a delete was
// performed.
func (o *Orchestrator) DeleteEntry(ctx context.Context, entry models.Entry) (bool, error) {
	if o.confirm != nil && !o.confirm(entry.Name) {
		return false, nil
	}

	if err := o.api.DeleteEntry(ctx, entry.PartitionID, entry.Serial); err != nil {
		return false, err
	}

	o.reload(ctx)
	return true, nil
}

// CreateCategory validates the name client-side and provisions the
// partition.
func (o *Orchestrator) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if msg := forms.ValidateCategoryName(name); msg != "" {
		return nil, &Error{Kind: KindBusiness, Message: msg}
	}

	cat, err := o.api.CreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	o.invalidate()
	return cat, nil
}

// RenameCategory renames in place; entries stay in their partition.
func (o *Orchestrator) RenameCategory(ctx context.Context, name, newName string) error {
	if msg := forms.ValidateCategoryName(newName); msg != "" {
		return &Error{Kind: KindBusiness, Message: msg}
	}

	if err := o.api.RenameCategory(ctx, name, newName); err != nil {
		return err
	}
	o.reload(ctx)
	return nil
}

// DeleteCategory confirms, then removes the category and everything in
// it. Reports whether a delete was performed.
func (o *Orchestrator) DeleteCategory(ctx context.Context, cat models.Category) (bool, error) {
	if o.confirm != nil && !o.confirm(cat.Name) {
		return false, nil
	}

	if err := o.api.DeleteCategory(ctx, cat.ID); err != nil {
		return false, err
	}
	o.reload(ctx)
	return true, nil
}
