// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"strings"
	"sync"
	"time"
)

// DebounceWindow is the quiescence period before a typed query commits.
const DebounceWindow = 250 * time.Millisecond

// FilterController owns the filter state of one surface: free-text query,
// single date, and category. Typed query changes wait out a debounce
// window before committing; an explicit submit commits immediately. Every
// committed change fires the change hook exactly once.
type FilterController struct {
	mu sync.Mutex

	minQuery int
	debounce time.Duration
	timer    *time.Timer

	query    string
	date     string // YYYY-MM-DD, used as both range bounds
	category string

	// onChange fires after any committed filter mutation. The orchestrator
	// uses it to reset pagination and reload.
	onChange func()

	// onReject fires when a non-empty query shorter than the minimum is
	// refused. The admin surface shows an inline message; the public
	// surface passes nil and the rejection stays silent.
	onReject func(query string)
}

// NewFilterController creates a filter controller for the given surface.
func NewFilterController(surface Surface, onChange func(), onReject func(string)) *FilterController {
	return &FilterController{
		minQuery: surface.MinQuery(),
		debounce: DebounceWindow,
		onChange: onChange,
		onReject: onReject,
	}
}

// SetQuery schedules a query commit after the debounce window. Another
// call within the window cancels the pending commit and restarts the
// clock.
func (f *FilterController) SetQuery(text string) {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() {
		f.commitQuery(text)
	})
	f.mu.Unlock()
}

// SubmitQuery commits a query immediately, bypassing the debounce. Any
// pending debounced commit is cancelled.
func (f *FilterController) SubmitQuery(text string) {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
	f.commitQuery(text)
}

// commitQuery applies the minimum-length gate. An empty string always
// commits (clearing the filter); a short non-empty string is rejected
// without touching state.
func (f *FilterController) commitQuery(text string) {
	text = strings.TrimSpace(text)

	f.mu.Lock()
	if text != "" && len([]rune(text)) < f.minQuery {
		reject := f.onReject
		f.mu.Unlock()
		if reject != nil {
			reject(text)
		}
		return
	}
	if text == f.query {
		f.mu.Unlock()
		return
	}
	f.query = text
	f.mu.Unlock()

	f.changed()
}

// SetDate commits a date filter (empty clears it).
func (f *FilterController) SetDate(date string) {
	f.mu.Lock()
	if f.date == date {
		f.mu.Unlock()
		return
	}
	f.date = date
	f.mu.Unlock()
	f.changed()
}

// SetCategory commits a category filter (empty clears it).
func (f *FilterController) SetCategory(name string) {
	f.mu.Lock()
	if f.category == name {
		f.mu.Unlock()
		return
	}
	f.category = name
	f.mu.Unlock()
	f.changed()
}

// Clear drops every filter and any pending debounced query.
func (f *FilterController) Clear() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	wasActive := f.query != "" || f.date != "" || f.category != ""
	f.query, f.date, f.category = "", "", ""
	f.mu.Unlock()

	if wasActive {
		f.changed()
	}
}

// HasActiveFilters reports whether any committed filter is set.
func (f *FilterController) HasActiveFilters() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query != "" || f.date != "" || f.category != ""
}

// Apply copies the committed filter state into a parameter set. The
// single date maps to both range bounds, a one-day range.
func (f *FilterController) Apply(p Params) Params {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.Search = f.query
	p.StartDate = f.date
	p.EndDate = f.date
	p.Category = f.category
	return p
}

// Close stops any pending debounce timer.
func (f *FilterController) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *FilterController) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}
