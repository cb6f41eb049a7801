// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import "sync"

// Ellipsis is the collapsed-gap marker in a page window.
const Ellipsis = -1

// windowThreshold is the page count up to which every page number is
// shown without collapsing.
const windowThreshold = 7

// Paginator owns the pagination state of one surface: 1-based current
// page, last-known total pages and item count. Page changes fire the
// page hook; Update never does.
type Paginator struct {
	mu sync.Mutex

	current    int
	totalPages int
	totalItems int

	onPage func(page int)
}

// NewPaginator creates a paginator starting on page 1 of an empty set.
func NewPaginator(onPage func(page int)) *Paginator {
	return &Paginator{current: 1, onPage: onPage}
}

// Update replaces the pagination state from a fetch result. It is
// idempotent and never fires the page hook.
func (p *Paginator) Update(current, totalPages, totalItems int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current < 1 {
		current = 1
	}
	p.current = current
	p.totalPages = totalPages
	p.totalItems = totalItems
}

// Current returns the current 1-based page.
func (p *Paginator) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// TotalPages returns the last-known page count.
func (p *Paginator) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// TotalItems returns the last-known total item count.
func (p *Paginator) TotalItems() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalItems
}

// GoToPage moves to page n and fires the page hook. Out-of-range pages
// and the current page are no-ops with no hook fired.
func (p *Paginator) GoToPage(n int) {
	p.mu.Lock()
	if n < 1 || n > p.totalPages || n == p.current {
		p.mu.Unlock()
		return
	}
	p.current = n
	hook := p.onPage
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

// Next advances one page, clamped to the last page.
func (p *Paginator) Next() {
	p.mu.Lock()
	n := p.current + 1
	if n > p.totalPages {
		n = p.totalPages
	}
	p.mu.Unlock()
	p.GoToPage(n)
}

// Prev steps back one page, clamped to page 1.
func (p *Paginator) Prev() {
	p.mu.Lock()
	n := p.current - 1
	if n < 1 {
		n = 1
	}
	p.mu.Unlock()
	p.GoToPage(n)
}

// Window computes the visible page numbers with collapsed gaps. With at
// most 7 pages every number shows. Beyond that, page 1 and the last page
// always show; near the start the window is 1..5, near the end it is the
// last five pages, and in the middle it is the three pages around the
// current one, with Ellipsis markers standing in for each collapsed gap.
func (p *Paginator) Window() []int {
	p.mu.Lock()
	current, last := p.current, p.totalPages
	p.mu.Unlock()

	if last <= 0 {
		return nil
	}

	if last <= windowThreshold {
		pages := make([]int, 0, last)
		for i := 1; i <= last; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case current <= 4:
		return append(rangePages(1, 5), Ellipsis, last)
	case current >= last-3:
		return append([]int{1, Ellipsis}, rangePages(last-4, last)...)
	default:
		pages := append([]int{1, Ellipsis}, rangePages(current-1, current+1)...)
		return append(pages, Ellipsis, last)
	}
}

func rangePages(from, to int) []int {
	pages := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		pages = append(pages, i)
	}
	return pages
}
