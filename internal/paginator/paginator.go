// Package paginator splits lists into pages for the admin list views.
package paginator

import (
	"net/url"
	"strconv"
)

const (
	ParamPageIndex    = "page_index"
	ParamItemsPerPage = "items_per_page"
)

// MaxItemsPerPage caps the page size a request may ask for.
const MaxItemsPerPage = 1000

// Link points to one page of the list.
type Link struct {
	Index   int
	URL     string
	Current bool
}

// Paginator describes the current page of a list.
type Paginator[T any] struct {
	Items        []T
	PageIndex    int
	PageCount    int
	ItemsPerPage int
	TotalItems   int
	Links        []Link
}

// New returns the page at pageIndex (1-based) of items. Out-of-range indexes
// are clamped to the first or last page; itemsPerPage is clamped to
// [1, MaxItemsPerPage].
func New[T any](items []T, pageIndex, itemsPerPage int, baseURL string) *Paginator[T] {
	itemsPerPage = min(max(itemsPerPage, 1), MaxItemsPerPage)
	pageCount := len(items) / itemsPerPage
	if len(items)%itemsPerPage != 0 {
		pageCount++
	}
	if pageCount == 0 {
		pageCount = 1
	}
	pageIndex = min(max(pageIndex, 1), pageCount)

	start := (pageIndex - 1) * itemsPerPage
	end := min(start+itemsPerPage, len(items))

	p := &Paginator[T]{
		Items:        items[start:end],
		PageIndex:    pageIndex,
		PageCount:    pageCount,
		ItemsPerPage: itemsPerPage,
		TotalItems:   len(items),
		Links:        make([]Link, 0, pageCount),
	}
	for i := 1; i <= pageCount; i++ {
		p.Links = append(p.Links, Link{Index: i, URL: pageURL(baseURL, i, itemsPerPage), Current: i == pageIndex})
	}
	return p
}

// HasPrevious reports whether a page precedes the current one.
func (p *Paginator[T]) HasPrevious() bool { return p.PageIndex > 1 }

// HasNext reports whether a page follows the current one.
func (p *Paginator[T]) HasNext() bool { return p.PageIndex < p.PageCount }

// PreviousURL returns the link to the preceding page, or "" on the first page.
func (p *Paginator[T]) PreviousURL() string {
	if !p.HasPrevious() {
		return ""
	}
	return p.Links[p.PageIndex-2].URL
}

// NextURL returns the link to the following page, or "" on the last page.
func (p *Paginator[T]) NextURL() string {
	if !p.HasNext() {
		return ""
	}
	return p.Links[p.PageIndex].URL
}

func pageURL(baseURL string, index, itemsPerPage int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set(ParamPageIndex, strconv.Itoa(index))
	q.Set(ParamItemsPerPage, strconv.Itoa(itemsPerPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// ItemsPerPage resolves the page size from the request value, falling back to
// the remembered value and then to the default. The result never exceeds
// MaxItemsPerPage.
func ItemsPerPage(requested string, remembered, defaultValue int) int {
	if n, err := strconv.Atoi(requested); err == nil && n > 0 {
		return min(n, MaxItemsPerPage)
	}
	if remembered > 0 {
		return min(remembered, MaxItemsPerPage)
	}
	return min(defaultValue, MaxItemsPerPage)
}

// PageIndex parses a 1-based page index, defaulting to the first page.
func PageIndex(requested string) int {
	if n, err := strconv.Atoi(requested); err == nil && n > 0 {
		return n
	}
	return 1
}
