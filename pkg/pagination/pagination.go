package pagination

import (
	"fmt"
	"math"
)

// DefaultPerPage is used when the builder is created without a page size.
const DefaultPerPage int64 = 10

type Request struct {
	Page    *int64 `query:"page"`
	PerPage *int64 `query:"per_page"`
}

type Pagination struct {
	Offset     int64 `json:"offset"`
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type Links struct {
	Base  string  `json:"base"`
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type Response[T any] struct {
	Links      Links      `json:"links"`
	Pagination Pagination `json:"pagination"`
	Data       T          `json:"data"`
}

// Builder computes page metadata with a configured default page size.
type Builder struct {
	defaultPerPage int64
}

func NewBuilder(defaultPerPage int64) *Builder {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	return &Builder{defaultPerPage: defaultPerPage}
}

func (b *Builder) DefaultPerPage() int64 {
	return b.defaultPerPage
}

// Compute normalizes page and perPage and derives offset and page count.
// Missing or non-positive values are clamped: page to 1, perPage to the
// builder default. An offset that does not fit in int64 saturates at
// math.MaxInt64, which is past the end of any collection.
func (b *Builder) Compute(page, perPage *int64, total int64) Pagination {
	p := int64(1)
	if page != nil && *page > 0 {
		p = *page
	}
	size := b.defaultPerPage
	if perPage != nil && *perPage > 0 {
		size = *perPage
	}
	if total < 0 {
		total = 0
	}

	offset := int64(math.MaxInt64)
	if p-1 <= math.MaxInt64/size {
		offset = (p - 1) * size
	}

	pages := total / size
	if total%size != 0 {
		pages++
	}

	return Pagination{
		Offset:     offset,
		Page:       p,
		PerPage:    size,
		Total:      total,
		TotalPages: pages,
	}
}

func (b *Builder) ComputeRequest(req Request, total int64) Pagination {
	return b.Compute(req.Page, req.PerPage, total)
}

var defaultBuilder = NewBuilder(DefaultPerPage)

func Compute(page, perPage *int64, total int64) Pagination {
	return defaultBuilder.Compute(page, perPage, total)
}

// BuildLinks formats navigation links for p. base is used verbatim and must
// already be encoded.
func BuildLinks(p Pagination, base string) Links {
	links := Links{
		Base:  base,
		First: pageURL(base, 1, p.PerPage),
		Last:  pageURL(base, max(p.TotalPages, 1), p.PerPage),
	}

	if p.Page > 1 {
		// page may be past the end; point back at the last real page
		prev := pageURL(base, max(min(p.Page-1, p.TotalPages), 1), p.PerPage)
		links.Prev = &prev
	}
	if p.Page < p.TotalPages {
		next := pageURL(base, p.Page+1, p.PerPage)
		links.Next = &next
	}

	return links
}

// Paginate wraps data with p and the links derived from base. The error is
// always nil.
func Paginate[T any](p Pagination, data T, base string) (Response[T], error) {
	return Response[T]{
		Links:      BuildLinks(p, base),
		Pagination: p,
		Data:       data,
	}, nil
}

func pageURL(base string, page, perPage int64) string {
	return fmt.Sprintf("%s?page=%d&per_page=%d", base, page, perPage)
}
