package repository

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Order struct {
	Field string
	Desc  bool
}

// PageRequest selects a 0-based page of Size items.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

func NewPageRequest(page, size int, sort ...Order) PageRequest {
	return PageRequest{Page: page, Size: size, Sort: sort}.Normalize()
}

// Normalize clamps page and size into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParseOrder reads "field" or "field,asc|desc".
func ParseOrder(s string) (Order, error) {
	parts := strings.Split(s, ",")
	o := Order{Field: strings.TrimSpace(parts[0])}
	if o.Field == "" {
		return Order{}, fmt.Errorf("empty sort field in %q", s)
	}
	if len(parts) > 2 {
		return Order{}, fmt.Errorf("bad sort %q", s)
	}
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc":
		case "desc":
			o.Desc = true
		default:
			return Order{}, fmt.Errorf("bad sort direction in %q", s)
		}
	}
	return o, nil
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, TotalElements: total, Number: req.Page, Size: req.Size}
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// MapPage converts the content and keeps the paging data.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}
	return Page[R]{Content: out, TotalElements: p.TotalElements, Number: p.Number, Size: p.Size}
}
