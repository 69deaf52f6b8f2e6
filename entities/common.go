// Package entities holds the validation schemas of the application's domain
// objects together with the typed records they decode into.
//
//	todo, err := schema.Decode[entities.CreateTodo](entities.CreateTodoSchema, body)
package entities

import (
	"time"

	"github.com/twoojoo/zschema/schema"
)

// pageField and limitField are shared by every list query.
var (
	pageField  = schema.Int().Min(1).Default(1)
	limitField = schema.Int().Min(1).Max(100).Default(10)
)

// IDSchema validates a path parameter holding a record ID.
var IDSchema = schema.NewObject("ID",
	schema.Prop("id", schema.String().Min(1, "ID is required")),
)

// PaginationSchema validates page and limit query parameters.
var PaginationSchema = schema.NewObject("Pagination",
	schema.Prop("page", pageField),
	schema.Prop("limit", limitField),
)

// SearchSchema validates a free-text search query.
var SearchSchema = schema.NewObject("Search",
	schema.Prop("search", schema.String().Optional()),
)

// DateRangeSchema validates an optional from/to date window.
var DateRangeSchema = schema.NewObject("DateRange",
	schema.Prop("from", schema.Date().Optional()),
	schema.Prop("to", schema.Date().Optional()),
)

// ID is a decoded record ID.
type ID struct {
	ID string `json:"id"`
}

// Pagination is a decoded page request.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset returns the number of rows to skip for the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Search is a decoded search query.
type Search struct {
	Search string `json:"search,omitempty"`
}

// DateRange is a decoded date window. Unset bounds are nil.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}
