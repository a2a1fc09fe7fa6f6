// Package catalog fetches browsable recipe records from the external catalog
// provider. All provider payloads are normalized at this boundary: prices
// arrive as major-unit decimals and are stored as integer cents everywhere
// past this package.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrInvalidResponse is returned when the provider payload does not match the
// documented response shape.
var ErrInvalidResponse = errors.New("invalid catalog response")

// Record is a normalized catalog entry. PricePerServing is integer cents.
type Record struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Image           string   `json:"image"`
	PricePerServing int64    `json:"pricePerServing"`
	Summary         string   `json:"summary"`
	ReadyInMinutes  int      `json:"readyInMinutes"`
	Servings        int      `json:"servings"`
	Diets           []string `json:"diets"`
}

// Page is one page of catalog results.
type Page struct {
	Results      []Record
	TotalResults int
}

// SearchParams scopes a free-text catalog search.
type SearchParams struct {
	Query string
	Page  int
	Limit int
	// Fields restricts which record fields the query matches against.
	// Supported values: "title", "summary", "diets".
	Fields []string
}

// Client is the catalog access interface consumed by the menu state machine.
type Client interface {
	GetAll(ctx context.Context, page, limit int) (*Page, error)
	Search(ctx context.Context, params SearchParams) (*Page, error)
}
