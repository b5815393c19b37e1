// Package core holds the building blocks shared by every domain package:
// entity identity, domain errors, aggregate roots and watched lists.
package core

import (
	"errors"

	"github.com/google/uuid"
)

// PageSize is the number of items returned by every paginated query.
const PageSize = 20

var (
	ErrNotAllowed       = errors.New("not allowed")
	ErrResourceNotFound = errors.New("resource not found")
)

// ID identifies an entity. The empty ID means "not set".
type ID string

// NewID returns a fresh random identity.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// PageBounds returns the [start, end) slice bounds of a 1-based page over n items.
func PageBounds(page, n int) (int, int) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start > n {
		start = n
	}
	end := start + PageSize
	if end > n {
		end = n
	}
	return start, end
}
