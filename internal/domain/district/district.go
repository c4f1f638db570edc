package district

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested district does not exist.
var ErrNotFound = errors.New("district not found")

// District is a shipping region reference entry.
type District struct {
	ID    int64
	Title string
}

// Repository defines persistence operations for districts.
type Repository interface {
	List(ctx context.Context) ([]District, error)
	Create(ctx context.Context, d *District) error
	Delete(ctx context.Context, id int64) error
}
