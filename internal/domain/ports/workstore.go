// Package ports declares the storage contracts the domain depends on.
package ports

import (
	"context"

	"github.com/ersonp/filmorate/internal/domain/entities"
)

// WorkStore owns the collection of works. Implementations must be safe for
// concurrent use and must never hand out a live reference to a stored record.
type WorkStore interface {
	// Create assigns an identifier and stores a copy of work.
	// Returns ErrDuplicate if another work has the same lowercased title and
	// release date.
	Create(ctx context.Context, work entities.Work) (entities.Work, error)

	// GetByID returns the work or ErrNotFound.
	GetByID(ctx context.Context, id int64) (entities.Work, error)

	// GetAll returns a snapshot of every work, ordered by identifier.
	GetAll(ctx context.Context) ([]entities.Work, error)

	// Update replaces the stored record with the same identifier, keeping its
	// like set. Returns ErrNotFound or, on collision with a different record,
	// ErrDuplicate.
	Update(ctx context.Context, work entities.Work) (entities.Work, error)

	// Delete removes the work and its like set. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// AddLike records a like and reports whether it was new.
	AddLike(ctx context.Context, workID, participantID int64) (bool, error)

	// RemoveLike drops a like. Absent likes are not an error.
	RemoveLike(ctx context.Context, workID, participantID int64) error

	// RemoveLikesBy drops every like made by participantID and returns the
	// number of works touched.
	RemoveLikesBy(ctx context.Context, participantID int64) int

	// Popular returns up to n works ordered by like count descending, then by
	// identifier ascending. n <= 0 yields an empty result.
	Popular(ctx context.Context, n int) ([]entities.Work, error)

	// Count returns the number of stored works.
	Count(ctx context.Context) int
}
