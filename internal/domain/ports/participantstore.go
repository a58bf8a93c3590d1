package ports

import (
	"context"

	"github.com/ersonp/filmorate/internal/domain/entities"
)

// ParticipantMutator edits a set of participants inside one atomic step.
// Returning an error discards every change.
type ParticipantMutator func(participants map[int64]*entities.Participant) error

// ParticipantStore owns the collection of participants.
type ParticipantStore interface {
	// Create assigns an identifier, resolves the display name and stores a copy.
	// Returns ErrDuplicate if the email is already used (case-insensitive).
	Create(ctx context.Context, participant entities.Participant) (entities.Participant, error)

	// GetByID returns the participant or ErrNotFound.
	GetByID(ctx context.Context, id int64) (entities.Participant, error)

	// GetByIDs resolves ids to records ordered by identifier. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]entities.Participant, error)

	// GetAll returns a snapshot of every participant, ordered by identifier.
	GetAll(ctx context.Context) ([]entities.Participant, error)

	// Update replaces the stored record, keeping its friend set. An email change
	// is checked against other participants before the index is touched.
	Update(ctx context.Context, participant entities.Participant) (entities.Participant, error)

	// Delete removes the participant and drops it from every friend set.
	Delete(ctx context.Context, id int64) error

	// Modify runs mutator over copies of the listed participants and commits
	// their friend sets atomically. Returns ErrNotFound if any id is absent.
	Modify(ctx context.Context, ids []int64, mutator ParticipantMutator) error

	// Count returns the number of stored participants.
	Count(ctx context.Context) int
}
