package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/domain/ports"
	"github.com/ersonp/filmorate/internal/domain/services"
)

// WorkHandler exposes the catalog operations on works.
type WorkHandler struct {
	store         ports.WorkStore
	relationships *services.RelationshipService
	log           logrus.FieldLogger
}

// NewWorkHandler creates a new WorkHandler.
func NewWorkHandler(store ports.WorkStore, relationships *services.RelationshipService, log logrus.FieldLogger) *WorkHandler {
	return &WorkHandler{
		store:         store,
		relationships: relationships,
		log:           log.WithField("component", "works"),
	}
}

// HandleCreate validates and stores a new work.
func (h *WorkHandler) HandleCreate(ctx context.Context, work *entities.Work) (entities.Work, error) {
	if work == nil {
		return entities.Work{}, entities.NewValidationError("", "work payload is required")
	}
	if err := work.Validate(); err != nil {
		h.log.WithError(err).Debug("rejected work")
		return entities.Work{}, err
	}

	created, err := h.store.Create(ctx, *work)
	if err != nil {
		return entities.Work{}, fmt.Errorf("creating work: %w", err)
	}

	h.log.WithFields(logrus.Fields{"work_id": created.ID, "name": created.Name}).Info("work created")
	return created, nil
}

// HandleUpdate replaces an existing work. Likes are kept.
func (h *WorkHandler) HandleUpdate(ctx context.Context, work *entities.Work) (entities.Work, error) {
	if work == nil {
		return entities.Work{}, entities.NewValidationError("", "work payload is required")
	}
	if err := requireID(work.ID); err != nil {
		return entities.Work{}, err
	}
	if err := work.Validate(); err != nil {
		h.log.WithError(err).WithField("work_id", work.ID).Debug("rejected work update")
		return entities.Work{}, err
	}

	updated, err := h.store.Update(ctx, *work)
	if err != nil {
		return entities.Work{}, fmt.Errorf("updating work %d: %w", work.ID, err)
	}

	h.log.WithField("work_id", updated.ID).Info("work updated")
	return updated, nil
}

// HandleGet returns one work.
func (h *WorkHandler) HandleGet(ctx context.Context, id int64) (entities.Work, error) {
	if err := requireID(id); err != nil {
		return entities.Work{}, err
	}
	return h.store.GetByID(ctx, id)
}

// HandleList returns every work ordered by identifier.
func (h *WorkHandler) HandleList(ctx context.Context) ([]entities.Work, error) {
	works, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}
	return works, nil
}

// HandleDelete removes a work together with its likes.
func (h *WorkHandler) HandleDelete(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := h.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting work: %w", err)
	}

	h.log.WithField("work_id", id).Info("work deleted")
	return nil
}

// HandleAddLike records a like and reports whether it was new.
// Liking twice is a successful no-op.
func (h *WorkHandler) HandleAddLike(ctx context.Context, workID, participantID int64) (bool, error) {
	if err := requireID(workID); err != nil {
		return false, err
	}
	if err := requireNamedID("userId", participantID); err != nil {
		return false, err
	}

	added, err := h.relationships.AddLike(ctx, workID, participantID)
	if err != nil {
		return false, fmt.Errorf("liking work %d: %w", workID, err)
	}

	h.log.WithFields(logrus.Fields{
		"work_id":        workID,
		"participant_id": participantID,
		"added":          added,
	}).Info("like recorded")
	return added, nil
}

// HandleRemoveLike drops a like. Removing an absent like succeeds.
func (h *WorkHandler) HandleRemoveLike(ctx context.Context, workID, participantID int64) error {
	if err := requireID(workID); err != nil {
		return err
	}
	if err := requireNamedID("userId", participantID); err != nil {
		return err
	}

	if err := h.relationships.RemoveLike(ctx, workID, participantID); err != nil {
		return fmt.Errorf("unliking work %d: %w", workID, err)
	}

	h.log.WithFields(logrus.Fields{"work_id": workID, "participant_id": participantID}).Info("like removed")
	return nil
}

// HandlePopular returns up to n works by like count. n is taken literally.
func (h *WorkHandler) HandlePopular(ctx context.Context, n int) ([]entities.Work, error) {
	works, err := h.relationships.Popular(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("ranking works: %w", err)
	}
	return works, nil
}

// Count returns the number of stored works.
func (h *WorkHandler) Count(ctx context.Context) int {
	return h.store.Count(ctx)
}

func requireID(id int64) error {
	return requireNamedID("id", id)
}

func requireNamedID(field string, id int64) error {
	if id <= 0 {
		return entities.NewValidationError(field, "must be a positive identifier")
	}
	return nil
}
