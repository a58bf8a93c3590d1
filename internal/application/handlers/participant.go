package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/domain/ports"
	"github.com/ersonp/filmorate/internal/domain/services"
)

// ParticipantHandler exposes the catalog operations on participants and
// their friendships.
type ParticipantHandler struct {
	store         ports.ParticipantStore
	relationships *services.RelationshipService
	log           logrus.FieldLogger
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(store ports.ParticipantStore, relationships *services.RelationshipService, log logrus.FieldLogger) *ParticipantHandler {
	return &ParticipantHandler{
		store:         store,
		relationships: relationships,
		log:           log.WithField("component", "participants"),
	}
}

// HandleCreate validates and stores a new participant. A blank name falls
// back to the login.
func (h *ParticipantHandler) HandleCreate(ctx context.Context, participant *entities.Participant) (entities.Participant, error) {
	if participant == nil {
		return entities.Participant{}, entities.NewValidationError("", "participant payload is required")
	}
	if err := participant.Validate(); err != nil {
		h.log.WithError(err).Debug("rejected participant")
		return entities.Participant{}, err
	}

	created, err := h.store.Create(ctx, *participant)
	if err != nil {
		return entities.Participant{}, fmt.Errorf("creating participant: %w", err)
	}

	h.log.WithFields(logrus.Fields{"participant_id": created.ID, "login": created.Login}).Info("participant created")
	return created, nil
}

// HandleUpdate replaces an existing participant. Friendships are kept.
func (h *ParticipantHandler) HandleUpdate(ctx context.Context, participant *entities.Participant) (entities.Participant, error) {
	if participant == nil {
		return entities.Participant{}, entities.NewValidationError("", "participant payload is required")
	}
	if err := requireID(participant.ID); err != nil {
		return entities.Participant{}, err
	}
	if err := participant.Validate(); err != nil {
		h.log.WithError(err).WithField("participant_id", participant.ID).Debug("rejected participant update")
		return entities.Participant{}, err
	}

	updated, err := h.store.Update(ctx, *participant)
	if err != nil {
		return entities.Participant{}, fmt.Errorf("updating participant %d: %w", participant.ID, err)
	}

	h.log.WithField("participant_id", updated.ID).Info("participant updated")
	return updated, nil
}

// HandleGet returns one participant.
func (h *ParticipantHandler) HandleGet(ctx context.Context, id int64) (entities.Participant, error) {
	if err := requireID(id); err != nil {
		return entities.Participant{}, err
	}
	return h.store.GetByID(ctx, id)
}

// HandleList returns every participant ordered by identifier.
func (h *ParticipantHandler) HandleList(ctx context.Context) ([]entities.Participant, error) {
	participants, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	return participants, nil
}

// HandleDelete removes a participant, its friendships and its likes.
func (h *ParticipantHandler) HandleDelete(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}

	touched, err := h.relationships.DeleteParticipant(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting participant: %w", err)
	}

	h.log.WithFields(logrus.Fields{"participant_id": id, "likes_removed": touched}).Info("participant deleted")
	return nil
}

// HandleAddFriend makes two participants friends. Being friends already is
// a successful no-op.
func (h *ParticipantHandler) HandleAddFriend(ctx context.Context, id, friendID int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := requireNamedID("friendId", friendID); err != nil {
		return err
	}

	added, err := h.relationships.AddFriend(ctx, id, friendID)
	if err != nil {
		return fmt.Errorf("adding friend: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"participant_id": id,
		"friend_id":      friendID,
		"added":          added,
	}).Info("friendship recorded")
	return nil
}

// HandleRemoveFriend ends a friendship. Removing an absent friendship
// succeeds.
func (h *ParticipantHandler) HandleRemoveFriend(ctx context.Context, id, friendID int64) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := requireNamedID("friendId", friendID); err != nil {
		return err
	}

	removed, err := h.relationships.RemoveFriend(ctx, id, friendID)
	if err != nil {
		return fmt.Errorf("removing friend: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"participant_id": id,
		"friend_id":      friendID,
		"removed":        removed,
	}).Info("friendship removed")
	return nil
}

// HandleFriends lists the friends of a participant.
func (h *ParticipantHandler) HandleFriends(ctx context.Context, id int64) ([]entities.Participant, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	friends, err := h.relationships.Friends(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	return friends, nil
}

// HandleCommonFriends lists the friends shared by two participants.
func (h *ParticipantHandler) HandleCommonFriends(ctx context.Context, id, otherID int64) ([]entities.Participant, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := requireNamedID("otherId", otherID); err != nil {
		return nil, err
	}
	common, err := h.relationships.CommonFriends(ctx, id, otherID)
	if err != nil {
		return nil, fmt.Errorf("listing common friends: %w", err)
	}
	return common, nil
}

// Count returns the number of stored participants.
func (h *ParticipantHandler) Count(ctx context.Context) int {
	return h.store.Count(ctx)
}
