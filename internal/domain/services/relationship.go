// Package services holds the domain operations that span more than one store.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/domain/ports"
)

// RelationshipService manages friendships between participants and likes
// from participants on works. One mutex serializes every cross-entity write so
// that deleting a participant cannot race with a new like or friendship.
type RelationshipService struct {
	mu           sync.Mutex
	participants ports.ParticipantStore
	works        ports.WorkStore
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(participants ports.ParticipantStore, works ports.WorkStore) *RelationshipService {
	return &RelationshipService{
		participants: participants,
		works:        works,
	}
}

// AddFriend makes a and b friends of each other. It reports false when they
// already were.
func (s *RelationshipService) AddFriend(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return false, entities.NewValidationError("friendId", "a participant cannot befriend themselves")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	err := s.participants.Modify(ctx, []int64{a, b}, func(ps map[int64]*entities.Participant) error {
		left := ps[a].Friends.Add(b)
		right := ps[b].Friends.Add(a)
		added = left || right
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("adding friend %d to %d: %w", b, a, err)
	}
	return added, nil
}

// RemoveFriend ends the friendship between a and b. It reports false when
// there was none. A participant is never its own friend, so a == b is a no-op.
func (s *RelationshipService) RemoveFriend(ctx context.Context, a, b int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == b {
		if _, err := s.participants.GetByID(ctx, a); err != nil {
			return false, fmt.Errorf("removing friend %d from %d: %w", b, a, err)
		}
		return false, nil
	}

	removed := false
	err := s.participants.Modify(ctx, []int64{a, b}, func(ps map[int64]*entities.Participant) error {
		left := ps[a].Friends.Remove(b)
		right := ps[b].Friends.Remove(a)
		removed = left || right
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("removing friend %d from %d: %w", b, a, err)
	}
	return removed, nil
}

// Friends returns the friends of id ordered by identifier.
func (s *RelationshipService) Friends(ctx context.Context, id int64) ([]entities.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.participants.GetByIDs(ctx, p.Friends.Sorted())
}

// CommonFriends returns the participants who are friends of both a and b.
func (s *RelationshipService) CommonFriends(ctx context.Context, a, b int64) ([]entities.Participant, error) {
	left, err := s.participants.GetByID(ctx, a)
	if err != nil {
		return nil, err
	}
	right, err := s.participants.GetByID(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.participants.GetByIDs(ctx, left.Friends.Intersect(right.Friends).Sorted())
}

// AddLike records that participantID liked workID.
func (s *RelationshipService) AddLike(ctx context.Context, workID, participantID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return false, err
	}
	added, err := s.works.AddLike(ctx, workID, participantID)
	if err != nil {
		return false, err
	}
	return added, nil
}

// RemoveLike drops the like of participantID on workID.
func (s *RelationshipService) RemoveLike(ctx context.Context, workID, participantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return err
	}
	return s.works.RemoveLike(ctx, workID, participantID)
}

// DeleteParticipant removes the participant, its friendships and its likes.
// It returns the number of works whose like set changed.
func (s *RelationshipService) DeleteParticipant(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.participants.Delete(ctx, id); err != nil {
		return 0, err
	}
	return s.works.RemoveLikesBy(ctx, id), nil
}

// Popular returns the n most liked works.
func (s *RelationshipService) Popular(ctx context.Context, n int) ([]entities.Work, error) {
	return s.works.Popular(ctx, n)
}
