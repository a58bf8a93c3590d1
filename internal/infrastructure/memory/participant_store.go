package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/domain/ports"
)

var _ ports.ParticipantStore = (*ParticipantStore)(nil)

// ParticipantStore keeps participants in memory together with a lowercased
// email index.
type ParticipantStore struct {
	mu           sync.RWMutex
	seq          Sequence
	participants map[int64]*entities.Participant
	emails       map[string]int64
}

// NewParticipantStore creates an empty ParticipantStore.
func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{
		participants: make(map[int64]*entities.Participant),
		emails:       make(map[string]int64),
	}
}

// Create stores a copy of participant under a fresh identifier.
// The incoming friend set is ignored; friendships are made through Modify.
func (s *ParticipantStore) Create(_ context.Context, participant entities.Participant) (entities.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entities.LowerKey(participant.Email)
	if err := s.checkEmail(key, participant.Email, 0); err != nil {
		return entities.Participant{}, err
	}

	stored := participant.Clone()
	stored.ResolveName()
	stored.Birthday = entities.ToDate(participant.Birthday)
	stored.ID = s.seq.Next()
	stored.Friends = entities.NewIDSet()

	s.participants[stored.ID] = &stored
	s.emails[key] = stored.ID
	return stored.Clone(), nil
}

// GetByID returns a copy of the participant with the given identifier.
func (s *ParticipantStore) GetByID(_ context.Context, id int64) (entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return entities.Participant{}, fmt.Errorf("participant %d: %w", id, entities.ErrNotFound)
	}
	return p.Clone(), nil
}

// GetByIDs returns copies of the known participants among ids, ordered by identifier.
func (s *ParticipantStore) GetByIDs(_ context.Context, ids []int64) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.participants[id]; ok {
			out = append(out, p.Clone())
		}
	}
	sortParticipants(out)
	return slices.CompactFunc(out, func(a, b entities.Participant) bool { return a.ID == b.ID }), nil
}

// GetAll returns copies of all participants ordered by identifier.
func (s *ParticipantStore) GetAll(_ context.Context) ([]entities.Participant, error) {
	all := s.snapshot()
	sortParticipants(all)
	return all, nil
}

// Update replaces the record with participant.ID, keeping the stored friend
// set. The email index is swapped only after the new address is accepted.
func (s *ParticipantStore) Update(_ context.Context, participant entities.Participant) (entities.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.participants[participant.ID]
	if !ok {
		return entities.Participant{}, fmt.Errorf("participant %d: %w", participant.ID, entities.ErrNotFound)
	}

	oldKey := entities.LowerKey(existing.Email)
	newKey := entities.LowerKey(participant.Email)
	if newKey != oldKey {
		if err := s.checkEmail(newKey, participant.Email, participant.ID); err != nil {
			return entities.Participant{}, err
		}
		delete(s.emails, oldKey)
		s.emails[newKey] = participant.ID
	}

	stored := participant.Clone()
	stored.ResolveName()
	stored.Birthday = entities.ToDate(participant.Birthday)
	stored.Friends = existing.Friends
	s.participants[participant.ID] = &stored
	return stored.Clone(), nil
}

// Delete removes the participant and drops it from every friend set.
func (s *ParticipantStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return fmt.Errorf("participant %d: %w", id, entities.ErrNotFound)
	}

	delete(s.emails, entities.LowerKey(p.Email))
	delete(s.participants, id)
	for _, other := range s.participants {
		other.Friends.Remove(id)
	}
	return nil
}

// Modify hands mutator working copies of the listed participants. When it
// returns nil, their friend sets replace the stored ones; other fields are
// not committed so the email index stays valid.
func (s *ParticipantStore) Modify(_ context.Context, ids []int64, mutator ports.ParticipantMutator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make(map[int64]*entities.Participant, len(ids))
	for _, id := range ids {
		p, ok := s.participants[id]
		if !ok {
			return fmt.Errorf("participant %d: %w", id, entities.ErrNotFound)
		}
		c := p.Clone()
		working[id] = &c
	}

	if err := mutator(working); err != nil {
		return err
	}

	for id, c := range working {
		s.participants[id].Friends = c.Friends
	}
	return nil
}

// Count returns the number of stored participants.
func (s *ParticipantStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

// checkEmail rejects key when it belongs to a participant other than self.
// Callers must hold s.mu.
func (s *ParticipantStore) checkEmail(key, email string, self int64) error {
	if owner, ok := s.emails[key]; ok && owner != self {
		return fmt.Errorf("email %q already used by participant %d: %w", email, owner, entities.ErrDuplicate)
	}
	return nil
}

func (s *ParticipantStore) snapshot() []entities.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]entities.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		all = append(all, p.Clone())
	}
	return all
}

func sortParticipants(ps []entities.Participant) {
	slices.SortFunc(ps, func(a, b entities.Participant) int { return cmp.Compare(a.ID, b.ID) })
}
