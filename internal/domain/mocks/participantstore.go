package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/domain/ports"
)

// ParticipantStore is a mock implementation of ports.ParticipantStore.
// It is not safe for concurrent use.
type ParticipantStore struct {
	Participants map[int64]*entities.Participant
	NextID       int64
	Err          error

	// Fine-grained errors, checked after Err.
	CreateErr error
	ModifyErr error
	DeleteErr error

	// Call tracking
	ModifyCallCount int
	DeleteCallCount int
}

// NewParticipantStore creates a new mock ParticipantStore.
func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{Participants: make(map[int64]*entities.Participant)}
}

// Create stores the participant under the next identifier.
func (m *ParticipantStore) Create(_ context.Context, participant entities.Participant) (entities.Participant, error) {
	if m.Err != nil {
		return entities.Participant{}, m.Err
	}
	if m.CreateErr != nil {
		return entities.Participant{}, m.CreateErr
	}
	m.NextID++
	stored := participant.Clone()
	stored.ResolveName()
	stored.ID = m.NextID
	stored.Friends = entities.NewIDSet()
	m.Participants[stored.ID] = &stored
	return stored.Clone(), nil
}

// GetByID returns the participant or ErrNotFound.
func (m *ParticipantStore) GetByID(_ context.Context, id int64) (entities.Participant, error) {
	if m.Err != nil {
		return entities.Participant{}, m.Err
	}
	p, ok := m.Participants[id]
	if !ok {
		return entities.Participant{}, fmt.Errorf("participant %d: %w", id, entities.ErrNotFound)
	}
	return p.Clone(), nil
}

// GetByIDs returns the known participants among ids.
func (m *ParticipantStore) GetByIDs(_ context.Context, ids []int64) ([]entities.Participant, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.Participants[id]; ok {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetAll returns every participant ordered by identifier.
func (m *ParticipantStore) GetAll(_ context.Context) ([]entities.Participant, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Participant, 0, len(m.Participants))
	for _, p := range m.Participants {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces the stored participant.
func (m *ParticipantStore) Update(_ context.Context, participant entities.Participant) (entities.Participant, error) {
	if m.Err != nil {
		return entities.Participant{}, m.Err
	}
	existing, ok := m.Participants[participant.ID]
	if !ok {
		return entities.Participant{}, fmt.Errorf("participant %d: %w", participant.ID, entities.ErrNotFound)
	}
	stored := participant.Clone()
	stored.ResolveName()
	stored.Friends = existing.Friends
	m.Participants[participant.ID] = &stored
	return stored.Clone(), nil
}

// Delete removes the participant and its friendships.
func (m *ParticipantStore) Delete(_ context.Context, id int64) error {
	m.DeleteCallCount++
	if m.Err != nil {
		return m.Err
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Participants[id]; !ok {
		return fmt.Errorf("participant %d: %w", id, entities.ErrNotFound)
	}
	delete(m.Participants, id)
	for _, p := range m.Participants {
		p.Friends.Remove(id)
	}
	return nil
}

// Modify runs mutator over copies and commits friend sets on success.
func (m *ParticipantStore) Modify(_ context.Context, ids []int64, mutator ports.ParticipantMutator) error {
	m.ModifyCallCount++
	if m.Err != nil {
		return m.Err
	}
	if m.ModifyErr != nil {
		return m.ModifyErr
	}
	working := make(map[int64]*entities.Participant, len(ids))
	for _, id := range ids {
		p, ok := m.Participants[id]
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
		m.Participants[id].Friends = c.Friends
	}
	return nil
}

// Count returns the number of participants.
func (m *ParticipantStore) Count(_ context.Context) int {
	return len(m.Participants)
}
