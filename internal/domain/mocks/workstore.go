package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/ersonp/filmorate/internal/domain/entities"
)

// WorkStore is a mock implementation of ports.WorkStore.
// It is not safe for concurrent use.
type WorkStore struct {
	Works  map[int64]*entities.Work
	NextID int64
	Err    error

	// Fine-grained errors, checked after Err.
	CreateErr error
	UpdateErr error
	LikeErr   error

	// Call tracking
	CreateCallCount        int
	RemoveLikesByCallCount int
	PopularLastN           int
}

// NewWorkStore creates a new mock WorkStore.
func NewWorkStore() *WorkStore {
	return &WorkStore{Works: make(map[int64]*entities.Work)}
}

// Create stores the work under the next identifier.
func (m *WorkStore) Create(_ context.Context, work entities.Work) (entities.Work, error) {
	m.CreateCallCount++
	if m.Err != nil {
		return entities.Work{}, m.Err
	}
	if m.CreateErr != nil {
		return entities.Work{}, m.CreateErr
	}
	m.NextID++
	stored := work.Clone()
	stored.ID = m.NextID
	stored.Likes = entities.NewIDSet()
	m.Works[stored.ID] = &stored
	return stored.Clone(), nil
}

// GetByID returns the work or ErrNotFound.
func (m *WorkStore) GetByID(_ context.Context, id int64) (entities.Work, error) {
	if m.Err != nil {
		return entities.Work{}, m.Err
	}
	w, ok := m.Works[id]
	if !ok {
		return entities.Work{}, fmt.Errorf("work %d: %w", id, entities.ErrNotFound)
	}
	return w.Clone(), nil
}

// GetAll returns every work ordered by identifier.
func (m *WorkStore) GetAll(_ context.Context) ([]entities.Work, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Work, 0, len(m.Works))
	for _, w := range m.Works {
		result = append(result, w.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces the stored work.
func (m *WorkStore) Update(_ context.Context, work entities.Work) (entities.Work, error) {
	if m.Err != nil {
		return entities.Work{}, m.Err
	}
	if m.UpdateErr != nil {
		return entities.Work{}, m.UpdateErr
	}
	existing, ok := m.Works[work.ID]
	if !ok {
		return entities.Work{}, fmt.Errorf("work %d: %w", work.ID, entities.ErrNotFound)
	}
	stored := work.Clone()
	stored.Likes = existing.Likes
	m.Works[work.ID] = &stored
	return stored.Clone(), nil
}

// Delete removes the work.
func (m *WorkStore) Delete(_ context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Works[id]; !ok {
		return fmt.Errorf("work %d: %w", id, entities.ErrNotFound)
	}
	delete(m.Works, id)
	return nil
}

// AddLike records a like.
func (m *WorkStore) AddLike(_ context.Context, workID, participantID int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if m.LikeErr != nil {
		return false, m.LikeErr
	}
	w, ok := m.Works[workID]
	if !ok {
		return false, fmt.Errorf("work %d: %w", workID, entities.ErrNotFound)
	}
	return w.Likes.Add(participantID), nil
}

// RemoveLike drops a like.
func (m *WorkStore) RemoveLike(_ context.Context, workID, participantID int64) error {
	if m.Err != nil {
		return m.Err
	}
	if m.LikeErr != nil {
		return m.LikeErr
	}
	w, ok := m.Works[workID]
	if !ok {
		return fmt.Errorf("work %d: %w", workID, entities.ErrNotFound)
	}
	w.Likes.Remove(participantID)
	return nil
}

// RemoveLikesBy drops every like by participantID.
func (m *WorkStore) RemoveLikesBy(_ context.Context, participantID int64) int {
	m.RemoveLikesByCallCount++
	touched := 0
	for _, w := range m.Works {
		if w.Likes.Remove(participantID) {
			touched++
		}
	}
	return touched
}

// Popular returns works ordered by like count, then identifier.
func (m *WorkStore) Popular(ctx context.Context, n int) ([]entities.Work, error) {
	m.PopularLastN = n
	if m.Err != nil {
		return nil, m.Err
	}
	if n <= 0 {
		return []entities.Work{}, nil
	}
	all, _ := m.GetAll(ctx)
	sort.SliceStable(all, func(i, j int) bool { return all[i].LikeCount() > all[j].LikeCount() })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Count returns the number of works.
func (m *WorkStore) Count(_ context.Context) int {
	return len(m.Works)
}
