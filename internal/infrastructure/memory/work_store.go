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

var _ ports.WorkStore = (*WorkStore)(nil)

// workKey is the uniqueness key of a work: lowercased title plus release date.
type workKey struct {
	title string
	date  string
}

func keyOfWork(w *entities.Work) workKey {
	return workKey{
		title: entities.LowerKey(w.Name),
		date:  entities.ToDate(w.ReleaseDate).Format(entities.DateLayout),
	}
}

// WorkStore keeps works in memory. One RWMutex guards the records and the
// uniqueness index together.
type WorkStore struct {
	mu    sync.RWMutex
	seq   Sequence
	works map[int64]*entities.Work
	index map[workKey]int64
}

// NewWorkStore creates an empty WorkStore.
func NewWorkStore() *WorkStore {
	return &WorkStore{
		works: make(map[int64]*entities.Work),
		index: make(map[workKey]int64),
	}
}

// Create stores a copy of work under a fresh identifier.
// The incoming like set is ignored; likes are added through AddLike.
func (s *WorkStore) Create(_ context.Context, work entities.Work) (entities.Work, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOfWork(&work)
	if err := s.checkUnique(key, work.Name, 0); err != nil {
		return entities.Work{}, err
	}

	stored := work.Clone()
	stored.ID = s.seq.Next()
	stored.ReleaseDate = entities.ToDate(work.ReleaseDate)
	stored.Likes = entities.NewIDSet()

	s.works[stored.ID] = &stored
	s.index[key] = stored.ID
	return stored.Clone(), nil
}

// GetByID returns a copy of the work with the given identifier.
func (s *WorkStore) GetByID(_ context.Context, id int64) (entities.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.works[id]
	if !ok {
		return entities.Work{}, fmt.Errorf("work %d: %w", id, entities.ErrNotFound)
	}
	return w.Clone(), nil
}

// GetAll returns copies of all works ordered by identifier.
func (s *WorkStore) GetAll(_ context.Context) ([]entities.Work, error) {
	all := s.snapshot()
	slices.SortFunc(all, func(a, b entities.Work) int { return cmp.Compare(a.ID, b.ID) })
	return all, nil
}

// Update replaces the record with work.ID, keeping the stored like set.
func (s *WorkStore) Update(_ context.Context, work entities.Work) (entities.Work, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.works[work.ID]
	if !ok {
		return entities.Work{}, fmt.Errorf("work %d: %w", work.ID, entities.ErrNotFound)
	}

	key := keyOfWork(&work)
	if err := s.checkUnique(key, work.Name, work.ID); err != nil {
		return entities.Work{}, err
	}

	delete(s.index, keyOfWork(existing))
	s.index[key] = work.ID

	stored := work.Clone()
	stored.ReleaseDate = entities.ToDate(work.ReleaseDate)
	stored.Likes = existing.Likes
	s.works[work.ID] = &stored
	return stored.Clone(), nil
}

// Delete removes the work with the given identifier.
func (s *WorkStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.works[id]
	if !ok {
		return fmt.Errorf("work %d: %w", id, entities.ErrNotFound)
	}
	delete(s.index, keyOfWork(w))
	delete(s.works, id)
	return nil
}

// AddLike records that participantID liked workID.
func (s *WorkStore) AddLike(_ context.Context, workID, participantID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.works[workID]
	if !ok {
		return false, fmt.Errorf("work %d: %w", workID, entities.ErrNotFound)
	}
	return w.Likes.Add(participantID), nil
}

// RemoveLike drops the like of participantID on workID if present.
func (s *WorkStore) RemoveLike(_ context.Context, workID, participantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.works[workID]
	if !ok {
		return fmt.Errorf("work %d: %w", workID, entities.ErrNotFound)
	}
	w.Likes.Remove(participantID)
	return nil
}

// RemoveLikesBy drops every like made by participantID.
func (s *WorkStore) RemoveLikesBy(_ context.Context, participantID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := 0
	for _, w := range s.works {
		if w.Likes.Remove(participantID) {
			touched++
		}
	}
	return touched
}

// Popular returns the n most liked works. Ties are ordered by identifier.
func (s *WorkStore) Popular(_ context.Context, n int) ([]entities.Work, error) {
	if n <= 0 {
		return []entities.Work{}, nil
	}

	all := s.snapshot()
	slices.SortFunc(all, func(a, b entities.Work) int {
		if c := cmp.Compare(b.LikeCount(), a.LikeCount()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Count returns the number of stored works.
func (s *WorkStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.works)
}

// checkUnique rejects key when it belongs to a work other than self.
// Callers must hold s.mu.
func (s *WorkStore) checkUnique(key workKey, name string, self int64) error {
	if owner, ok := s.index[key]; ok && owner != self {
		return fmt.Errorf("work %q released %s already exists as %d: %w",
			name, key.date, owner, entities.ErrDuplicate)
	}
	return nil
}

// snapshot copies every record under the read lock; sorting happens after
// the lock is released.
func (s *WorkStore) snapshot() []entities.Work {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]entities.Work, 0, len(s.works))
	for _, w := range s.works {
		all = append(all, w.Clone())
	}
	return all
}
