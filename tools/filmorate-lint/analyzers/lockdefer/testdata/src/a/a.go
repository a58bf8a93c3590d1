package a

import "sync"

type store struct {
	mu sync.RWMutex
	m  map[int]int
}

func (s *store) get(k int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[k]
}

func (s *store) put(k, v int) {
	s.mu.Lock() // want `s.mu.Lock\(\) is not followed by defer s.mu.Unlock\(\)`
	s.m[k] = v
	s.mu.Unlock()
}

func (s *store) wrongUnlock() int {
	s.mu.RLock() // want `s.mu.RLock\(\) is not followed by defer s.mu.RUnlock\(\)`
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *store) otherMutex(other *store) {
	s.mu.Lock() // want `s.mu.Lock\(\) is not followed by defer s.mu.Unlock\(\)`
	defer other.mu.Unlock()
}

func lastStatement(mu *sync.Mutex) {
	mu.Lock() // want `mu.Lock\(\) is not followed by defer mu.Unlock\(\)`
}

func inSwitch(mu *sync.Mutex, n int) {
	switch n {
	case 1:
		mu.Lock()
		defer mu.Unlock()
	case 2:
		mu.Lock() // want `mu.Lock\(\) is not followed by defer mu.Unlock\(\)`
	}
}

type door struct{}

func (door) Lock() {}

func notSync() {
	var d door
	d.Lock()
}
