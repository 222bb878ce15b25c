package transport

import "sync"

// tokenStore keeps the bearer token in memory only.
type tokenStore struct {
	mu    sync.RWMutex
	value string
}

func (s *tokenStore) Set(token string) {
	s.mu.Lock()
	s.value = token
	s.mu.Unlock()
}

func (s *tokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}
