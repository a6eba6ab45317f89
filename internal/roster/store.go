package roster

import (
	"strings"
	"sync"

	"github.com/teamdash/break-service/internal/models"
)

// Store holds the mapping from user id to user record. It is pure data
// access: every read hands out deep copies and every write happens under the
// store lock, but legality of transitions is the caller's concern.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
	seed  []models.User
}

// NewStore creates a store populated from the given seed set. The seed is
// retained so Reset can restore it exactly.
func NewStore(seed []models.User) *Store {
	s := &Store{seed: make([]models.User, len(seed))}
	for i, u := range seed {
		s.seed[i] = u.Clone()
	}
	s.replace(seed)
	return s
}

// Get returns a copy of the user with the given id.
func (s *Store) Get(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return u.Clone(), true
}

// GetByUsername returns a copy of the user with the given username. The
// match is case-insensitive and ignores surrounding whitespace, matching how
// staff type their own names at the login screen.
func (s *Store) GetByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(username))
	for _, id := range s.order {
		u := s.users[id]
		if strings.ToLower(u.Username) == needle {
			return u.Clone(), true
		}
	}
	return models.User{}, false
}

// List returns copies of all users in seed order.
func (s *Store) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.users[id].Clone())
	}
	return users
}

// Update applies mutate to the user with the given id under the store lock.
// It reports whether the user exists; unknown ids are a no-op.
func (s *Store) Update(id string, mutate func(*models.User)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false
	}
	mutate(&u)
	s.users[id] = u
	return true
}

// Replace swaps the entire roster for the given set of users, preserving
// their order. Used when restoring a persisted snapshot.
func (s *Store) Replace(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(users)
}

// Reset restores the roster to a fresh copy of the seed set.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(s.seed)
}

func (s *Store) replace(users []models.User) {
	s.users = make(map[string]models.User, len(users))
	s.order = make([]string, 0, len(users))
	for _, u := range users {
		s.users[u.ID] = u.Clone()
		s.order = append(s.order, u.ID)
	}
}
