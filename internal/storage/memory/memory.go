// README: In-process backend; demo mode without external services, and unit tests.
package memory

import (
	"sync"
)

// Store holds every collection behind one lock, mirroring the single
// logical store all sessions share. The conditional updates still check
// their guards, so service code behaves the same here as against Postgres
// or Firestore.
type Store struct {
	mu sync.RWMutex

	orders   *OrderStore
	students *StudentStore
	menu     *MenuStore
	settings *SettingsStore
}

func New() *Store {
	s := &Store{}
	s.orders = &OrderStore{root: s}
	s.students = &StudentStore{root: s}
	s.menu = &MenuStore{root: s}
	s.settings = &SettingsStore{root: s}
	return s
}

func (s *Store) Orders() *OrderStore      { return s.orders }
func (s *Store) Students() *StudentStore  { return s.students }
func (s *Store) Menu() *MenuStore         { return s.menu }
func (s *Store) Settings() *SettingsStore { return s.settings }
