// Package rooms tracks which connection handles belong to which named room.
package rooms

import "sync"

// Store groups connection handles into named rooms. Rooms are created
// implicitly on first join and deleted when their last member leaves. A
// handle belongs to at most one room at a time; the handle->room
// back-reference makes disconnect pruning cheap. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
	roomOf  map[string]string
}

func NewStore() *Store {
	return &Store{
		members: make(map[string]map[string]struct{}),
		roomOf:  make(map[string]string),
	}
}

// Join adds the handle to the named room, creating it if absent. Joining the
// room the handle is already in is a no-op. Joining a different room moves
// the handle: it is removed from the previous room first, and that room's
// name is returned with moved=true so the caller can notify it.
func (s *Store) Join(room, handle string) (previous string, moved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.roomOf[handle]; ok {
		if prev == room {
			return "", false
		}
		s.removeLocked(prev, handle)
		previous, moved = prev, true
	}

	set, ok := s.members[room]
	if !ok {
		set = make(map[string]struct{})
		s.members[room] = set
	}
	set[handle] = struct{}{}
	s.roomOf[handle] = room
	return previous, moved
}

// Leave removes the handle from whatever room it is in, deleting the room if
// it becomes empty. Safe to call for handles that never joined.
func (s *Store) Leave(handle string) (room string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok = s.roomOf[handle]
	if !ok {
		return "", false
	}
	s.removeLocked(room, handle)
	delete(s.roomOf, handle)
	return room, true
}

func (s *Store) removeLocked(room, handle string) {
	if set, ok := s.members[room]; ok {
		delete(set, handle)
		if len(set) == 0 {
			delete(s.members, room)
		}
	}
}

// Members returns the handles currently in the room.
func (s *Store) Members(room string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.members[room]
	handles := make([]string, 0, len(set))
	for h := range set {
		handles = append(handles, h)
	}
	return handles
}

// Room returns the room the handle currently belongs to.
func (s *Store) Room(handle string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.roomOf[handle]
	return room, ok
}

// Rooms returns the names of all non-empty rooms.
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.members))
	for name := range s.members {
		names = append(names, name)
	}
	return names
}

// Len returns the room's member count.
func (s *Store) Len(room string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members[room])
}
