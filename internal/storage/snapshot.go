package storage

// SnapshotStore keeps a stack of full key/value levels: the base level at
// index 0 and one more per open transaction. Start copies the top level,
// so every transaction works on a private snapshot of its parent.
//
// The stack is never empty. Only the top level is ever read or written.
//
// SnapshotStore is not safe for concurrent use. Commit replaces the parent
// level wholesale, which is only correct while a single caller owns the
// store.
type SnapshotStore struct {
	levels []*level
}

var _ Store = &SnapshotStore{}

// NewSnapshotStore returns an empty store with only the base level.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{levels: []*level{newLevel()}}
}

func (s *SnapshotStore) top() *level {
	return s.levels[len(s.levels)-1]
}

// Depth returns the number of open transactions.
func (s *SnapshotStore) Depth() int {
	return len(s.levels) - 1
}

func (s *SnapshotStore) Read(key string) Result {
	v, ok := s.top().get(key)
	if !ok {
		return notFound(key)
	}
	return Value(v)
}

func (s *SnapshotStore) Write(key, value string) Result {
	s.top().put(key, value)
	return Success()
}

func (s *SnapshotStore) Delete(key string) Result {
	s.top().remove(key)
	return Success()
}

// Start pushes a copy of the current level.
func (s *SnapshotStore) Start() Result {
	s.levels = append(s.levels, s.top().copy())
	return Success()
}

// Abort drops the current level, restoring the state as of the matching Start.
func (s *SnapshotStore) Abort() Result {
	if s.Depth() == 0 {
		return Failure(msgNoAbort)
	}
	s.pop()
	return Success()
}

// Commit makes the current level the new state of its parent. The two top
// levels collapse into one; changes reach the base level only once every
// enclosing transaction has committed too.
func (s *SnapshotStore) Commit() Result {
	if s.Depth() == 0 {
		return Failure(msgNoCommit)
	}
	state := s.pop()
	s.levels[len(s.levels)-1] = state
	return Success()
}

func (s *SnapshotStore) pop() *level {
	n := len(s.levels) - 1
	l := s.levels[n]
	s.levels[n] = nil
	s.levels = s.levels[:n]
	return l
}
