package storage

import (
	"github.com/google/btree"
)

// level is one ordered key/value mapping. The snapshot stack holds one per
// open transaction plus the base; the flat store holds exactly one.
type level struct {
	tree *btree.BTreeG[item]
}

type item struct {
	key   string
	value string
}

func lessItem(a, b item) bool {
	return a.key < b.key
}

func newLevel() *level {
	return &level{tree: btree.NewG(32, lessItem)}
}

func (l *level) get(key string) (string, bool) {
	it, ok := l.tree.Get(item{key: key})
	return it.value, ok
}

func (l *level) put(key, value string) {
	l.tree.ReplaceOrInsert(item{key: key, value: value})
}

func (l *level) remove(key string) {
	l.tree.Delete(item{key: key})
}

func (l *level) len() int {
	return l.tree.Len()
}

// copy returns an independent copy of l. btree clones lazily, but writes to
// either tree after the clone are never visible in the other.
func (l *level) copy() *level {
	return &level{tree: l.tree.Clone()}
}

// FlatStore is a single mapping with no transaction support. It is mostly
// useful for testing callers of the Store contract.
type FlatStore struct {
	data *level
}

var (
	// ensure FlatStore satisfies the Store interface
	_ Store = &FlatStore{}
)

func NewFlatStore() *FlatStore {
	return &FlatStore{data: newLevel()}
}

func (s *FlatStore) Read(key string) Result {
	v, ok := s.data.get(key)
	if !ok {
		return notFound(key)
	}
	return Value(v)
}

func (s *FlatStore) Write(key, value string) Result {
	s.data.put(key, value)
	return Success()
}

func (s *FlatStore) Delete(key string) Result {
	s.data.remove(key)
	return Success()
}

func (s *FlatStore) Start() Result  { return Failure(msgNoTxnSupport) }
func (s *FlatStore) Abort() Result  { return Failure(msgNoTxnSupport) }
func (s *FlatStore) Commit() Result { return Failure(msgNoTxnSupport) }

// Len returns the number of stored keys.
func (s *FlatStore) Len() int {
	return s.data.len()
}
