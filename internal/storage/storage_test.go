package storage

import (
	"fmt"
	"math/rand"
	"testing"
)

// txnStore is a Store that reports its nesting depth.
type txnStore interface {
	Store
	Depth() int
}

// transactionalBackends returns a fresh instance of every backend that
// supports transactions.
func transactionalBackends(t *testing.T) map[string]txnStore {
	t.Helper()
	sp, err := NewQLStore()
	if err != nil {
		t.Fatalf("NewQLStore failed: %v", err)
	}
	t.Cleanup(func() { sp.Close() })
	return map[string]txnStore{
		"snapshot":  NewSnapshotStore(),
		"savepoint": sp,
	}
}

func expect(t *testing.T, step string, got, want Result) {
	t.Helper()
	if got != want {
		t.Errorf("%s: want %v, got %v", step, want, got)
	}
}

func TestReadWrite(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			expect(t, "write", s.Write("foo", "bar"), Success())
			expect(t, "read", s.Read("foo"), Value("bar"))

			// overwrite
			expect(t, "write again", s.Write("foo", "baz qux"), Success())
			expect(t, "read again", s.Read("foo"), Value("baz qux"))

			// keys are case sensitive
			expect(t, "read FOO", s.Read("FOO"), Failure("Key not found: FOO"))

			expect(t, "write empty value", s.Write("e", ""), Success())
			expect(t, "read empty value", s.Read("e"), Value(""))
			expect(t, "write unicode", s.Write("u", "ünï"), Success())
			expect(t, "read unicode", s.Read("u"), Value("ünï"))
			expect(t, "write empty key", s.Write("", "empty key"), Success())
			expect(t, "read empty key", s.Read(""), Value("empty key"))
		})
	}
}

func TestNotFound(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			expect(t, "read missing", s.Read("nope"), Failure("Key not found: nope"))

			s.Write("gone", "soon")
			expect(t, "delete", s.Delete("gone"), Success())
			expect(t, "read deleted", s.Read("gone"), Failure("Key not found: gone"))
		})
	}
}

func TestDeleteIdempotent(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				expect(t, "delete absent", s.Delete("absent"), Success())
			}
		})
	}
}

func TestCommit(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			expect(t, "start", s.Start(), Success())
			s.Write("foo", "bar")
			expect(t, "read in txn", s.Read("foo"), Value("bar"))
			expect(t, "commit", s.Commit(), Success())
			expect(t, "read after commit", s.Read("foo"), Value("bar"))
			if d := s.Depth(); d != 0 {
				t.Errorf("Depth: want 0, got %d", d)
			}
		})
	}
}

func TestAbort(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			s.Start()
			s.Write("foo", "bar")
			expect(t, "read in txn", s.Read("foo"), Value("bar"))
			expect(t, "abort", s.Abort(), Success())
			expect(t, "read after abort", s.Read("foo"), Failure("Key not found: foo"))

			// abort restores an overwritten value
			s.Write("k", "v1")
			s.Start()
			s.Write("k", "v2")
			s.Abort()
			expect(t, "read restored", s.Read("k"), Value("v1"))

			// and a deleted one
			s.Start()
			s.Delete("k")
			expect(t, "read deleted in txn", s.Read("k"), Failure("Key not found: k"))
			s.Abort()
			expect(t, "read undeleted", s.Read("k"), Value("v1"))
		})
	}
}

func TestNestedInnerAbort(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			s.Start()
			s.Write("foo", "bar")
			s.Start()
			s.Write("bar", "baz")
			if d := s.Depth(); d != 2 {
				t.Errorf("Depth: want 2, got %d", d)
			}
			s.Abort()
			expect(t, "outer write kept", s.Read("foo"), Value("bar"))
			expect(t, "inner write gone", s.Read("bar"), Failure("Key not found: bar"))
			s.Commit()
			expect(t, "after outer commit", s.Read("foo"), Value("bar"))
			expect(t, "inner still gone", s.Read("bar"), Failure("Key not found: bar"))
		})
	}
}

func TestNestedOuterAbort(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			s.Start()
			s.Write("foo", "bar")
			s.Start()
			s.Write("bar", "baz")
			s.Commit()
			expect(t, "outer write", s.Read("foo"), Value("bar"))
			expect(t, "inner committed", s.Read("bar"), Value("baz"))
			s.Abort()
			expect(t, "outer discarded", s.Read("foo"), Failure("Key not found: foo"))
			expect(t, "inner discarded", s.Read("bar"), Failure("Key not found: bar"))
		})
	}
}

func TestDepthZeroGuard(t *testing.T) {
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			s.Write("a", "1")
			expect(t, "abort", s.Abort(), Failure("no transaction to abort"))
			expect(t, "commit", s.Commit(), Failure("no transaction to commit"))
			expect(t, "state unchanged", s.Read("a"), Value("1"))

			// the guard applies again once every level is closed
			s.Start()
			s.Commit()
			expect(t, "abort after close", s.Abort(), Failure("no transaction to abort"))
		})
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 20
	for name, s := range transactionalBackends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < depth; i++ {
				s.Start()
				s.Write("level", string(rune('a'+i)))
			}
			if d := s.Depth(); d != depth {
				t.Fatalf("Depth: want %d, got %d", depth, d)
			}
			for i := depth - 1; i > 0; i-- {
				expect(t, "level value", s.Read("level"), Value(string(rune('a'+i))))
				s.Abort()
			}
			s.Commit()
			expect(t, "first level committed", s.Read("level"), Value("a"))
		})
	}
}

// op is one store call in a scripted sequence.
type op struct {
	name       string
	key, value string
}

func apply(t *testing.T, s Store, o op) Result {
	t.Helper()
	switch o.name {
	case "read":
		return s.Read(o.key)
	case "write":
		return s.Write(o.key, o.value)
	case "delete":
		return s.Delete(o.key)
	case "start":
		return s.Start()
	case "abort":
		return s.Abort()
	case "commit":
		return s.Commit()
	}
	t.Fatalf("unknown op %s", o.name)
	return Result{}
}

// Both transactional backends must produce the same Results for the same
// sequence of operations.
func TestBackendEquivalence(t *testing.T) {
	script := []op{
		{"read", "a", ""},
		{"abort", "", ""},
		{"write", "a", "1"},
		{"start", "", ""},
		{"write", "b", "2"},
		{"delete", "a", ""},
		{"read", "a", ""},
		{"start", "", ""},
		{"write", "a", "3"},
		{"write", "c", "with spaces"},
		{"commit", "", ""},
		{"read", "a", ""},
		{"read", "c", ""},
		{"start", "", ""},
		{"delete", "b", ""},
		{"delete", "b", ""},
		{"abort", "", ""},
		{"read", "b", ""},
		{"abort", "", ""},
		{"read", "a", ""},
		{"read", "b", ""},
		{"read", "c", ""},
		{"commit", "", ""},
		{"start", "", ""},
		{"write", "d", "4"},
		{"commit", "", ""},
		{"read", "d", ""},
	}
	backends := transactionalBackends(t)
	snap, sp := backends["snapshot"], backends["savepoint"]
	for i, o := range script {
		want := apply(t, snap, o)
		got := apply(t, sp, o)
		if got != want {
			t.Errorf("step %d %s(%s): snapshot %v, savepoint %v", i, o.name, o.key, want, got)
		}
	}
}

// randomOps returns a seeded sequence over a small key space, so reads and
// deletes hit existing keys and transactions nest a few levels deep.
func randomOps(rng *rand.Rand, n int) []op {
	names := []string{"read", "read", "write", "write", "delete", "start", "abort", "commit"}
	values := []string{"", "v", "with spaces", "ünï"}
	ops := make([]op, n)
	for i := range ops {
		ops[i] = op{
			name:  names[rng.Intn(len(names))],
			key:   fmt.Sprintf("k%d", rng.Intn(6)),
			value: values[rng.Intn(len(values))] + fmt.Sprint(rng.Intn(10)),
		}
	}
	return ops
}

func TestBackendEquivalenceRandom(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			backends := transactionalBackends(t)
			snap, sp := backends["snapshot"], backends["savepoint"]
			for i, o := range randomOps(rand.New(rand.NewSource(seed)), 200) {
				want := apply(t, snap, o)
				got := apply(t, sp, o)
				if got != want {
					t.Fatalf("step %d %s(%s): snapshot %v, savepoint %v", i, o.name, o.key, want, got)
				}
			}
			if snap.Depth() != sp.Depth() {
				t.Errorf("Depth: snapshot %d, savepoint %d", snap.Depth(), sp.Depth())
			}
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewSnapshotStore()
	s.Write("k", "base")
	s.Start()
	s.Write("k", "txn")

	// the base level must not have been touched by the write above
	if v, _ := s.levels[0].get("k"); v != "base" {
		t.Errorf("base level leaked: got %s", v)
	}
	s.Abort()
	if len(s.levels) != 1 {
		t.Errorf("Expected 1 level, got %d", len(s.levels))
	}
}

func TestFlatStore(t *testing.T) {
	s := NewFlatStore()
	expect(t, "write", s.Write("foo", "bar"), Success())
	expect(t, "read", s.Read("foo"), Value("bar"))
	expect(t, "delete", s.Delete("foo"), Success())
	expect(t, "read deleted", s.Read("foo"), Failure("Key not found: foo"))
	expect(t, "delete absent", s.Delete("foo"), Success())

	unsupported := Failure("Transactions not supported by this backend")
	expect(t, "start", s.Start(), unsupported)
	expect(t, "abort", s.Abort(), unsupported)
	expect(t, "commit", s.Commit(), unsupported)

	s.Write("a", "1")
	s.Write("b", "2")
	if n := s.Len(); n != 2 {
		t.Errorf("Len: want 2, got %d", n)
	}
}

func TestEchoStore(t *testing.T) {
	var s EchoStore
	tests := []struct {
		got  Result
		want string
	}{
		{s.Read("foo"), "READ: `foo`"},
		{s.Write("foo", "bar baz"), "WRITE: `foo` `bar baz`"},
		{s.Delete("foo"), "DELETE: `foo`"},
		{s.Start(), "START"},
		{s.Abort(), "ABORT"},
		{s.Commit(), "COMMIT"},
	}
	for _, tt := range tests {
		expect(t, tt.want, tt.got, Value(tt.want))
	}
	// echo stores nothing
	s.Write("k", "v")
	expect(t, "read after write", s.Read("k"), Value("READ: `k`"))
}

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Success(), "Success"},
		{Value("v"), "Value(v)"},
		{Failuref("Key not found: %s", "k"), "Failure(Key not found: k)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Want %s, got %s", tt.want, got)
		}
	}
}
