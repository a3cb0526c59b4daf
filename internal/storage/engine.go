package storage

// Store defines the contract every backend implements.
// Mutations act on the current transaction level, or on the whole store
// when no transaction is open. Failures are reported as Results, never as
// Go errors, so a failed operation leaves the store usable.
type Store interface {
	// Read returns Value(v) for a present key, Failure otherwise.
	Read(key string) Result

	// Write sets key to value at the current level, overwriting.
	Write(key, value string) Result

	// Delete removes key from the current level. Absent keys are not an error.
	Delete(key string) Result

	// Transactional Support
	Start() Result  // Open a nested level
	Abort() Result  // Discard the current level
	Commit() Result // Fold the current level into its parent
}

// Messages shared by every transactional backend, so that two backends
// given the same operations produce identical Results.
const (
	msgNoAbort      = "no transaction to abort"
	msgNoCommit     = "no transaction to commit"
	msgNoTxnSupport = "Transactions not supported by this backend"
)

func notFound(key string) Result {
	return Failuref("Key not found: %s", key)
}
