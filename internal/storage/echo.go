package storage

import "fmt"

// EchoStore stores nothing. Every operation returns a Value describing the
// call it received, which makes it handy for checking parser and shell
// wiring.
type EchoStore struct{}

var _ Store = EchoStore{}

func (EchoStore) Read(key string) Result {
	return Value(fmt.Sprintf("READ: `%s`", key))
}

func (EchoStore) Write(key, value string) Result {
	return Value(fmt.Sprintf("WRITE: `%s` `%s`", key, value))
}

func (EchoStore) Delete(key string) Result {
	return Value(fmt.Sprintf("DELETE: `%s`", key))
}

func (EchoStore) Start() Result  { return Value("START") }
func (EchoStore) Abort() Result  { return Value("ABORT") }
func (EchoStore) Commit() Result { return Value("COMMIT") }
