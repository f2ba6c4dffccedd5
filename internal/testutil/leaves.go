package testutil

import (
	"fmt"
	"sync"

	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/predicate"
)

// Message is a minimal predicate.Message for tests.
type Message struct {
	Data map[string]any
	From string
	To   string
}

// Payload implements predicate.Message.
func (m Message) Payload() map[string]any { return m.Data }

// Sender implements predicate.Message.
func (m Message) Sender() string { return m.From }

// Recipient implements predicate.Message.
func (m Message) Recipient() string { return m.To }

// Call is one recorded leaf invocation.
type Call struct {
	Name string
	Args ir.Object
}

// CallLog records leaf invocations in order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type CallLog struct {
	mu    sync.Mutex
	calls []Call
}

// NewCallLog creates an empty call log.
func NewCallLog() *CallLog {
	return &CallLog{}
}

// Names returns the names of the recorded calls in invocation order.
func (l *CallLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.calls))
	for i, c := range l.calls {
		names[i] = c.Name
	}
	return names
}

// Calls returns a copy of the recorded calls.
func (l *CallLog) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// Reset clears the log.
func (l *CallLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

func (l *CallLog) record(name string, args ir.Object) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, Call{Name: name, Args: args})
}

// Returning creates a leaf function that records each call under name and
// returns result unchanged, whatever its type.
func (l *CallLog) Returning(name string, result any) predicate.Func {
	return func(_ predicate.Message, args ir.Object) (any, error) {
		l.record(name, args)
		return result, nil
	}
}

// Failing creates a leaf function that records each call and returns err.
func (l *CallLog) Failing(name string, err error) predicate.Func {
	return func(_ predicate.Message, args ir.Object) (any, error) {
		l.record(name, args)
		return nil, err
	}
}

// Registry builds a registry in which each name returns the given result
// and records into log.
func Registry(log *CallLog, results map[string]any) *predicate.Registry {
	reg := predicate.NewRegistry()
	for name, result := range results {
		reg.MustRegister(name, log.Returning(name, result))
	}
	return reg
}

// Forbidden creates a leaf function that fails the evaluation if it is
// ever called. Used to prove short-circuiting.
func Forbidden(name string) predicate.Func {
	return func(predicate.Message, ir.Object) (any, error) {
		return nil, fmt.Errorf("%s must not be evaluated", name)
	}
}
