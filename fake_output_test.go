package aios

import (
	"context"
	"fmt"
	"sync"
)

// call records one observed invocation on a fakeOutput, in the order it
// happened, for asserting the ordering guarantees in spec §8.
type call struct {
	Handler string
	Op      string
	Label   string
}

// fakeOutput is a minimal OutputHandler test double that records every
// call it receives into a trace shared across all outputs bound in a
// test, so cross-handler ordering (not just per-handler ordering) can be
// asserted.
type fakeOutput struct {
	name  string
	trace *[]call
	mu    *sync.Mutex

	async bool

	locked      bool
	failAcquire error
	failChange  error
	failRelease error
}

func newFakeOutput(name string, trace *[]call, mu *sync.Mutex) *fakeOutput {
	return &fakeOutput{name: name, trace: trace, mu: mu}
}

// newTraceMutex is a small readability helper for tests that bind several
// fakeOutputs to a single shared trace.
func newTraceMutex() *sync.Mutex {
	return &sync.Mutex{}
}

func (f *fakeOutput) record(op, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.trace = append(*f.trace, call{Handler: f.name, Op: op, Label: label})
}

func (f *fakeOutput) RequireAsync() bool { return f.async }

func (f *fakeOutput) AcquireLock(ctx context.Context, newLabel string) error {
	f.record("acquire_lock", newLabel)
	if f.failAcquire != nil {
		return f.failAcquire
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locked {
		return fmt.Errorf("%s: re-entrant acquisition", f.name)
	}
	f.locked = true
	return nil
}

func (f *fakeOutput) Change(ctx context.Context) error {
	f.record("change", "")
	return f.failChange
}

func (f *fakeOutput) ReleaseLock(ctx context.Context) error {
	f.record("release_lock", "")
	f.mu.Lock()
	f.locked = false
	f.mu.Unlock()
	return f.failRelease
}
