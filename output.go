package aios

import "context"

// OutputHandler is the external capability set a Machine's two-phase
// commit protocol drives (spec §6.1). Concrete handlers — GPIO pins,
// network actuators, and the like — are external collaborators; this
// package only defines the contract they must satisfy.
//
// Every method takes a context.Context: the synchronous entry point
// (Machine.Transition) calls through with context.Background(), while the
// cooperative-async entry point (Machine.TransitionAsync) propagates the
// caller's ctx so cancellation is observable between handler calls (spec
// §5). A handler that implements RequireAsync()==true is refused by the
// synchronous entry point (spec §4.3 step 1, AsyncRequired).
//
// Implementations must be comparable (Go interface values holding a
// pointer, which is the overwhelming majority case, always are) since
// Machine.BindOutput de-duplicates by identity.
type OutputHandler interface {
	// RequireAsync reports whether this handler needs cooperative
	// suspension. Must be pure and must not change across the handler's
	// lifetime.
	RequireAsync() bool

	// AcquireLock reserves intent to move to newLabel. Returning an error
	// vetoes the transition. A non-error return promises that Change will
	// succeed. Re-entrant acquisition (already locked) must fail.
	AcquireLock(ctx context.Context, newLabel string) error

	// Change applies the physical effect corresponding to the locked
	// label. An error here is a contract violation (CommitViolation).
	Change(ctx context.Context) error

	// ReleaseLock releases the lock. If Change was never called (the
	// transition was vetoed before reaching this handler), release is
	// immediate; otherwise it follows the effect becoming observable.
	ReleaseLock(ctx context.Context) error
}
