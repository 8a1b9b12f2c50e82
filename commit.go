package aios

import "context"

// Transition synchronously drives the two-phase commit protocol (spec
// §4.3): lock all outputs, commit all outputs, propagate to wired
// downstream machines in insertion order, update current, release all
// locks. If newLabel equals the current label the call is a pure no-op.
// If the wiring closure reachable from (m, newLabel) contains an output
// that requires async, the call fails with AsyncRequired and has no side
// effects.
func (m *Machine) Transition(newLabel string) error {
	if !m.labelSet[newLabel] {
		return &MachineError{Kind: ErrUnknownLabel, Machine: m.name, Label: newLabel}
	}
	if m.current != nil && *m.current == newLabel {
		return nil
	}
	if err := m.checkAsyncClosure(newLabel); err != nil {
		return err
	}
	return m.commit(context.Background(), newLabel, true)
}

// TransitionAsync is the cooperative-async entry point: same protocol as
// Transition, but every output call and every recursive downstream
// transition is made through ctx, and no async-capability pre-check is
// performed (the caller has already opted into async). ctx is checked
// before each AcquireLock call, so a cancellation seen during the lock
// phase stops the transition early; any lock already acquired is not
// released by the cancellation — handlers must tolerate abandonment via
// their own timers (spec §5). Once the lock phase is complete the engine
// no longer checks ctx itself: Change, propagation and ReleaseLock run to
// the end (each downstream TransitionAsync checks ctx in its own lock
// phase).
func (m *Machine) TransitionAsync(ctx context.Context, newLabel string) error {
	if !m.labelSet[newLabel] {
		return &MachineError{Kind: ErrUnknownLabel, Machine: m.name, Label: newLabel}
	}
	if m.current != nil && *m.current == newLabel {
		return nil
	}
	return m.commit(ctx, newLabel, false)
}

// commit implements steps 2-6 of spec §4.3 identically for both entry
// points; sync selects context.Background()-oblivious behavior (the
// caller already passed context.Background()) and recurses through
// Transition, async recurses through TransitionAsync and checks ctx.Err()
// before each AcquireLock call.
func (m *Machine) commit(ctx context.Context, newLabel string, sync bool) error {
	InfoLog("[TRANSITION] %s: %d output(s) -> %s", m.name, len(m.outputs), newLabel)
	locked := make([]OutputHandler, 0, len(m.outputs))

	// Lock phase: all outputs see AcquireLock before any sees Change.
	for _, h := range m.outputs {
		if !sync {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := h.AcquireLock(ctx, newLabel); err != nil {
			for i := len(locked) - 1; i >= 0; i-- {
				if relErr := locked[i].ReleaseLock(ctx); relErr != nil {
					ErrorLog("release_lock failed on %s during veto rollback: %v", m.name, relErr)
				}
			}
			return &MachineError{Kind: ErrLockRefused, Machine: m.name, Label: newLabel, Cause: err}
		}
		locked = append(locked, h)
	}

	// Commit phase: a failure here is fatal. current is left unchanged,
	// propagation and the release phase are skipped, and outputs already
	// told to change are not reverted (no rollback is possible here).
	for _, h := range locked {
		if err := h.Change(ctx); err != nil {
			return &MachineError{Kind: ErrCommitViolation, Machine: m.name, Label: newLabel, Cause: err}
		}
	}

	// Propagation: wiring edges fire in insertion order. A downstream
	// failure is reported to the caller but does not roll back this
	// machine's already-committed change.
	var propErr error
	for _, edge := range m.wiringEdges(newLabel) {
		var err error
		if sync {
			err = edge.Machine.Transition(edge.Label)
		} else {
			err = edge.Machine.TransitionAsync(ctx, edge.Label)
		}
		if err != nil && propErr == nil {
			propErr = err
		}
	}

	// State update: observable as newLabel by the time ReleaseLock
	// returns for every output, and never before Change has been called
	// on all of them (already guaranteed above).
	label := newLabel
	m.current = &label

	// Release phase: errors here are non-fatal and only logged.
	for _, h := range locked {
		if err := h.ReleaseLock(ctx); err != nil {
			ErrorLog("release_lock failed on machine %s: %v", m.name, err)
		}
	}

	return propErr
}

// checkAsyncClosure walks the transitive closure of wiring reachable from
// (m, newLabel), keyed by each visited machine's new label, terminating
// cycles with a visited set. It is diagnostic-only and has no side
// effects (spec §4.3 step 1).
func (m *Machine) checkAsyncClosure(newLabel string) error {
	type key struct {
		m     *Machine
		label string
	}
	visited := make(map[key]bool)

	var walk func(mm *Machine, label string) error
	walk = func(mm *Machine, label string) error {
		k := key{mm, label}
		if visited[k] {
			return nil
		}
		visited[k] = true

		for _, h := range mm.outputs {
			if h.RequireAsync() {
				return &MachineError{Kind: ErrAsyncRequired, Machine: mm.name, Label: label}
			}
		}
		for _, edge := range mm.wiringEdges(label) {
			if err := walk(edge.Machine, edge.Label); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(m, newLabel)
}
