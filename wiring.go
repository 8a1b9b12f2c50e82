package aios

// Handle is a value pair (machine, label) referring to a machine/label
// position, used both as a Wire source (as returned by Machine.Handle)
// and, stored in a wiring table, to identify the position a downstream
// edge targets (spec §3 "Wiring edge", §9 "Handle values").
type Handle struct {
	Machine *Machine
	Label   string
}

// Wire installs wiring so that whenever any of sources enters its given
// label, this machine transitions to localLabel (spec §4.4). Equivalent
// to appending (m, localLabel) to each source machine's wiring table
// under its own label. No uniqueness constraint is imposed: wiring the
// same source label twice installs two edges and the downstream
// Transition is called once per edge; after the first call has moved
// this machine to localLabel, the later calls are no-ops.
func (m *Machine) Wire(localLabel string, sources ...Handle) error {
	if !m.labelSet[localLabel] {
		return &MachineError{Kind: ErrWiringMismatch, Machine: m.name, Label: localLabel}
	}
	for _, src := range sources {
		if src.Machine == nil || !src.Machine.labelSet[src.Label] {
			srcName := ""
			if src.Machine != nil {
				srcName = src.Machine.name
			}
			return &MachineError{Kind: ErrWiringMismatch, Machine: srcName, Label: src.Label}
		}
	}
	// Validate every edge before installing any of them, so a mismatch
	// anywhere in the call leaves no partial wiring behind.
	for _, src := range sources {
		if src.Machine.wiring == nil {
			src.Machine.wiring = make(map[string][]Handle)
		}
		src.Machine.wiring[src.Label] = append(src.Machine.wiring[src.Label], Handle{Machine: m, Label: localLabel})
	}
	return nil
}

// wiringEdges returns the ordered (target, target_label) edges attached
// to label, or nil if none are wired.
func (m *Machine) wiringEdges(label string) []Handle {
	return m.wiring[label]
}
