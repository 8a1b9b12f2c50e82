package aios

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Machine is a state machine: a fixed, ordered set of lowercase labels, an
// optional initial label, a current label (possibly undefined), a set of
// bound output handlers, and a wiring table from "label entered" to
// downstream transitions (spec §3 "State machine"). The zero value is not
// usable; build one with NewMachine.
type Machine struct {
	id       string
	name     string
	owner    *Object
	labels   []string
	labelSet map[string]bool
	current  *string // nil means undefined

	outputs   []OutputHandler
	outputSet map[OutputHandler]bool

	wiring map[string][]Handle // label -> ordered post-change callbacks
}

// NewMachine constructs a machine with a fixed label set. defaultLabel may
// be "" for an initially-undefined machine, otherwise it must be a member
// of labels. Labels must be non-empty, lowercase, and distinct (spec §3
// invariants).
func NewMachine(labels []string, defaultLabel string) (*Machine, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("aios: machine must have at least one label")
	}
	labelSet := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l != strings.ToLower(l) {
			return nil, fmt.Errorf("aios: label %q must be lower-case", l)
		}
		if labelSet[l] {
			return nil, fmt.Errorf("aios: duplicate label %q", l)
		}
		labelSet[l] = true
	}

	m := &Machine{
		id:        uuid.New().String(),
		labels:    append([]string(nil), labels...),
		labelSet:  labelSet,
		outputSet: make(map[OutputHandler]bool),
		wiring:    make(map[string][]Handle),
	}

	if defaultLabel != "" {
		if !labelSet[defaultLabel] {
			return nil, &MachineError{Kind: ErrUnknownLabel, Machine: m.name, Label: defaultLabel}
		}
		m.current = &defaultLabel
	}

	return m, nil
}

// ID returns a stable, process-local identity for log correlation.
func (m *Machine) ID() string { return m.id }

// Name returns the name assigned by the owning Object, or "" if unbound.
func (m *Machine) Name() string { return m.name }

// Owner returns the Object this machine was registered under, or nil.
func (m *Machine) Owner() *Object { return m.owner }

// Labels returns the machine's fixed label set, in construction order.
func (m *Machine) Labels() []string { return append([]string(nil), m.labels...) }

// Current returns the current label and true, or ("", false) if undefined.
func (m *Machine) Current() (string, bool) {
	if m.current == nil {
		return "", false
	}
	return *m.current, true
}

// Query returns current == label. label must be one of Labels(), else
// UnknownLabel.
func (m *Machine) Query(label string) (bool, error) {
	if !m.labelSet[label] {
		return false, &MachineError{Kind: ErrUnknownLabel, Machine: m.name, Label: label}
	}
	return m.current != nil && *m.current == label, nil
}

// Handle returns the opaque (machine, label) edge value used to wire this
// position into another machine's transitions (spec §4.2, §4.4). label
// must be one of Labels(), else UnknownLabel.
func (m *Machine) Handle(label string) (Handle, error) {
	if !m.labelSet[label] {
		return Handle{}, &MachineError{Kind: ErrUnknownLabel, Machine: m.name, Label: label}
	}
	return Handle{Machine: m, Label: label}, nil
}

// Equals implements the spec's overloaded equals: for a string argument
// that's a valid label, it's equivalent to Query(s); for anything else
// (including a label-shaped string this machine doesn't have), it falls
// back to machine identity.
func (m *Machine) Equals(v any) bool {
	if s, ok := v.(string); ok && m.labelSet[s] {
		matched, _ := m.Query(s)
		return matched
	}
	other, ok := v.(*Machine)
	return ok && other == m
}

// BindOutput adds h to the set of outputs driven by this machine's
// two-phase commit. Idempotent by identity (spec §4.2).
func (m *Machine) BindOutput(h OutputHandler) error {
	if h == nil {
		return fmt.Errorf("aios: nil output handler")
	}
	if m.outputSet == nil {
		m.outputSet = make(map[OutputHandler]bool)
	}
	if m.outputSet[h] {
		return nil
	}
	m.outputSet[h] = true
	m.outputs = append(m.outputs, h)
	return nil
}

// Outputs returns the bound output handlers in bind order. The order is
// "unspecified but stable" per spec §4.3; callers should not depend on it
// beyond repeatability across calls.
func (m *Machine) Outputs() []OutputHandler {
	return append([]OutputHandler(nil), m.outputs...)
}

// String renders name=[l0, l1, …] with the current label upper-cased and
// the rest lower-cased; an undefined current means none is upper-cased
// (spec §6.3).
func (m *Machine) String() string {
	parts := make([]string, len(m.labels))
	for i, l := range m.labels {
		if m.current != nil && *m.current == l {
			parts[i] = strings.ToUpper(l)
		} else {
			parts[i] = l
		}
	}
	return fmt.Sprintf("%s=[%s]", m.name, strings.Join(parts, ", "))
}
