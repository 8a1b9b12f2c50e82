package aios

import (
	"strings"

	"github.com/google/uuid"
)

// ChildInitializer is implemented by a type embedding Object that needs
// to run setup once it has been wired into a tree and its parent's own
// attributes are finalized (spec §4.1 deferred_init). Registering one is
// optional. Machines attached with AddMachine are not consulted.
type ChildInitializer interface {
	ChildInit() error
}

// attached is anything Object can hold a named reference to: another
// Object, or a Machine. Both implement fmt.Stringer for repr purposes.
type attached interface {
	String() string
}

// Object is a hierarchical tree node: a local name, a non-owning parent
// reference, and an ordered set of named children and state machines
// (spec §3 "Object (tree node)"). The zero value is not usable; build one
// with NewObject.
type Object struct {
	id       string
	name     string
	parent   *Object
	names    map[string]bool // every name ever assigned on this object, children and machines alike
	children map[string]*Object
	machines map[string]*Machine
	order    []string // insertion order across children+machines, for String()
	self     any      // the embedding value registered via Self, consulted for ChildInitializer
}

// NewObject constructs a detached (parent-less) object with the given name
// and initial children. Each child's parent/name is set as a side effect,
// matching the constructor-time wiring described in spec §3.
func NewObject(name string, children map[string]*Object) (*Object, error) {
	o := &Object{
		id:       uuid.New().String(),
		name:     name,
		names:    make(map[string]bool),
		children: make(map[string]*Object),
		machines: make(map[string]*Machine),
	}
	// range over a map has no guaranteed order; callers who care about
	// deterministic initial ordering should add children one at a time
	// with AddChild after NewObject(name, nil).
	for n, c := range children {
		if err := o.AddChild(n, c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// ID returns a stable, process-local identity for log correlation. It is
// not part of any spec invariant.
func (o *Object) ID() string { return o.id }

// Name returns the object's local name.
func (o *Object) Name() string { return o.name }

// Parent returns the non-owning parent reference, or nil at the root.
func (o *Object) Parent() *Object { return o.parent }

// Self registers the embedding value (if any) so DeferredInit can find its
// ChildInit hook. Call it once, right after constructing the embedding
// type around this Object. If never called, Object itself is consulted
// for ChildInitializer instead.
func (o *Object) Self(self any) { o.self = self }

// AddChild fails with NameConflict if name is already a child or machine
// on this object; otherwise records child, sets its parent to this
// object, and sets its name to name.
func (o *Object) AddChild(name string, child *Object) error {
	if o.names[name] {
		return &TreeError{Kind: ErrNameConflict, Object: o.name}
	}
	if o.names == nil {
		o.names = make(map[string]bool)
	}
	if o.children == nil {
		o.children = make(map[string]*Object)
	}
	child.parent = o
	child.name = name
	o.children[name] = child
	o.names[name] = true
	o.order = append(o.order, name)
	return nil
}

// AddMachine attaches a state machine under name, subject to the same
// name-uniqueness rule as AddChild (spec §3: "a state machine may be
// registered as a child of an Object, giving it a name and a parent").
func (o *Object) AddMachine(name string, m *Machine) error {
	if o.names[name] {
		return &TreeError{Kind: ErrNameConflict, Object: o.name}
	}
	if o.names == nil {
		o.names = make(map[string]bool)
	}
	if o.machines == nil {
		o.machines = make(map[string]*Machine)
	}
	m.owner = o
	m.name = name
	o.machines[name] = m
	o.names[name] = true
	o.order = append(o.order, name)
	return nil
}

// Child looks up a direct child object by name.
func (o *Object) Child(name string) (*Object, bool) {
	c, ok := o.children[name]
	return c, ok
}

// Machine looks up a direct child state machine by name.
func (o *Object) Machine(name string) (*Machine, bool) {
	m, ok := o.machines[name]
	return m, ok
}

// Path returns the root-to-self ordered sequence of names.
func (o *Object) Path() []string {
	var names []string
	for cur := o; cur != nil; cur = cur.parent {
		names = append([]string{cur.name}, names...)
	}
	return names
}

// DeferredInit recursively invokes ChildInit (if implemented) on each
// descendant in pre-order: a parent's hook fires before its own
// descendants', so a hook can rely on its immediate parent's attributes
// already being finalized. It does not invoke the receiver's own hook,
// only its descendants'. A failing hook stops propagation immediately and
// its error is returned to the caller.
func (o *Object) DeferredInit() error {
	for _, name := range o.order {
		child, isChild := o.children[name]
		if !isChild {
			continue // machines have no sub-tree to recurse into
		}
		target := child.self
		if target == nil {
			target = child
		}
		if initer, ok := target.(ChildInitializer); ok {
			if err := initer.ChildInit(); err != nil {
				return err
			}
		}
		if err := child.DeferredInit(); err != nil {
			return err
		}
	}
	return nil
}

// String renders <path.joined.by.dots child1_repr child2_repr …>, with
// children and attached machines in insertion order (spec §6.3).
func (o *Object) String() string {
	reprs := make([]string, 0, len(o.order))
	for _, name := range o.order {
		var a attached
		if c, ok := o.children[name]; ok {
			a = c
		} else if m, ok := o.machines[name]; ok {
			a = m
		} else {
			continue
		}
		reprs = append(reprs, a.String())
	}
	body := strings.Join(o.Path(), ".")
	if len(reprs) == 0 {
		return "<" + body + ">"
	}
	return "<" + body + " " + strings.Join(reprs, " ") + ">"
}
