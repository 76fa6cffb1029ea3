package lisptype

import "sort"

// a frame contains bindings that associate
// names with values. Frames chain through Parent, the global
// frame has no parent, a call frame's parent is the frame
// its closure was defined in.
type Frame struct {
	Parent   *Frame           // the frame above this one
	Bindings map[string]Value // its bindings
}

func NewFrame(parent *Frame) *Frame {
	return &Frame{
		Parent:   parent,
		Bindings: make(map[string]Value),
	}
}

// looks up the binding for a name, innermost frame first
func (f *Frame) Lookup(name string) (Value, error) {
	for current := f; current != nil; current = current.Parent {
		if v, ok := current.Bindings[name]; ok {
			return v, nil
		}
	}
	return UnitValue(), NewUnbound(name)
}

// Define creates or shadows a binding in this frame only.
func (f *Frame) Define(name string, v Value) {
	if f.Bindings == nil {
		f.Bindings = make(map[string]Value)
	}
	f.Bindings[name] = v
}

// Set updates the nearest frame that already binds name.
func (f *Frame) Set(name string, v Value) error {
	for current := f; current != nil; current = current.Parent {
		if _, inFrame := current.Bindings[name]; inFrame {
			current.Bindings[name] = v
			return nil
		}
	}
	return NewUnbound(name)
}

func (f *Frame) Bound(name string) bool {
	_, err := f.Lookup(name)
	return err == nil
}

// returns every name visible from this frame, sorted
func (f *Frame) Names() []string {
	seen := make(map[string]bool)
	for current := f; current != nil; current = current.Parent {
		for k := range current.Bindings {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
