package kjoint

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/birdayz/kjoint/kgraph"
	"golang.org/x/exp/maps"
)

// Model is a named collection of makers. Names are unique; insertion order
// only breaks ties during resolution.
//
// IMPORTANT: Model is NOT safe for concurrent use.
type Model struct {
	names  []string
	makers map[string]Maker
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		makers: make(map[string]Maker),
	}
}

// Add registers a maker under name.
func (m *Model) Add(name string, mk Maker) error {
	if err := kgraph.NodeID(name).Validate(); err != nil {
		return err
	}
	if _, exists := m.makers[name]; exists {
		return fmt.Errorf("%w: %s", kgraph.ErrNodeAlreadyExists, name)
	}
	if mk.fn == nil && mk.dist == nil {
		return fmt.Errorf("%w: %s has neither a distribution nor a function", ErrInvalidMaker, name)
	}
	m.names = append(m.names, name)
	m.makers[name] = mk
	return nil
}

// MustAdd is like Add but panics on error. It returns the model for chaining.
func (m *Model) MustAdd(name string, mk Maker) *Model {
	if err := m.Add(name, mk); err != nil {
		panic(err)
	}
	return m
}

// Names returns the entry names in insertion order.
func (m *Model) Names() []string {
	return slices.Clone(m.names)
}

// Get returns the maker registered under name.
func (m *Model) Get(name string) (Maker, bool) {
	mk, ok := m.makers[name]
	return mk, ok
}

// Len returns the number of entries.
func (m *Model) Len() int {
	return len(m.names)
}

// ModelFromMap builds a model from a map. Go maps carry no order, so entries
// are inserted sorted by name to keep resolution deterministic.
func ModelFromMap(makers map[string]Maker) (*Model, error) {
	names := maps.Keys(makers)
	slices.Sort(names)

	m := NewModel()
	for _, name := range names {
		if err := m.Add(name, makers[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

var makerType = reflect.TypeOf(Maker{})

// ModelFromStruct builds a model from the Maker fields of a struct, in field
// order. Fields are named by their `joint` tag or, without one, by the field
// name; `joint:"-"` skips a field.
func ModelFromStruct(v any) (*Model, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrUnsupportedStructure, rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrUnsupportedStructure, v)
	}

	m := NewModel()
	for _, f := range structFields(rv.Type()) {
		fv := rv.FieldByIndex(f.index)
		if fv.Type() != makerType {
			return nil, fmt.Errorf("%w: field %s of %s is %s, not kjoint.Maker",
				ErrUnsupportedStructure, f.name, rv.Type(), fv.Type())
		}
		if err := m.Add(f.name, fv.Interface().(Maker)); err != nil {
			return nil, err
		}
	}
	return m, nil
}
