package kjoint

import (
	"fmt"
	"reflect"
	"strings"
)

// Flatten maps a named structure onto the resolved positions.
//
// x may be nil, a map with string keys or a struct (or pointer to one) whose
// fields are named like ModelFromStruct names them. Names that x does not
// carry become nil; names that x carries but the model does not are ignored.
func (j *Joint) Flatten(x any) ([]any, error) {
	xs := make([]any, len(j.chain.Names))
	if x == nil {
		return xs, nil
	}

	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return xs, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s is not a string", ErrUnsupportedStructure, rv.Type().Key())
		}
		for i, name := range j.chain.Names {
			v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
			if v.IsValid() {
				xs[i] = v.Interface()
			}
		}
	case reflect.Struct:
		fields := fieldsByName(rv.Type())
		for i, name := range j.chain.Names {
			if f, ok := fields[name]; ok {
				xs[i] = rv.FieldByIndex(f.index).Interface()
			}
		}
	default:
		return nil, fmt.Errorf("%w: cannot flatten %T", ErrUnsupportedStructure, x)
	}
	return xs, nil
}

// Unflatten pairs positional values with the resolved names.
func (j *Joint) Unflatten(xs []any) (map[string]any, error) {
	if len(xs) != len(j.chain.Names) {
		return nil, fmt.Errorf("%w: got %d values for %d names", ErrLengthMismatch, len(xs), len(j.chain.Names))
	}
	out := make(map[string]any, len(xs))
	for i, name := range j.chain.Names {
		out[name] = xs[i]
	}
	return out, nil
}

// UnflattenInto stores positional values into dst, which must be a non-nil
// map with string keys, a pointer to one, or a pointer to a struct that has a
// field for every resolved name. Nil values store the zero value.
func (j *Joint) UnflattenInto(xs []any, dst any) error {
	if len(xs) != len(j.chain.Names) {
		return fmt.Errorf("%w: got %d values for %d names", ErrLengthMismatch, len(xs), len(j.chain.Names))
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("%w: nil %T", ErrUnsupportedStructure, dst)
		}
		rv = rv.Elem()
		if rv.Kind() == reflect.Map && rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(xs)))
		}
	} else if rv.Kind() != reflect.Map || rv.IsNil() {
		return fmt.Errorf("%w: cannot unflatten into %T", ErrUnsupportedStructure, dst)
	}

	switch rv.Kind() {
	case reflect.Map:
		keyType, elemType := rv.Type().Key(), rv.Type().Elem()
		if keyType.Kind() != reflect.String {
			return fmt.Errorf("%w: map key type %s is not a string", ErrUnsupportedStructure, keyType)
		}
		for i, name := range j.chain.Names {
			v, err := assignable(xs[i], elemType, name)
			if err != nil {
				return err
			}
			rv.SetMapIndex(reflect.ValueOf(name).Convert(keyType), v)
		}
	case reflect.Struct:
		fields := fieldsByName(rv.Type())
		for i, name := range j.chain.Names {
			f, ok := fields[name]
			if !ok {
				return fmt.Errorf("%w: %s has no field for %q", ErrUnsupportedStructure, rv.Type(), name)
			}
			fv := rv.FieldByIndex(f.index)
			v, err := assignable(xs[i], fv.Type(), name)
			if err != nil {
				return err
			}
			fv.Set(v)
		}
	default:
		return fmt.Errorf("%w: cannot unflatten into %T", ErrUnsupportedStructure, dst)
	}
	return nil
}

func assignable(x any, to reflect.Type, name string) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(to), nil
	}
	v := reflect.ValueOf(x)
	if !v.Type().AssignableTo(to) {
		return reflect.Value{}, fmt.Errorf("%w: value %q is %s, want %s", ErrTypeMismatch, name, v.Type(), to)
	}
	return v, nil
}

type structField struct {
	name  string
	index []int
}

// structFields lists the exported fields of t with their model names.
func structFields(t reflect.Type) []structField {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("joint"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, structField{name: name, index: f.Index})
	}
	return fields
}

func fieldsByName(t reflect.Type) map[string]structField {
	fields := structFields(t)
	byName := make(map[string]structField, len(fields))
	for _, f := range fields {
		byName[f.name] = f
	}
	return byName
}
