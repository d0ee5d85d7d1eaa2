package meta

import (
	"fmt"
	"reflect"
)

// Translator is the access strategy bound to a field: it knows how to read,
// write, compare, clone, and serialize a value of one concrete shape. The
// reflect.Values handed to a translator are always of the exact static type
// it was bound for.
//
// Serialize produces generic values (numbers, strings, bools, []any,
// map[string]any) that encode cleanly to JSON or YAML; Deserialize accepts
// the same forms back, tolerating the numeric widening those decoders do.
type Translator interface {
	Get(v reflect.Value) (any, error)
	Set(v reflect.Value, value any) error
	Equals(a, b reflect.Value) bool
	Copy(src, dst reflect.Value, shallow bool)
	Serialize(v reflect.Value) (any, error)
	Deserialize(v reflect.Value, raw any) error
}

// bindTranslator deduces and builds the translator for a member's static
// shape. It returns an error rather than panicking; AddField is the layer
// that treats an unbindable shape as a fatal declaration defect.
func (r *Registry) bindTranslator(t reflect.Type) (Translator, error) {
	shape := DeduceShape(t)
	switch shape.Kind {
	case ShapeScalar:
		return r.bindScalar(t)
	case ShapeFixedArray:
		elem, err := r.bindTranslator(shape.Elem)
		if err != nil {
			return nil, err
		}
		return &fixedArrayTranslator{elem: elem, count: shape.Count}, nil
	case ShapeSequence:
		elem, err := r.bindTranslator(shape.Elem)
		if err != nil {
			return nil, err
		}
		return &sequenceTranslator{elem: elem, elemType: shape.Elem}, nil
	case ShapeSet:
		elem, err := r.bindScalar(shape.Elem)
		if err != nil {
			return nil, err
		}
		return &setTranslator{elem: elem, elemType: shape.Elem}, nil
	case ShapeMap:
		key, err := r.bindScalar(shape.Key)
		if err != nil {
			return nil, err
		}
		elem, err := r.bindTranslator(shape.Elem)
		if err != nil {
			return nil, err
		}
		return &mapTranslator{key: key, keyType: shape.Key, elem: elem, elemType: shape.Elem}, nil
	}
	return nil, fmt.Errorf("no translator for shape %s of %s", shape.Kind, t)
}

// bindScalar builds the translator for a scalar-shaped type: a primitive or
// a registered composite.
func (r *Registry) bindScalar(t reflect.Type) (Translator, error) {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return scalarTranslator{t: t}, nil
	case reflect.Struct:
		if s, ok := r.structsByGoType[t]; ok {
			return &structTranslator{s: s}, nil
		}
		return nil, fmt.Errorf("struct type %s is not registered", t)
	}
	return nil, fmt.Errorf("no translator for %s members", t.Kind())
}

// setThrough assigns value to v when directly assignable or numerically
// convertible, falling back to the translator's Deserialize for the generic
// serialized forms. Shared Set implementation for every translator.
func setThrough(tr Translator, v reflect.Value, value any) error {
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Type().AssignableTo(v.Type()) {
		v.Set(rv)
		return nil
	}
	return tr.Deserialize(v, value)
}
