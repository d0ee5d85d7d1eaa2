package meta

import "reflect"

// ShapeKind classifies a member's static container shape. The kind decides
// which translator is bound to the field at registration time.
type ShapeKind int

const (
	// ShapeScalar is a single value: a numeric, bool, string, or a
	// registered composite type.
	ShapeScalar ShapeKind = iota
	// ShapeFixedArray is a fixed-size Go array.
	ShapeFixedArray
	// ShapeSequence is an ordered, growable sequence (a Go slice).
	ShapeSequence
	// ShapeSet is a unique-element set, expressed as map[T]struct{}.
	ShapeSet
	// ShapeMap is a key-to-value mapping.
	ShapeMap
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "scalar"
	case ShapeFixedArray:
		return "array"
	case ShapeSequence:
		return "sequence"
	case ShapeSet:
		return "set"
	case ShapeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Shape is the deduced static shape of one member. Count is set for fixed
// arrays, Key for maps, Elem for every container kind.
type Shape struct {
	Kind  ShapeKind
	Count int
	Key   reflect.Type
	Elem  reflect.Type
}

var emptyStruct = reflect.TypeOf(struct{}{})

// DeduceShape classifies a member's static type. A map whose value type is
// struct{} is a set; every other map is a key-to-value mapping. Types the
// engine cannot translate (channels, functions, interfaces, pointers) still
// deduce to scalar here; translator binding rejects them.
func DeduceShape(t reflect.Type) Shape {
	switch t.Kind() {
	case reflect.Array:
		return Shape{Kind: ShapeFixedArray, Count: t.Len(), Elem: t.Elem()}
	case reflect.Slice:
		return Shape{Kind: ShapeSequence, Elem: t.Elem()}
	case reflect.Map:
		if t.Elem() == emptyStruct {
			return Shape{Kind: ShapeSet, Elem: t.Key()}
		}
		return Shape{Kind: ShapeMap, Key: t.Key(), Elem: t.Elem()}
	default:
		return Shape{Kind: ShapeScalar}
	}
}
