package meta

import (
	"reflect"
	"testing"
)

func TestDeduceShape(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  ShapeKind
		count int
	}{
		{"uint8", uint8(0), ShapeScalar, 0},
		{"float64", float64(0), ShapeScalar, 0},
		{"string", "", ShapeScalar, 0},
		{"bool", false, ShapeScalar, 0},
		{"struct", struct{ V int }{}, ShapeScalar, 0},
		{"fixed array", [16]uint8{}, ShapeFixedArray, 16},
		{"slice", []uint32(nil), ShapeSequence, 0},
		{"set", map[uint32]struct{}(nil), ShapeSet, 0},
		{"map", map[uint32]uint32(nil), ShapeMap, 0},
		{"map of string", map[string]string(nil), ShapeMap, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := DeduceShape(reflect.TypeOf(tt.value))
			if shape.Kind != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, shape.Kind)
			}
			if tt.count != 0 && shape.Count != tt.count {
				t.Errorf("expected count %d, got %d", tt.count, shape.Count)
			}
		})
	}
}

func TestDeduceShapeElementTypes(t *testing.T) {
	set := DeduceShape(reflect.TypeOf(map[uint32]struct{}(nil)))
	if set.Elem != reflect.TypeOf(uint32(0)) {
		t.Errorf("set element type: expected uint32, got %s", set.Elem)
	}
	if set.Key != nil {
		t.Errorf("set has no key type, got %s", set.Key)
	}

	m := DeduceShape(reflect.TypeOf(map[string]uint64(nil)))
	if m.Key != reflect.TypeOf("") {
		t.Errorf("map key type: expected string, got %s", m.Key)
	}
	if m.Elem != reflect.TypeOf(uint64(0)) {
		t.Errorf("map value type: expected uint64, got %s", m.Elem)
	}
}

func TestShapeKindString(t *testing.T) {
	tests := []struct {
		kind ShapeKind
		want string
	}{
		{ShapeScalar, "scalar"},
		{ShapeFixedArray, "array"},
		{ShapeSequence, "sequence"},
		{ShapeSet, "set"},
		{ShapeMap, "map"},
		{ShapeKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}
