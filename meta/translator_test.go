package meta

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindFor(t *testing.T, reg *Registry, value any) Translator {
	t.Helper()
	tr, err := reg.bindTranslator(reflect.TypeOf(value))
	require.NoError(t, err)
	return tr
}

func TestScalarDeserializeNumericWidening(t *testing.T) {
	reg := NewRegistry()
	tr := bindFor(t, reg, uint8(0))

	v := reflect.New(reflect.TypeOf(uint8(0))).Elem()
	// JSON hands back float64, YAML hands back int.
	require.NoError(t, tr.Deserialize(v, float64(200)))
	assert.Equal(t, uint8(200), v.Interface())
	require.NoError(t, tr.Deserialize(v, int(12)))
	assert.Equal(t, uint8(12), v.Interface())

	err := tr.Deserialize(v, "12")
	require.ErrorIs(t, err, ErrBadValue)
}

func TestSetSerializeDeterministic(t *testing.T) {
	reg := NewRegistry()
	tr := bindFor(t, reg, map[uint32]struct{}(nil))

	set := map[uint32]struct{}{30: {}, 10: {}, 20: {}}
	for i := 0; i < 10; i++ {
		raw, err := tr.Serialize(reflect.ValueOf(set))
		require.NoError(t, err)
		assert.Equal(t, []any{uint32(10), uint32(20), uint32(30)}, raw)
	}
}

func TestMapSerializeRoundTrip(t *testing.T) {
	reg := NewRegistry()
	tr := bindFor(t, reg, map[uint32]uint32(nil))

	src := map[uint32]uint32{2: 20, 1: 10}
	raw, err := tr.Serialize(reflect.ValueOf(src))
	require.NoError(t, err)

	entries, ok := raw.([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, uint32(1), first["key"], "entries are key-sorted")

	dst := reflect.New(reflect.TypeOf(src)).Elem()
	require.NoError(t, tr.Deserialize(dst, raw))
	assert.Equal(t, src, dst.Interface())
}

func TestSequenceCopyDepth(t *testing.T) {
	reg := NewRegistry()
	tr := bindFor(t, reg, []uint32(nil))

	src := reflect.ValueOf([]uint32{1, 2, 3})
	deep := reflect.New(src.Type()).Elem()
	tr.Copy(src, deep, false)
	src.Index(0).SetUint(9)
	assert.Equal(t, []uint32{1, 2, 3}, deep.Interface(), "deep copy clones elements")

	shallow := reflect.New(src.Type()).Elem()
	tr.Copy(src, shallow, true)
	src.Index(1).SetUint(9)
	assert.Equal(t, []uint32{9, 9, 3}, shallow.Interface(), "shallow copy aliases the backing array")
}

func TestFixedArrayTranslator(t *testing.T) {
	reg := NewRegistry()
	tr := bindFor(t, reg, [4]uint8{})

	a := reflect.ValueOf([4]uint8{1, 2, 3, 4})
	b := reflect.New(a.Type()).Elem()
	tr.Copy(a, b, false)
	assert.True(t, tr.Equals(a, b))

	b.Index(0).SetUint(9)
	assert.False(t, tr.Equals(a, b))

	raw, err := tr.Serialize(a)
	require.NoError(t, err)
	c := reflect.New(a.Type()).Elem()
	require.NoError(t, tr.Deserialize(c, raw))
	assert.True(t, tr.Equals(a, c))

	err = tr.Deserialize(c, []any{uint8(1)})
	require.ErrorIs(t, err, ErrBadValue, "length mismatch is rejected")
}

func TestNestedStructMembers(t *testing.T) {
	type Inner struct {
		X uint32
		Y uint32
	}
	type Outer struct {
		Name  string
		Child Inner
	}

	reg := NewRegistry()
	reg.Register("Inner", Inner{}, nil, func(s *Structure) {
		s.AddField("X", "X", 0)
		s.AddField("Y", "Y", 0)
	})
	outer := reg.Register("Outer", Outer{}, nil, func(s *Structure) {
		s.AddField("Name", "Name", 0)
		s.AddField("Child", "Child", 0)
	})

	a := Outer{Name: "a", Child: Inner{X: 1, Y: 2}}
	b := Outer{Name: "a", Child: Inner{X: 1, Y: 2}}
	eq, err := outer.Equals(&a, &b)
	require.NoError(t, err)
	assert.True(t, eq)

	b.Child.Y = 3
	eq, err = outer.Equals(&a, &b)
	require.NoError(t, err)
	assert.False(t, eq)

	var c Outer
	require.NoError(t, outer.Copy(&a, &c, false))
	assert.Equal(t, a, c)
}

func TestUnregisteredStructMemberRejected(t *testing.T) {
	type Orphan struct{ V uint32 }
	type Holder struct{ O Orphan }

	reg := NewRegistry()
	assert.Panics(t, func() {
		reg.Register("Holder", Holder{}, nil, func(s *Structure) {
			s.AddField("O", "O", 0)
		})
	}, "members of unregistered composite types have no translator")
}

func TestContainerOfStructMembers(t *testing.T) {
	type Point struct {
		X uint32
		Y uint32
	}
	type Path struct {
		Points []Point
	}

	reg := NewRegistry()
	reg.Register("Point", Point{}, nil, func(s *Structure) {
		s.AddField("X", "X", 0)
		s.AddField("Y", "Y", 0)
	})
	path := reg.Register("Path", Path{}, nil, func(s *Structure) {
		s.AddField("Points", "Points", 0)
	})

	a := Path{Points: []Point{{1, 2}, {3, 4}}}
	var b Path
	require.NoError(t, path.Copy(&a, &b, false))
	eq, err := path.Equals(&a, &b)
	require.NoError(t, err)
	assert.True(t, eq)

	a.Points[0].X = 9
	assert.Equal(t, uint32(1), b.Points[0].X, "struct elements deep-copy")
}
