package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldFlagValues(t *testing.T) {
	// The numeric values are a persisted contract; renumbering them breaks
	// previously saved data.
	tests := []struct {
		name string
		flag FieldFlags
		want uint32
	}{
		{"Discard", FlagDiscard, 1},
		{"Force", FlagForce, 2},
		{"Share", FlagShare, 4},
		{"Hide", FlagHide, 8},
		{"ReadOnly", FlagReadOnly, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint32(tt.flag) != tt.want {
				t.Errorf("expected %d, got %d", tt.want, uint32(tt.flag))
			}
		})
	}
}

type serializePolicy struct {
	Plain   uint32
	Scratch uint32 // never persisted
	Pinned  uint32 // always persisted
}

func registerSerializePolicy(tb testing.TB) (*Registry, *Structure) {
	tb.Helper()
	reg := NewRegistry()
	s := reg.Register("SerializePolicy", serializePolicy{}, nil, func(s *Structure) {
		s.AddField("Plain", "Plain", 0)
		s.AddField("Scratch", "Scratch", FlagDiscard)
		s.AddField("Pinned", "Pinned", FlagForce)
	})
	return reg, s
}

func TestShouldSerializeDiscard(t *testing.T) {
	_, s := registerSerializePolicy(t)
	f, ok := s.FindFieldByName("Scratch")
	require.True(t, ok)

	inst := serializePolicy{Scratch: 99} // mutated away from default
	should, err := f.ShouldSerialize(&inst)
	require.NoError(t, err)
	assert.False(t, should, "Discard fields never serialize")
}

func TestShouldSerializeForce(t *testing.T) {
	_, s := registerSerializePolicy(t)
	f, ok := s.FindFieldByName("Pinned")
	require.True(t, ok)

	inst := serializePolicy{} // still at default
	should, err := f.ShouldSerialize(&inst)
	require.NoError(t, err)
	assert.True(t, should, "Force fields always serialize")
}

func TestShouldSerializeDefaultPolicy(t *testing.T) {
	_, s := registerSerializePolicy(t)
	f, ok := s.FindFieldByName("Plain")
	require.True(t, ok)

	inst := serializePolicy{}
	should, err := f.ShouldSerialize(&inst)
	require.NoError(t, err)
	assert.False(t, should, "defaulted fields do not serialize")

	inst.Plain = 1
	should, err = f.ShouldSerialize(&inst)
	require.NoError(t, err)
	assert.True(t, should)
}

func TestIsDefaultValueWithPrototype(t *testing.T) {
	type Tunable struct {
		Gain   float32
		Limit  uint32
		Labels []uint32
	}

	reg := NewRegistry()
	s := reg.Register("Tunable", Tunable{}, nil, func(s *Structure) {
		s.AddField("Gain", "Gain", 0)
		s.AddField("Limit", "Limit", 0)
		s.AddField("Labels", "Labels", 0)
	}, WithDefault(Tunable{Gain: 1.0, Limit: 64}))

	gain, ok := s.FindFieldByName("Gain")
	require.True(t, ok)

	inst := Tunable{Gain: 1.0}
	def, err := gain.IsDefaultValue(&inst)
	require.NoError(t, err)
	assert.True(t, def, "default comes from the registered prototype, not the zero value")

	inst.Gain = 0
	def, err = gain.IsDefaultValue(&inst)
	require.NoError(t, err)
	assert.False(t, def)
}

func TestNewStartsFromDefault(t *testing.T) {
	type Tunable struct {
		Gain  float32
		Limit uint32
	}

	reg := NewRegistry()
	s := reg.Register("Tunable", Tunable{}, nil, func(s *Structure) {
		s.AddField("Gain", "Gain", 0)
		s.AddField("Limit", "Limit", 0)
	}, WithDefault(Tunable{Gain: 1.0, Limit: 64}))

	inst, ok := s.New().(*Tunable)
	require.True(t, ok)
	assert.Equal(t, float32(1.0), inst.Gain)
	assert.Equal(t, uint32(64), inst.Limit)
}

func TestIsDefaultValueOnDerivedInstance(t *testing.T) {
	_, base, _ := registerTestTypes(t)

	f, ok := base.FindFieldByName("Unsigned 32-bit Integer")
	require.True(t, ok)

	inst := TestDerived{}
	def, err := f.IsDefaultValue(&inst)
	require.NoError(t, err)
	assert.True(t, def, "base fields resolve through the embedding chain")

	inst.U32 = 5
	def, err = f.IsDefaultValue(&inst)
	require.NoError(t, err)
	assert.False(t, def)
}

func TestFieldGetSet(t *testing.T) {
	_, base, _ := registerTestTypes(t)

	f, ok := base.FindFieldByName("Unsigned 32-bit Integer")
	require.True(t, ok)

	inst := sampleStructure()
	got, err := f.Get(&inst)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), got)

	require.NoError(t, f.Set(&inst, uint32(77)))
	assert.Equal(t, uint32(77), inst.U32)

	// Setting through a non-pointer instance cannot stick.
	err = f.Set(inst, uint32(5))
	require.ErrorIs(t, err, ErrNotAddressable)
}

func TestFieldValueOnWrongInstance(t *testing.T) {
	type Unrelated struct{ V uint32 }
	_, base, _ := registerTestTypes(t)

	f, ok := base.FindFieldByName("Unsigned 32-bit Integer")
	require.True(t, ok)

	_, err := f.Get(&Unrelated{})
	require.ErrorIs(t, err, ErrNotInstance)
}
