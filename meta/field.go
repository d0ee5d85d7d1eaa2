package meta

import (
	"fmt"
	"reflect"
)

// FieldFlags is a bitset of per-field behavior flags. The numeric values are
// a persisted contract: saved data and generated code may encode them, so
// they must never be renumbered.
type FieldFlags uint32

const (
	// FlagDiscard marks a field that is never serialized.
	FlagDiscard FieldFlags = 1 << iota
	// FlagForce marks a field that is always serialized, even when its
	// value equals the default.
	FlagForce
	// FlagShare marks an aliasable reference field, excluded from deep
	// comparison and deep copying.
	FlagShare
	// FlagHide marks a field that is not user-editable by default.
	FlagHide
	// FlagReadOnly marks a field that cannot be edited in the UI.
	FlagReadOnly
)

// Has reports whether every flag in mask is set.
func (f FieldFlags) Has(mask FieldFlags) bool { return f&mask == mask }

// Field is the static metadata for one member of a composite type. All of a
// Field's metadata is fixed once AddField returns.
type Field struct {
	structure  *Structure
	name       string
	hash       uint64
	size       uintptr
	count      int
	offset     uintptr
	flags      FieldFlags
	index      int
	shape      ShapeKind
	keyType    *Type
	valueType  *Type
	translator Translator

	// goIndex is the member's field index within the owning structure's
	// Go type; base-field access on derived instances navigates the
	// embedding chain first and then applies this index.
	goIndex int
}

// Structure returns the composite type this field belongs to.
func (f *Field) Structure() *Structure { return f.structure }

// Name returns the field's display and lookup name.
func (f *Field) Name() string { return f.name }

// Size returns the byte size of one element of the field.
func (f *Field) Size() uintptr { return f.size }

// Count returns the number of elements: 1 for scalars, N for fixed arrays.
func (f *Field) Count() int { return f.count }

// Offset returns the field's byte offset within the enclosing struct layout.
func (f *Field) Offset() uintptr { return f.offset }

// Flags returns the field's behavior flags.
func (f *Field) Flags() FieldFlags { return f.flags }

// Index returns the field's declaration index. Indices are global across the
// inheritance chain: a structure's own fields start at GetBaseFieldCount().
func (f *Field) Index() int { return f.index }

// Shape returns the field's deduced container shape kind.
func (f *Field) Shape() ShapeKind { return f.shape }

// KeyType returns the key element descriptor for map-shaped fields, or nil.
func (f *Field) KeyType() *Type { return f.keyType }

// ValueType returns the value element descriptor for container-shaped
// fields, or nil for scalars.
func (f *Field) ValueType() *Type { return f.valueType }

// Translator returns the access strategy bound to this field.
func (f *Field) Translator() Translator { return f.translator }

// Value resolves the field's value on an instance of the owning structure or
// any structure derived from it.
func (f *Field) Value(instance any) (reflect.Value, error) {
	v, err := instanceValue(instance)
	if err != nil {
		return reflect.Value{}, err
	}
	return f.resolve(v)
}

// Get returns the field's current value on instance through the translator.
func (f *Field) Get(instance any) (any, error) {
	v, err := f.Value(instance)
	if err != nil {
		return nil, err
	}
	return f.translator.Get(v)
}

// Set assigns the field's value on instance through the translator. The
// instance must be passed as a pointer.
func (f *Field) Set(instance any, value any) error {
	v, err := f.Value(instance)
	if err != nil {
		return err
	}
	if !v.CanSet() {
		return ErrNotAddressable
	}
	return f.translator.Set(v, value)
}

// IsDefaultValue reports whether the field's value on instance equals the
// value it holds on the owning structure's default instance.
func (f *Field) IsDefaultValue(instance any) (bool, error) {
	v, err := f.Value(instance)
	if err != nil {
		return false, err
	}
	def := f.structure.Default().Field(f.goIndex)
	return f.translator.Equals(v, def), nil
}

// ShouldSerialize reports whether the field should be written when instance
// is serialized. Discard always wins, then Force, then the default-value
// check: fields holding their default value are not written.
func (f *Field) ShouldSerialize(instance any) (bool, error) {
	if f.flags.Has(FlagDiscard) {
		return false, nil
	}
	if f.flags.Has(FlagForce) {
		return true, nil
	}
	def, err := f.IsDefaultValue(instance)
	if err != nil {
		return false, err
	}
	return !def, nil
}

// resolve navigates from an instance value, which may be of a structure
// derived from the owner, down the embedding chain to the owner and returns
// the member value.
func (f *Field) resolve(v reflect.Value) (reflect.Value, error) {
	for v.Type() != f.structure.goType {
		if v.Kind() != reflect.Struct || v.NumField() == 0 || !v.Type().Field(0).Anonymous {
			return reflect.Value{}, fmt.Errorf("%w: field %q of %s on %s",
				ErrNotInstance, f.name, f.structure.name, v.Type())
		}
		v = v.Field(0)
	}
	return v.Field(f.goIndex), nil
}

// instanceValue normalizes an instance to a struct reflect.Value,
// dereferencing one level of pointer so that pointer instances stay
// addressable.
func instanceValue(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil pointer", ErrNotStruct)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: got %T", ErrNotStruct, instance)
	}
	return v, nil
}
