package meta

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Type is the minimal descriptor shared by primitives and composite types:
// a stable name, its hash, and the Go type it describes.
type Type struct {
	name   string
	hash   uint64
	goType reflect.Type
}

// Name returns the type's registered name.
func (t *Type) Name() string { return t.name }

// Hash returns the xxhash64 of the type's name.
func (t *Type) Hash() uint64 { return t.hash }

// GoType returns the Go type the descriptor was registered for.
func (t *Type) GoType() reflect.Type { return t.goType }

// PopulateFunc fills a structure's fields via AddField. It runs exactly once,
// during Register, before the structure is published.
type PopulateFunc func(*Structure)

// Structure is the composite-type descriptor: the ordered field set of one
// struct type, its base link, and its lazily materialized default instance.
// Structures are built and published by Registry.Register; afterwards they
// are frozen and safe for concurrent reads.
type Structure struct {
	Type

	registry *Registry
	base     *Structure
	fields   []Field
	populate PopulateFunc
	frozen   bool

	defProto any
	defOnce  sync.Once
	def      reflect.Value
}

// Base returns the structure's base descriptor, nil for root types.
func (s *Structure) Base() *Structure { return s.base }

// Fields returns the structure's own fields in declaration order. Inherited
// fields are reached by walking Base.
func (s *Structure) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	for i := range s.fields {
		out[i] = &s.fields[i]
	}
	return out
}

// NumFields returns the number of the structure's own fields.
func (s *Structure) NumFields() int { return len(s.fields) }

// GetBaseFieldCount returns the total number of fields accumulated along the
// base chain. A structure's own field indices start here.
func (s *Structure) GetBaseFieldCount() int {
	if s.base == nil {
		return 0
	}
	return s.base.GetBaseFieldCount() + len(s.base.fields)
}

// IsType reports whether candidate is this structure or one of its
// ancestors.
func (s *Structure) IsType(candidate *Structure) bool {
	for cur := s; cur != nil; cur = cur.base {
		if cur == candidate {
			return true
		}
	}
	return false
}

// New allocates a fresh instance of the structure's Go type, initialized
// from the default instance, and returns a pointer to it. Starting from the
// default is what lets serialization omit defaulted fields: a loader applies
// a document on top of a New instance and absent fields stay at their
// defaults. Registered container fields are deep-cloned so instances never
// alias the default instance's containers.
func (s *Structure) New() any {
	p := reflect.New(s.goType)
	p.Elem().Set(s.Default())
	s.copyValue(s.Default(), p.Elem(), false)
	return p.Interface()
}

// Default returns the structure's default instance, materializing it on
// first use. The default is the zero value of the Go type unless the
// structure was registered with WithDefault.
func (s *Structure) Default() reflect.Value {
	s.defOnce.Do(func() {
		v := reflect.New(s.goType).Elem()
		if s.defProto != nil {
			v.Set(reflect.ValueOf(s.defProto))
		}
		s.def = v
	})
	return s.def
}

// AddField registers one member of the structure's Go type under the given
// display name. It computes the member's offset, element size and count,
// deduces its container shape and element types, binds a compatible
// translator, and appends the field with the next sequential index.
//
// AddField may only be called from the populate callback; a member whose
// shape has no compatible translator, or a member name that does not exist
// on the Go type, is a declaration defect and panics.
func (s *Structure) AddField(member, name string, flags FieldFlags) *Field {
	if s.frozen {
		panic(fmt.Sprintf("meta: AddField(%q) on frozen structure %s", name, s.name))
	}
	goIndex := -1
	for i := 0; i < s.goType.NumField(); i++ {
		if i == 0 && s.base != nil {
			continue // the embedded base is not an own member
		}
		if s.goType.Field(i).Name == member {
			goIndex = i
			break
		}
	}
	if goIndex < 0 {
		panic(fmt.Sprintf("meta: structure %s has no member %q", s.name, member))
	}
	sf := s.goType.Field(goIndex)

	translator, err := s.registry.bindTranslator(sf.Type)
	if err != nil {
		panic(fmt.Sprintf("meta: structure %s field %q: %v", s.name, name, err))
	}

	shape := DeduceShape(sf.Type)
	size := sf.Type.Size()
	count := 1
	if shape.Kind == ShapeFixedArray {
		size = shape.Elem.Size()
		count = shape.Count
	}
	var keyType, valueType *Type
	if shape.Key != nil {
		keyType = s.registry.typeFor(shape.Key)
	}
	if shape.Elem != nil {
		valueType = s.registry.typeFor(shape.Elem)
	}

	s.fields = append(s.fields, Field{
		structure:  s,
		name:       name,
		hash:       xxhash.Sum64String(name),
		size:       size,
		count:      count,
		offset:     sf.Offset,
		flags:      flags,
		index:      s.GetBaseFieldCount() + len(s.fields),
		shape:      shape.Kind,
		keyType:    keyType,
		valueType:  valueType,
		translator: translator,
		goIndex:    goIndex,
	})
	return &s.fields[len(s.fields)-1]
}

// FindFieldByName looks up one of the structure's own fields by name hash.
// Inherited fields are not searched; callers walk Base explicitly.
func (s *Structure) FindFieldByName(name string) (*Field, bool) {
	h := xxhash.Sum64String(name)
	for i := range s.fields {
		if s.fields[i].hash == h {
			return &s.fields[i], true
		}
	}
	return nil, false
}

// FindFieldByIndex maps a global declaration index back to one of the
// structure's own fields. Indices outside [GetBaseFieldCount,
// GetBaseFieldCount+NumFields) report not found.
func (s *Structure) FindFieldByIndex(index int) (*Field, bool) {
	base := s.GetBaseFieldCount()
	if index < base || index >= base+len(s.fields) {
		return nil, false
	}
	return &s.fields[index-base], true
}

// FindFieldByOffset looks up one of the structure's own fields by its byte
// offset, returning the first exact match.
func (s *Structure) FindFieldByOffset(offset uintptr) (*Field, bool) {
	for i := range s.fields {
		if s.fields[i].offset == offset {
			return &s.fields[i], true
		}
	}
	return nil, false
}

// Equals compares two instances using the receiver as their common static
// view: every non-Share field at every level from the receiver up to the
// root must compare equal. Both instances must be instances of the receiver
// (their structures may be derived from it); fields declared below the
// receiver's level are ignored.
func (s *Structure) Equals(a, b any) (bool, error) {
	va, err := s.viewOf(a)
	if err != nil {
		return false, err
	}
	vb, err := s.viewOf(b)
	if err != nil {
		return false, err
	}
	return s.equalsValue(va, vb), nil
}

// Copy copies field values from src into dst using the receiver as the
// common static view. Share-flagged fields are left untouched. With shallow
// set, sequence, set and map fields alias the source containers instead of
// cloning their elements; scalar and fixed-array fields always copy by
// value. dst must be passed as a pointer.
func (s *Structure) Copy(src, dst any, shallow bool) error {
	vsrc, err := s.viewOf(src)
	if err != nil {
		return err
	}
	vdst, err := s.viewOf(dst)
	if err != nil {
		return err
	}
	if !vdst.CanAddr() {
		return ErrNotAddressable
	}
	s.copyValue(vsrc, vdst, shallow)
	return nil
}

func (s *Structure) equalsValue(a, b reflect.Value) bool {
	for cur := s; cur != nil; cur = cur.base {
		la, _ := levelValue(a, s, cur)
		lb, _ := levelValue(b, s, cur)
		for i := range cur.fields {
			f := &cur.fields[i]
			if f.flags.Has(FlagShare) {
				continue
			}
			if !f.translator.Equals(la.Field(f.goIndex), lb.Field(f.goIndex)) {
				return false
			}
		}
	}
	return true
}

func (s *Structure) copyValue(src, dst reflect.Value, shallow bool) {
	for cur := s; cur != nil; cur = cur.base {
		lsrc, _ := levelValue(src, s, cur)
		ldst, _ := levelValue(dst, s, cur)
		for i := range cur.fields {
			f := &cur.fields[i]
			if f.flags.Has(FlagShare) {
				continue
			}
			f.translator.Copy(lsrc.Field(f.goIndex), ldst.Field(f.goIndex), shallow)
		}
	}
}

// viewOf navigates an instance down its embedding chain until the receiver's
// Go type is reached, yielding the receiver-typed view of the instance.
func (s *Structure) viewOf(instance any) (reflect.Value, error) {
	v, err := instanceValue(instance)
	if err != nil {
		return reflect.Value{}, err
	}
	for v.Type() != s.goType {
		if v.Kind() != reflect.Struct || v.NumField() == 0 || !v.Type().Field(0).Anonymous {
			return reflect.Value{}, fmt.Errorf("%w: %s is not an instance of %s",
				ErrNotInstance, v.Type(), s.name)
		}
		v = v.Field(0)
	}
	return v, nil
}

// levelValue descends from a value of from's Go type to the embedded value
// of to's Go type, where to is from itself or one of its ancestors.
func levelValue(v reflect.Value, from, to *Structure) (reflect.Value, error) {
	for from != to {
		if from == nil || from.base == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s does not derive from %s",
				ErrNotInstance, v.Type(), to.name)
		}
		v = v.Field(0)
		from = from.base
	}
	return v, nil
}

// Equals compares two instances of possibly different registered structures.
// The common view is the shallower of the two dynamic structures when one is
// an ancestor of the other, otherwise their nearest common ancestor; two
// structures without a common ancestor cannot be compared.
func Equals(r *Registry, a, b any) (bool, error) {
	common, err := commonStructure(r, a, b)
	if err != nil {
		return false, err
	}
	return common.Equals(a, b)
}

// Copy copies between instances of possibly different registered structures,
// resolving the common view the same way Equals does.
func Copy(r *Registry, src, dst any, shallow bool) error {
	common, err := commonStructure(r, src, dst)
	if err != nil {
		return err
	}
	return common.Copy(src, dst, shallow)
}

func commonStructure(r *Registry, a, b any) (*Structure, error) {
	sa, err := r.StructureOf(a)
	if err != nil {
		return nil, err
	}
	sb, err := r.StructureOf(b)
	if err != nil {
		return nil, err
	}
	for anc := sa; anc != nil; anc = anc.base {
		if sb.IsType(anc) {
			return anc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s and %s", ErrNoCommonAncestor, sa.name, sb.name)
}
