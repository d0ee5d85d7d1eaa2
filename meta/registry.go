package meta

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Registry owns the descriptor namespace: name and Go-type lookup for every
// registered descriptor, plus the derived-type adjacency of the inheritance
// forest. Registration and unregistration are single-threaded startup and
// shutdown operations; the registry takes no locks. Once registration is
// complete, lookups and hierarchy queries may run concurrently.
type Registry struct {
	log *zap.Logger

	typesByHash     map[uint64]*Type
	typesByGoType   map[reflect.Type]*Type
	structsByHash   map[uint64]*Structure
	structsByGoType map[reflect.Type]*Structure

	// derived maps a base structure to its direct children in
	// registration order. The adjacency lives here, not on the
	// descriptors, so a published descriptor is immutable in full.
	derived map[*Structure][]*Structure
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// StructureOption configures a structure at registration time.
type StructureOption func(*Structure)

// WithDefault sets an explicit default prototype for the structure. Without
// it the default instance is the zero value of the Go type.
func WithDefault(prototype any) StructureOption {
	return func(s *Structure) { s.defProto = prototype }
}

// NewRegistry creates a registry with descriptors for the primitive types
// pre-registered, so container element types resolve without user action.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		log:             zap.NewNop(),
		typesByHash:     make(map[uint64]*Type),
		typesByGoType:   make(map[reflect.Type]*Type),
		structsByHash:   make(map[uint64]*Structure),
		structsByGoType: make(map[reflect.Type]*Structure),
		derived:         make(map[*Structure][]*Structure),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, proto := range []any{
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0),
		float32(0), float64(0), false, "",
	} {
		t := reflect.TypeOf(proto)
		r.addType(&Type{name: t.Kind().String(), hash: xxhash.Sum64String(t.Kind().String()), goType: t})
	}
	return r
}

func (r *Registry) addType(t *Type) {
	if _, dup := r.typesByHash[t.hash]; dup {
		panic(fmt.Sprintf("meta: type %q registered twice", t.name))
	}
	if _, dup := r.typesByGoType[t.goType]; dup {
		panic(fmt.Sprintf("meta: Go type %s registered twice", t.goType))
	}
	r.typesByHash[t.hash] = t
	r.typesByGoType[t.goType] = t
}

// Register builds, populates, and publishes a composite-type descriptor.
// prototype carries the Go type (a zero value or a nil pointer of the type);
// base is the already registered base descriptor or nil for a root type;
// populate appends the fields.
//
// Register panics on declaration defects: a duplicate name or Go type, a
// non-struct prototype, an unregistered base, or a derived Go type that does
// not embed its base's Go type as its first anonymous field.
func (r *Registry) Register(name string, prototype any, base *Structure, populate PopulateFunc, opts ...StructureOption) *Structure {
	goType := reflect.TypeOf(prototype)
	for goType != nil && goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	if goType == nil || goType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("meta: structure %q prototype must be a struct, got %T", name, prototype))
	}
	if base != nil {
		if _, ok := r.structsByGoType[base.goType]; !ok {
			panic(fmt.Sprintf("meta: structure %q base %s is not registered", name, base.name))
		}
		if goType.NumField() == 0 || !goType.Field(0).Anonymous || goType.Field(0).Type != base.goType {
			panic(fmt.Sprintf("meta: structure %q must embed its base %s as its first field", name, base.name))
		}
	}

	s := &Structure{
		Type:     Type{name: name, hash: xxhash.Sum64String(name), goType: goType},
		registry: r,
		base:     base,
		populate: populate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if populate != nil {
		populate(s)
	}
	s.frozen = true

	r.addType(&s.Type)
	r.structsByHash[s.hash] = s
	r.structsByGoType[goType] = s
	if base != nil {
		r.derived[base] = append(r.derived[base], s)
	}

	baseName := ""
	if base != nil {
		baseName = base.name
	}
	r.log.Debug("registered structure",
		zap.String("name", name),
		zap.String("base", baseName),
		zap.Int("fields", len(s.fields)))
	return s
}

// Unregister removes a structure from the registry and from its base's
// derived set. Expected only during shutdown; descendants of s are left in
// place.
func (r *Registry) Unregister(s *Structure) {
	delete(r.typesByHash, s.hash)
	delete(r.typesByGoType, s.goType)
	delete(r.structsByHash, s.hash)
	delete(r.structsByGoType, s.goType)
	delete(r.derived, s)
	if s.base != nil {
		siblings := r.derived[s.base]
		for i, d := range siblings {
			if d == s {
				r.derived[s.base] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	r.log.Debug("unregistered structure", zap.String("name", s.name))
}

// FindByName looks up a composite descriptor by registered name.
func (r *Registry) FindByName(name string) (*Structure, bool) {
	s, ok := r.structsByHash[xxhash.Sum64String(name)]
	return s, ok
}

// TypeByName looks up any descriptor, primitive or composite, by name.
func (r *Registry) TypeByName(name string) (*Type, bool) {
	t, ok := r.typesByHash[xxhash.Sum64String(name)]
	return t, ok
}

// typeFor looks up the descriptor registered for a Go type, nil when
// unregistered. Used during field registration to resolve container element
// types; an unregistered element type is a recoverable not-found.
func (r *Registry) typeFor(t reflect.Type) *Type {
	return r.typesByGoType[t]
}

// StructureOf resolves an instance's dynamic composite descriptor.
func (r *Registry) StructureOf(instance any) (*Structure, error) {
	v, err := instanceValue(instance)
	if err != nil {
		return nil, err
	}
	s, ok := r.structsByGoType[v.Type()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, v.Type())
	}
	return s, nil
}

// DerivedOf returns the direct children of base in registration order.
func (r *Registry) DerivedOf(base *Structure) []*Structure {
	out := make([]*Structure, len(r.derived[base]))
	copy(out, r.derived[base])
	return out
}

// Structures returns every registered composite descriptor's name.
func (r *Registry) Structures() []string {
	out := make([]string, 0, len(r.structsByHash))
	for _, s := range r.structsByHash {
		out = append(out, s.name)
	}
	return out
}
