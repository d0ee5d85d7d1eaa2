package meta

import (
	"fmt"
	"reflect"
	"sort"
)

// fixedArrayTranslator handles fixed-size array members element by element.
type fixedArrayTranslator struct {
	elem  Translator
	count int
}

func (t *fixedArrayTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (t *fixedArrayTranslator) Set(v reflect.Value, value any) error {
	return setThrough(t, v, value)
}

func (t *fixedArrayTranslator) Equals(a, b reflect.Value) bool {
	for i := 0; i < t.count; i++ {
		if !t.elem.Equals(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

func (t *fixedArrayTranslator) Copy(src, dst reflect.Value, shallow bool) {
	for i := 0; i < t.count; i++ {
		t.elem.Copy(src.Index(i), dst.Index(i), shallow)
	}
}

func (t *fixedArrayTranslator) Serialize(v reflect.Value) (any, error) {
	out := make([]any, t.count)
	for i := 0; i < t.count; i++ {
		raw, err := t.elem.Serialize(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func (t *fixedArrayTranslator) Deserialize(v reflect.Value, raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
	}
	if len(list) != t.count {
		return fmt.Errorf("%w: %d elements into array of %d", ErrBadValue, len(list), t.count)
	}
	for i := range list {
		if err := t.elem.Deserialize(v.Index(i), list[i]); err != nil {
			return err
		}
	}
	return nil
}

// sequenceTranslator handles slice members. A shallow copy aliases the
// backing array; a deep copy clones every element.
type sequenceTranslator struct {
	elem     Translator
	elemType reflect.Type
}

func (t *sequenceTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (t *sequenceTranslator) Set(v reflect.Value, value any) error {
	return setThrough(t, v, value)
}

func (t *sequenceTranslator) Equals(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !t.elem.Equals(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

func (t *sequenceTranslator) Copy(src, dst reflect.Value, shallow bool) {
	if shallow {
		dst.Set(src)
		return
	}
	if src.IsNil() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	clone := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		t.elem.Copy(src.Index(i), clone.Index(i), false)
	}
	dst.Set(clone)
}

func (t *sequenceTranslator) Serialize(v reflect.Value) (any, error) {
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		raw, err := t.elem.Serialize(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func (t *sequenceTranslator) Deserialize(v reflect.Value, raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
	}
	clone := reflect.MakeSlice(v.Type(), len(list), len(list))
	for i := range list {
		if err := t.elem.Deserialize(clone.Index(i), list[i]); err != nil {
			return err
		}
	}
	v.Set(clone)
	return nil
}

// setTranslator handles map[T]struct{} members. Serialization is sorted so
// output is deterministic across runs.
type setTranslator struct {
	elem     Translator
	elemType reflect.Type
}

func (t *setTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (t *setTranslator) Set(v reflect.Value, value any) error {
	return setThrough(t, v, value)
}

func (t *setTranslator) Equals(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	iter := a.MapRange()
	for iter.Next() {
		if !b.MapIndex(iter.Key()).IsValid() {
			return false
		}
	}
	return true
}

func (t *setTranslator) Copy(src, dst reflect.Value, shallow bool) {
	if shallow {
		dst.Set(src)
		return
	}
	if src.IsNil() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	clone := reflect.MakeMapWithSize(src.Type(), src.Len())
	iter := src.MapRange()
	for iter.Next() {
		clone.SetMapIndex(iter.Key(), iter.Value())
	}
	dst.Set(clone)
}

func (t *setTranslator) Serialize(v reflect.Value) (any, error) {
	out := make([]any, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		raw, err := t.elem.Serialize(iter.Key())
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	sortSerialized(out)
	return out, nil
}

func (t *setTranslator) Deserialize(v reflect.Value, raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
	}
	clone := reflect.MakeMapWithSize(v.Type(), len(list))
	for _, entry := range list {
		key := reflect.New(t.elemType).Elem()
		if err := t.elem.Deserialize(key, entry); err != nil {
			return err
		}
		clone.SetMapIndex(key, reflect.ValueOf(struct{}{}))
	}
	v.Set(clone)
	return nil
}

// mapTranslator handles key-to-value map members. Serialization uses a
// key-sorted list of {key, value} entries rather than an object, so non-string
// keys survive the round trip.
type mapTranslator struct {
	key      Translator
	keyType  reflect.Type
	elem     Translator
	elemType reflect.Type
}

func (t *mapTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (t *mapTranslator) Set(v reflect.Value, value any) error {
	return setThrough(t, v, value)
}

func (t *mapTranslator) Equals(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	iter := a.MapRange()
	for iter.Next() {
		other := b.MapIndex(iter.Key())
		if !other.IsValid() || !t.elem.Equals(iter.Value(), other) {
			return false
		}
	}
	return true
}

func (t *mapTranslator) Copy(src, dst reflect.Value, shallow bool) {
	if shallow {
		dst.Set(src)
		return
	}
	if src.IsNil() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	clone := reflect.MakeMapWithSize(src.Type(), src.Len())
	iter := src.MapRange()
	for iter.Next() {
		elem := reflect.New(t.elemType).Elem()
		t.elem.Copy(iter.Value(), elem, false)
		clone.SetMapIndex(iter.Key(), elem)
	}
	dst.Set(clone)
}

func (t *mapTranslator) Serialize(v reflect.Value) (any, error) {
	out := make([]any, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := t.key.Serialize(iter.Key())
		if err != nil {
			return nil, err
		}
		value, err := t.elem.Serialize(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{"key": key, "value": value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessSerialized(out[i].(map[string]any)["key"], out[j].(map[string]any)["key"])
	})
	return out, nil
}

func (t *mapTranslator) Deserialize(v reflect.Value, raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
	}
	clone := reflect.MakeMapWithSize(v.Type(), len(list))
	for _, rawEntry := range list {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %T as map entry", ErrBadValue, rawEntry)
		}
		key := reflect.New(t.keyType).Elem()
		if err := t.key.Deserialize(key, entry["key"]); err != nil {
			return err
		}
		elem := reflect.New(t.elemType).Elem()
		if err := t.elem.Deserialize(elem, entry["value"]); err != nil {
			return err
		}
		clone.SetMapIndex(key, elem)
	}
	v.Set(clone)
	return nil
}

// sortSerialized orders a list of serialized scalar values in place.
func sortSerialized(list []any) {
	sort.SliceStable(list, func(i, j int) bool { return lessSerialized(list[i], list[j]) })
}

// lessSerialized orders serialized scalars: numerics numerically, everything
// else by string form. Only used for deterministic output, so the exact order
// between mixed kinds does not matter as long as it is total.
func lessSerialized(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
