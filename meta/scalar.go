package meta

import (
	"fmt"
	"reflect"
)

// scalarTranslator handles primitive members: the fixed-width integers,
// floats, bool, and string. All are comparable, so equality is the language
// equality and copy is plain assignment.
type scalarTranslator struct {
	t reflect.Type
}

func (s scalarTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (s scalarTranslator) Set(v reflect.Value, value any) error {
	return setThrough(s, v, value)
}

func (s scalarTranslator) Equals(a, b reflect.Value) bool {
	return a.Interface() == b.Interface()
}

func (s scalarTranslator) Copy(src, dst reflect.Value, shallow bool) {
	dst.Set(src)
}

func (s scalarTranslator) Serialize(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (s scalarTranslator) Deserialize(v reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return fmt.Errorf("%w: nil for %s", ErrBadValue, v.Type())
	}
	if rv.Type().AssignableTo(v.Type()) {
		v.Set(rv)
		return nil
	}
	// JSON decodes every number as float64 and YAML as int; allow the
	// numeric conversions but nothing else (notably not int-to-string).
	if isNumeric(v.Kind()) && isNumeric(rv.Kind()) && rv.CanConvert(v.Type()) {
		v.Set(rv.Convert(v.Type()))
		return nil
	}
	return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// structTranslator handles members whose type is itself a registered
// composite. It delegates to the nested structure's own descriptor walk, so
// nested Share flags and base chains behave the same as at top level.
type structTranslator struct {
	s *Structure
}

func (t *structTranslator) Get(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

func (t *structTranslator) Set(v reflect.Value, value any) error {
	return setThrough(t, v, value)
}

func (t *structTranslator) Equals(a, b reflect.Value) bool {
	return t.s.equalsValue(a, b)
}

func (t *structTranslator) Copy(src, dst reflect.Value, shallow bool) {
	t.s.copyValue(src, dst, shallow)
}

func (t *structTranslator) Serialize(v reflect.Value) (any, error) {
	out := make(map[string]any)
	for cur := t.s; cur != nil; cur = cur.base {
		level, err := levelValue(v, t.s, cur)
		if err != nil {
			return nil, err
		}
		for i := range cur.fields {
			f := &cur.fields[i]
			if f.flags.Has(FlagDiscard) {
				continue
			}
			raw, err := f.translator.Serialize(level.Field(f.goIndex))
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.name, err)
			}
			out[f.name] = raw
		}
	}
	return out, nil
}

func (t *structTranslator) Deserialize(v reflect.Value, raw any) error {
	doc, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %T into %s", ErrBadValue, raw, v.Type())
	}
	for cur := t.s; cur != nil; cur = cur.base {
		level, err := levelValue(v, t.s, cur)
		if err != nil {
			return err
		}
		for i := range cur.fields {
			f := &cur.fields[i]
			entry, ok := doc[f.name]
			if !ok || f.flags.Has(FlagDiscard) {
				continue // absent in the document, keep the default
			}
			if err := f.translator.Deserialize(level.Field(f.goIndex), entry); err != nil {
				return fmt.Errorf("field %q: %w", f.name, err)
			}
		}
	}
	return nil
}
