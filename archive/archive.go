// Package archive persists instances of registered composite types. It
// consumes the metadata contract only: per-field translators produce generic
// values, ShouldSerialize decides what is written, and the registry resolves
// type names on load. Documents carry the registered type name, so a reader
// can reconstruct an instance without knowing its Go type up front; fields
// absent from a document keep their default values, and unknown fields are
// ignored so newer documents load against older schemas.
package archive

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/forgelight/reflect/meta"
)

const (
	typeKey   = "type"
	fieldsKey = "fields"
)

// Marshal produces the generic document form of an instance: its registered
// type name plus every field that ShouldSerialize reports as worth writing,
// from the root of the hierarchy down to the instance's own type.
func Marshal(reg *meta.Registry, instance any) (map[string]any, error) {
	s, err := reg.StructureOf(instance)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	for _, level := range chainRootFirst(s) {
		for _, f := range level.Fields() {
			should, err := f.ShouldSerialize(instance)
			if err != nil {
				return nil, fmt.Errorf("archive: field %q: %w", f.Name(), err)
			}
			if !should {
				continue
			}
			v, err := f.Value(instance)
			if err != nil {
				return nil, fmt.Errorf("archive: field %q: %w", f.Name(), err)
			}
			raw, err := f.Translator().Serialize(v)
			if err != nil {
				return nil, fmt.Errorf("archive: field %q: %w", f.Name(), err)
			}
			fields[f.Name()] = raw
		}
	}
	return map[string]any{typeKey: s.Name(), fieldsKey: fields}, nil
}

// Apply loads a document's fields into an existing instance, which must be
// passed as a pointer. Fields absent from the document are left untouched;
// field names the instance's structure does not declare are skipped.
func Apply(reg *meta.Registry, instance any, doc map[string]any) error {
	s, err := reg.StructureOf(instance)
	if err != nil {
		return err
	}
	fields, _ := doc[fieldsKey].(map[string]any)
	if fields == nil {
		return fmt.Errorf("archive: document has no %q section", fieldsKey)
	}
	for _, level := range chainRootFirst(s) {
		for _, f := range level.Fields() {
			raw, ok := fields[f.Name()]
			if !ok {
				continue
			}
			if f.Flags().Has(meta.FlagDiscard) {
				continue // never persisted, so never loaded
			}
			if err := f.Set(instance, raw); err != nil {
				return fmt.Errorf("archive: field %q: %w", f.Name(), err)
			}
		}
	}
	return nil
}

// Unmarshal allocates a fresh instance of the document's registered type and
// loads the document into it, returning a pointer to the instance.
func Unmarshal(reg *meta.Registry, doc map[string]any) (any, error) {
	name, _ := doc[typeKey].(string)
	if name == "" {
		return nil, fmt.Errorf("archive: document has no %q name", typeKey)
	}
	s, ok := reg.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("archive: %w: %q", meta.ErrNotRegistered, name)
	}
	instance := s.New()
	if err := Apply(reg, instance, doc); err != nil {
		return nil, err
	}
	return instance, nil
}

// EncodeJSON writes an instance's document as JSON.
func EncodeJSON(w io.Writer, reg *meta.Registry, instance any) error {
	doc, err := Marshal(reg, instance)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// DecodeJSON reads a JSON document and reconstructs its instance.
func DecodeJSON(r io.Reader, reg *meta.Registry) (any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return Unmarshal(reg, doc)
}

// EncodeYAML writes an instance's document as YAML.
func EncodeYAML(w io.Writer, reg *meta.Registry, instance any) error {
	doc, err := Marshal(reg, instance)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeYAML reads a YAML document and reconstructs its instance.
func DecodeYAML(r io.Reader, reg *meta.Registry) (any, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return Unmarshal(reg, doc)
}

// chainRootFirst returns the base chain of s ordered root first, so field
// output follows global declaration-index order.
func chainRootFirst(s *meta.Structure) []*meta.Structure {
	var chain []*meta.Structure
	for cur := s; cur != nil; cur = cur.Base() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
