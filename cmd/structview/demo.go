package main

import (
	"github.com/google/uuid"

	"github.com/forgelight/reflect/meta"
)

// Transform is a demonstration root type built from fixed arrays.
type Transform struct {
	Position [3]float32
	Rotation [4]float32
	Scale    [3]float32
}

// Entity is a demonstration root type covering every container shape. The
// uuid.UUID member is a [16]byte, so it exercises the fixed-array path.
type Entity struct {
	ID        uuid.UUID
	Name      string
	Transform Transform
	Tags      map[string]struct{}
	Links     []uint64
	Counters  map[string]uint32
	DebugTint uint32 // editor-only, never saved
}

// Character derives from Entity and adds gameplay fields.
type Character struct {
	Entity

	Health uint32
	Mana   uint32
}

// registerDemoTypes builds the demonstration hierarchy: Transform and Entity
// as roots (Transform before Entity, which nests it), then Character derived
// from Entity.
func registerDemoTypes(reg *meta.Registry) (entity, character *meta.Structure) {
	reg.Register("Transform", Transform{}, nil, func(s *meta.Structure) {
		s.AddField("Position", "Position", 0)
		s.AddField("Rotation", "Rotation", 0)
		s.AddField("Scale", "Scale", 0)
	}, meta.WithDefault(Transform{Scale: [3]float32{1, 1, 1}}))

	entity = reg.Register("Entity", Entity{}, nil, func(s *meta.Structure) {
		s.AddField("ID", "ID", meta.FlagForce|meta.FlagReadOnly)
		s.AddField("Name", "Name", 0)
		s.AddField("Transform", "Transform", 0)
		s.AddField("Tags", "Tags", 0)
		s.AddField("Links", "Links", meta.FlagShare)
		s.AddField("Counters", "Counters", 0)
		s.AddField("DebugTint", "Debug Tint", meta.FlagDiscard|meta.FlagHide)
	})

	character = reg.Register("Character", Character{}, entity, func(s *meta.Structure) {
		s.AddField("Health", "Health", 0)
		s.AddField("Mana", "Mana", 0)
	}, meta.WithDefault(Character{Health: 100, Mana: 50}))
	return entity, character
}

// sampleCharacter builds the instance the dump command serializes.
func sampleCharacter() *Character {
	return &Character{
		Entity: Entity{
			ID:   uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			Name: "torchbearer",
			Transform: Transform{
				Position: [3]float32{12, 0, -4},
				Rotation: [4]float32{0, 0, 0, 1},
				Scale:    [3]float32{1, 1, 1},
			},
			Tags:     map[string]struct{}{"npc": {}, "quest": {}},
			Links:    []uint64{7, 9},
			Counters: map[string]uint32{"visits": 3},
		},
		Health: 87,
		Mana:   50,
	}
}
